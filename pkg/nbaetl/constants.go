package nbaetl

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Load/validation completed (PASS or PASS_WITH_WARNINGS)
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration
	ExitConnectionError  = 11 // Failed to reach the store
	ExitSchemaError      = 12 // DDL failed or tables missing
	ExitWriteError       = 13 // Load rolled back after a write failure
	ExitValidationFailed = 14 // Validation verdict FAIL
	ExitBatchFileError   = 15 // Batch input unreadable
	ExitApprovalDenied   = 16 // User declined a destructive operation
)

const (
	// DefaultMaxParametersPerStatement is the bound-parameter ceiling of the
	// reference SQLite build (SQLITE_MAX_VARIABLE_NUMBER before 3.32).
	DefaultMaxParametersPerStatement = 999

	// MaxPostgresParameters is the wire-protocol limit on bind parameters.
	MaxPostgresParameters = 65535

	// DefaultExampleLimit caps the example rows kept per failing rule.
	DefaultExampleLimit = 5

	// ConfigFileName is the project configuration file looked up by the CLI.
	ConfigFileName = "nbaetl.yaml"

	// DefaultForceApprovalCountdown is the pause before a forced destructive
	// operation proceeds, leaving time for Ctrl+C.
	DefaultForceApprovalCountdown = 5 * time.Second
)
