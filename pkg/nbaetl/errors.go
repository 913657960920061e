package nbaetl

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	report, err := orchestrator.Run(ctx, batch)
//	if errors.Is(err, nbaetl.ErrWrite) {
//	    // the transaction was rolled back
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionFailed indicates the store could not be reached.
	ErrConnectionFailed = errors.New("connection failed")

	// ErrSchema indicates DDL failed or the expected tables are missing.
	ErrSchema = errors.New("schema error")

	// ErrWrite indicates a delete or insert statement failed during a load.
	ErrWrite = errors.New("write failed")

	// ErrValidationFailed indicates at least one ERROR-severity rule found offending rows.
	ErrValidationFailed = errors.New("validation failed")

	// ErrBatchFile indicates a batch input file could not be read or written.
	ErrBatchFile = errors.New("batch file error")

	// ErrApprovalDenied indicates the user declined a destructive operation.
	ErrApprovalDenied = errors.New("approval denied")
)

// WriteError carries the table and chunk context of a failed write statement.
type WriteError struct {
	Table string
	Op    string // "insert" or "delete"
	Chunk int    // zero-based chunk index within the table
	Rows  int    // rows or keys in the failing chunk
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s %s chunk %d (%d rows): %v", e.Op, e.Table, e.Chunk, e.Rows, e.Err)
}

// Unwrap exposes both ErrWrite and the underlying driver error.
func (e *WriteError) Unwrap() []error {
	return []error{ErrWrite, e.Err}
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrConnectionFailed):
		return ExitConnectionError
	case errors.Is(err, ErrSchema):
		return ExitSchemaError
	case errors.Is(err, ErrWrite):
		return ExitWriteError
	case errors.Is(err, ErrValidationFailed):
		return ExitValidationFailed
	case errors.Is(err, ErrBatchFile):
		return ExitBatchFileError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	}

	errStr := err.Error()

	// cobra reports argument and flag problems as plain errors
	for _, pattern := range usagePatterns {
		if strings.Contains(errStr, pattern) {
			return ExitUsageError
		}
	}

	if strings.Contains(errStr, "failed to connect") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host") {
		return ExitConnectionError
	}

	return ExitGeneralError
}

var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"missing required argument",
}
