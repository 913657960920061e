package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const asciiLogo = `         _                _   _
  _ __  | |__   __ _  ___| |_| |
 | '_ \ | '_ \ / _' |/ _ \ __| |
 | | | || |_) | (_| |  __/ |_| |
 |_| |_||_.__/ \__,_|\___|\__|_|`

var rootCmd = &cobra.Command{
	Use:   "nbaetl",
	Short: "Load and validate an NBA star-schema warehouse",
	Long: asciiLogo + `

nbaetl writes a batch of transformed NBA records into the ten star-schema
tables inside a single transaction, then runs a battery of data-quality
rules against what was loaded.

Stores: SQLite (a file path DSN) or PostgreSQL (a postgres:// DSN).

Exit Codes:
  0  - Success (validation PASS or PASS_WITH_WARNINGS)
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Store connection failed
  12 - Schema error (DDL failed or tables missing)
  13 - Write failed, load rolled back
  14 - Validation verdict FAIL
  15 - Batch files unreadable
  16 - User denied a destructive operation`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for nbaetl")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
