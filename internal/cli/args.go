package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireTargetPath validates that exactly one target_path argument is provided,
// unless the command was asked to --list instead.
// Returns a helpful error message with usage and examples if missing or too many.
func RequireTargetPath(cmd *cobra.Command, args []string) error {
	if list, err := cmd.Flags().GetBool("list"); err == nil && list {
		return nil
	}
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <target_path>

Usage: %s

Example:
  %s ./warehouse --template sqlite

Use '%s --list' to see available templates.`, cmd.UseLine(), cmd.CommandPath(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
