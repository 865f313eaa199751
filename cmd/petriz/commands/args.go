package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RequireLoadPath validates that exactly one path argument is
// provided. Returns a usage-style error message if missing or too
// many.
func RequireLoadPath(cmd *cobra.Command, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf(`missing required argument: <path>

Usage: %s <path>

Example:
  %s ./data --batch-size 1000`, cmd.UseLine(), cmd.CommandPath())
	}
	if len(args) > 1 {
		return fmt.Errorf("accepts 1 arg(s), received %d", len(args))
	}
	return nil
}
