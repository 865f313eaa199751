package commands

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "petriz",
	Short: "Open source API provider for the SLB glossary",
	Long: `Petriz serves a searchable glossary of petroleum terms over HTTP,
with API client credential management, per-client search history and
glossary-wide search metrics.

Runtime configuration is read from the environment; a .env file in the
working directory is loaded automatically.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() error {
	godotenv.Load()
	return rootCmd.Execute()
}
