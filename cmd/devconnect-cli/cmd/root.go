package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "devconnect-cli",
	Short: "DevConnect CLI tool",
	Long: `DevConnect CLI is a command-line companion for the DevConnect server.

Available commands:
  token    Mint a bearer token for a user, useful for local development

Use "devconnect-cli [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
