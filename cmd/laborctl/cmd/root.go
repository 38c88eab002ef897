// Package cmd implements the laborctl subcommands.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "laborctl",
	Short: "Operator CLI for the labor hours API",
	Long: `laborctl manages a labor hours deployment from the command line:
running schema migrations, provisioning accounts outside the API, and
generating the CSV import template.

Database access is configured the same way as the server, through the
DB_* environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(templateCmd)
}
