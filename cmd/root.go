// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-skills",
	Short: "Turns a user's GitHub repositories into skill scores and career recommendations.",
	Long: `github-skills syncs a user's GitHub repositories, scores their skills from
language sizes, stars and topics, and asks a recommendation service for career
paths, skill gaps and project ideas. Run "serve" for the HTTP API or use the
subcommands directly.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (default $GHSKILLS_CONFIG)")
}
