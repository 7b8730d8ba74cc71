package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootOffline bool

var rootCmd = &cobra.Command{
	Use:   "maestro",
	Short: "Multi-specialist orchestration for Claude models",
	Long: `Maestro routes each request across a roster of Claude specialists,
runs them in phased waves, and fuses their outputs into one response.

With no arguments, launches interactive mode with a persistent TUI where
you can type requests and watch the specialists work.

Core capabilities:
- Classifies each request and scores its complexity
- Selects specialists whose specializations match the request
- Runs phases concurrently with retries and a session deadline
- Fuses specialist outputs weighted by confidence
- Archives every session for later review`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Flags for interactive mode
	rootCmd.Flags().BoolVar(&rootOffline, "offline", false, "Answer with the canned offline adapter instead of the Anthropic API")

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(specialistsCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
