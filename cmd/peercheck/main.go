// Package main is the entry point for the peercheck CLI.
//
// Usage:
//
//	peercheck serve                    # Serve the lookup form on :8000
//	peercheck serve -c peercheck.yaml  # Serve with a config file
//	peercheck check Qm123 Qm456        # Look peers up from the terminal
//	peercheck validate -c config.yaml  # Validate configuration
//	peercheck version                  # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "peercheck",
	Short: "Look up Gensyn peers on the dashboard",
	Long: `peercheck looks up peer IDs on the Gensyn dashboard and shows each
peer's name, reward, score and online status, plus reward and score totals.

Quick start:
  1. Run: peercheck serve
  2. Open http://localhost:8000 in your browser
  3. Paste peer IDs, one per line, and press Check

Or from the terminal:
  peercheck check Qm123... Qm456...`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this peercheck binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "peercheck %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
