package main

import (
	"fmt"

	"github.com/jpalmerr/peercheck/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a peercheck configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  peercheck validate -c peercheck.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Port:            %d\n", cfg.Port)
	fmt.Fprintf(out, "  Dashboard:       %s\n", cfg.DashboardURL)
	fmt.Fprintf(out, "  Timeout:         %s\n", cfg.Timeout.Duration())
	fmt.Fprintf(out, "  Max concurrency: %d\n", cfg.MaxConcurrency)

	return nil
}
