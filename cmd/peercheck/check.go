package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/jpalmerr/peercheck"
	"github.com/jpalmerr/peercheck/config"
	"github.com/jpalmerr/peercheck/internal/peers"
	"github.com/spf13/cobra"
)

// checkCmd looks peers up and prints the results table to stdout.
var checkCmd = &cobra.Command{
	Use:   "check [peer-id...]",
	Short: "Look peers up from the terminal",
	Long: `Look peer IDs up on the dashboard and print a results table.

Peer IDs are taken from the arguments, or read from stdin (one per line)
when no arguments are given.

Example:
  peercheck check Qm123 Qm456
  peercheck check < peers.txt
  peercheck check -c peercheck.yaml Qm123`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringP("config", "c", "", "path to config file (optional)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	input := strings.Join(args, "\n")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read peer ids: %w", err)
		}
		input = string(data)
	}

	// lookups report failures in the table; keep stderr quiet
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))

	pc, err := peercheck.New(config.BuildOptions(cfg, logger)...)
	if err != nil {
		return fmt.Errorf("failed to create peercheck: %w", err)
	}

	report := pc.Check(cmd.Context(), input)
	if len(report.IDs) == 0 {
		return fmt.Errorf("no peer ids given")
	}

	return writeReport(cmd.OutOrStdout(), report)
}

// writeReport prints one row per distinct peer in submission order, then totals.
func writeReport(out io.Writer, report peercheck.Report) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PEER ID\tNAME\tREWARD\tSCORE\tSTATUS")

	for _, id := range peers.Unique(report.IDs) {
		r, ok := report.Results[id]
		if !ok {
			continue
		}
		if r.Failed() {
			fmt.Fprintf(tw, "%s\terror: %s\t\t\t\n", id, r.Error)
			continue
		}
		status := "Offline"
		if r.Online {
			status = "Online"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", id, r.PeerName, r.Reward, r.Score, status)
	}

	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(out, "\nTotal Reward: %d | Total Score: %d\n", report.Totals.Reward, report.Totals.Score)
	return err
}
