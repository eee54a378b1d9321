package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/internal/history"
)

// NewCmdHistory creates the history command with subcommands.
func NewCmdHistory(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent pipeline runs",
		Long: `Shows a summary of recent pipeline runs started from this machine,
either through 'sonar search' or the HTTP trigger of 'sonar serve'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runHistory(opts, os.Stdout)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().StringVarP(&opts.BriefID, "brief", "b", "", "Only show runs for this brief")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 20, "Maximum number of runs (0 = all)")

	cmd.AddCommand(newCmdHistoryClear())
	return cmd
}

func newCmdHistoryClear() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the run history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			h, err := history.NewStore()
			if err != nil {
				return fmt.Errorf("failed to access history: %w", err)
			}
			if err := h.Clear(); err != nil {
				return fmt.Errorf("failed to clear history: %w", err)
			}
			fmt.Println("History cleared.")
			return nil
		},
	}
}

func runHistory(opts *Options, w io.Writer) error {
	h, err := history.NewStore()
	if err != nil {
		return fmt.Errorf("failed to access history: %w", err)
	}
	runs, err := h.Recent(opts.BriefID, opts.Limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	return writeHistory(w, runs, opts.Format)
}

func writeHistory(w io.Writer, runs []history.Run, format string) error {
	switch format {
	case "json":
		if runs == nil {
			runs = []history.Run{}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	case "", "table":
	default:
		return fmt.Errorf("invalid format: %s (must be table or json)", format)
	}

	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = bold.Fprintf(w, "%-19s  %-36s  %-6s  %7s  %6s  %9s  %8s\n",
		"STARTED", "BRIEF", "SOURCE", "QUERIES", "FOUND", "PERSISTED", "TOOK")
	for _, r := range runs {
		took := (time.Duration(r.DurationMs) * time.Millisecond).Round(100 * time.Millisecond)
		line := fmt.Sprintf("%-19s  %-36s  %-6s  %7d  %6d  %9d  %8s",
			r.Timestamp.Local().Format("2006-01-02 15:04:05"), r.BriefID, r.Source,
			r.Queries, r.Discovered, r.Persisted, took)
		if r.Error != "" {
			_, _ = color.New(color.FgRed).Fprintf(w, "%s  %s\n", line, r.Error)
			continue
		}
		_, _ = fmt.Fprintln(w, line)
	}
	return nil
}
