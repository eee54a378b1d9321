package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/internal/duration"
	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/output"
	"github.com/spiffcs/sonar/internal/store"
)

// NewCmdResults creates the results command.
func NewCmdResults(opts *Options) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "results <brief-id>",
		Short: "List results stored for a brief",
		Long: `Lists the candidates stored against a brief, highest score first.

Results can be narrowed by status (new, viewed, saved, contacted,
dismissed) and by age (e.g., 1d, 2w, 6mo).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(cmd, args[0], limit, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().StringVar(&opts.Status, "status", "", "Only show results with this status")
	cmd.Flags().StringVarP(&opts.Since, "since", "s", "", "Only show results stored within this span (e.g., 1w, 30d)")
	cmd.Flags().IntVarP(&limit, "limit", "l", 0, "Maximum number of results (0 = all)")
	return cmd
}

// resultFilter builds a store filter from the status and since flags.
func resultFilter(status, since string, now time.Time) (store.ResultFilter, error) {
	var f store.ResultFilter
	if status != "" {
		s := model.ResultStatus(status)
		if !s.Valid() {
			return f, fmt.Errorf("invalid status %q (must be new, viewed, saved, contacted or dismissed)", status)
		}
		f.Status = s
	}
	if since != "" {
		t, err := duration.Since(since, now)
		if err != nil {
			return f, err
		}
		f.Since = t
	}
	return f, nil
}

func runResults(cmd *cobra.Command, briefID string, limit int, opts *Options) error {
	ctx := cmd.Context()

	cfg, err := setup(opts.Verbosity)
	if err != nil {
		return err
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = cfg.DefaultFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	filter, err := resultFilter(opts.Status, opts.Since, time.Now())
	if err != nil {
		return err
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	results, err := db.ListResults(ctx, briefID, filter)
	if err != nil {
		return fmt.Errorf("failed to list results: %w", err)
	}
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return output.NewFormatter(format).FormatResults(results, os.Stdout)
}
