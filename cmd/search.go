package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/spiffcs/sonar/config"
	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/output"
	"github.com/spiffcs/sonar/internal/sonar"
	"github.com/spiffcs/sonar/internal/store/memory"
)

// localOwner owns briefs loaded from a file.
const localOwner = "local"

// NewCmdSearch creates the search command.
func NewCmdSearch(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Run the discovery pipeline for one brief",
		Long: `Runs the full pipeline for a brief and prints the newly stored candidates.

Use --brief and --owner to run a brief stored in the database named by
DATABASE_URL. Use --brief-file to run a YAML brief against a throwaway
in-memory store, which is handy for tuning scoring weights:

  description: Senior backend engineer for a payments platform
  required_skills: [go, postgres, kafka]
  preferred_location: Berlin
  project_type: fintech`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "output", "o", "", "Output format (table, json)")
	cmd.Flags().StringVarP(&opts.BriefID, "brief", "b", "", "ID of a stored brief")
	cmd.Flags().StringVar(&opts.OwnerID, "owner", "", "Owner of the stored brief")
	cmd.Flags().StringVarP(&opts.BriefFile, "brief-file", "f", "", "Path to a YAML brief")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Concurrent enrichment workers, 1-5 (default from config)")
	cmd.Flags().Var(newTUIFlag(opts), "tui", "Enable/disable TUI progress (default: auto-detect)")
	cmd.MarkFlagsMutuallyExclusive("brief", "brief-file")
	cmd.MarkFlagsOneRequired("brief", "brief-file")
	return cmd
}

func runSearch(cmd *cobra.Command, opts *Options) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

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

	rt := &searchRuntime{useTUI: shouldUseTUI(opts, format)}
	if rt.useTUI {
		// Suppress logs while the TUI owns the terminal.
		log.Initialize(opts.Verbosity, io.Discard)
	}

	var (
		runner           sonar.Runner
		briefID, ownerID string
		description      string
		cleanup          = func() {}
	)
	if opts.BriefFile != "" {
		var brief model.Brief
		runner, brief, err = fileRunner(ctx, cfg, opts, rt.options()...)
		briefID, ownerID, description = brief.ID, localOwner, brief.Description
	} else {
		if opts.OwnerID == "" {
			return fmt.Errorf("--owner is required with --brief")
		}
		runner, cleanup, err = databaseRunner(ctx, cfg, opts, rt.options()...)
		briefID, ownerID, description = opts.BriefID, opts.OwnerID, "brief "+opts.BriefID
	}
	if err != nil {
		return err
	}
	defer cleanup()

	rt.start(cancel)
	rt.brief(description)
	res, err := newRecordingRunner(runner, "cli").Run(ctx, briefID, ownerID)
	rt.close()
	if err != nil {
		return err
	}

	queries := make([]string, len(res.Queries))
	for i, q := range res.Queries {
		queries[i] = q.Text
	}
	summary := output.RunSummary{
		BriefID:          res.BriefID,
		Queries:          queries,
		SearchedProfiles: res.Summary.TotalIdentifiersExamined,
		Qualified:        res.Summary.Qualified,
		NewCandidates:    res.Summary.NewCandidatesPersisted,
		Duration:         res.Duration,
	}
	return output.NewFormatter(format).FormatCandidates(res.Summary.Persisted, summary, os.Stdout)
}

func databaseRunner(ctx context.Context, cfg *config.Config, opts *Options, extra ...sonar.Option) (sonar.Runner, func(), error) {
	db, err := connectDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	p, err := buildPipeline(ctx, cfg, db, opts.Workers, extra...)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return p, db.Close, nil
}

func fileRunner(ctx context.Context, cfg *config.Config, opts *Options, extra ...sonar.Option) (sonar.Runner, model.Brief, error) {
	brief, err := loadBriefFile(opts.BriefFile)
	if err != nil {
		return nil, model.Brief{}, err
	}
	st := memory.New()
	brief = st.PutBrief(brief)

	p, err := buildPipeline(ctx, cfg, st, opts.Workers, extra...)
	if err != nil {
		return nil, model.Brief{}, err
	}
	return p, brief, nil
}

// loadBriefFile reads a YAML brief. The brief is always active and owned
// by the local user.
func loadBriefFile(path string) (model.Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Brief{}, fmt.Errorf("failed to read brief: %w", err)
	}
	var b model.Brief
	if err := yaml.Unmarshal(data, &b); err != nil {
		return model.Brief{}, fmt.Errorf("failed to parse brief %s: %w", path, err)
	}
	if strings.TrimSpace(b.Description) == "" && len(b.RequiredSkills) == 0 {
		return model.Brief{}, fmt.Errorf("brief %s needs a description or required_skills", path)
	}
	b.OwnerID = localOwner
	b.IsActive = true
	return b, nil
}
