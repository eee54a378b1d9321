package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/internal/constants"
	"github.com/spiffcs/sonar/internal/ghclient"
)

// NewCmdRateLimit creates the ratelimit command.
func NewCmdRateLimit() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ratelimit",
		Short: "Check rate limit status",
		Long:  `Display the GitHub API quota used for profile enrichment and the configured trigger limit.`,
	}
	cmd.AddCommand(NewCmdRateLimitStatus())
	return cmd
}

// NewCmdRateLimitStatus creates the ratelimit status subcommand.
func NewCmdRateLimitStatus() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show current rate limit status",
		Long: `Display the current GitHub API quota for core and search APIs, and
the per-caller limit applied to the HTTP trigger.`,
		RunE: runRateLimitStatus,
	}
}

func runRateLimitStatus(cmd *cobra.Command, args []string) error {
	cfg, err := setup(0)
	if err != nil {
		return err
	}

	client, err := ghclient.NewClient(cmd.Context(), cfg.GetGitHubToken(), ghclient.WithBaseURL(cfg.GetGitHubBaseURL()))
	if err != nil {
		return err
	}

	limits, err := client.RateLimits(cmd.Context())
	if err != nil {
		return err
	}

	now := time.Now()
	fmt.Println("GitHub API Rate Limits:")
	fmt.Println()
	writeRate(os.Stdout, "Core API:  ", limits.Core, now)
	writeRate(os.Stdout, "Search API:", limits.Search, now)
	fmt.Println()
	writeEnrichmentStatus(os.Stdout, client.Quota(), now)

	rl := cfg.GetRateLimit()
	backend := "in-process"
	if cfg.GetRedisURL() != "" {
		backend = "redis"
	}
	fmt.Println()
	fmt.Printf("Trigger limit: %d runs per %s per caller (%s)\n", rl.Limit, rl.Window, backend)

	return nil
}

func writeRate(w io.Writer, label string, r *gh.Rate, now time.Time) {
	if r == nil {
		return
	}
	resetIn := max(r.Reset.Time.Sub(now).Round(time.Second), 0)
	_, _ = fmt.Fprintf(w, "%s %d/%d remaining (resets in %s)\n", label, r.Remaining, r.Limit, resetIn)
}

// writeEnrichmentStatus reports whether enrichment can proceed, based on the
// quota the client observed in its last response.
func writeEnrichmentStatus(w io.Writer, q ghclient.Quota, now time.Time) {
	switch {
	case q.Limit <= 0:
		_, _ = fmt.Fprintln(w, "Enrichment: quota unknown")
	case q.Limited:
		_, _ = fmt.Fprintf(w, "Enrichment: blocked, candidates are dropped until the quota resets in %s\n",
			max(q.ResetAt.Sub(now).Round(time.Second), 0))
	case q.Remaining < constants.RateLimitLowWatermark:
		_, _ = fmt.Fprintf(w, "Enrichment: quota low (%d left), expect dropped candidates\n", q.Remaining)
	default:
		_, _ = fmt.Fprintf(w, "Enrichment: ok (%d requests left)\n", q.Remaining)
	}
}
