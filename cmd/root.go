package cmd

import (
	"github.com/spf13/cobra"
)

// New creates the root command with all subcommands registered.
func New() *cobra.Command {
	opts := NewOptions()

	rootCmd := &cobra.Command{
		Use:   "sonar",
		Short: "Developer discovery pipeline for recruiting briefs",
		Long: `Sonar finds public developer profiles that match a recruiting brief.
It plans web queries from the brief, enriches each discovered profile
with GitHub activity, scores it with transparent heuristics and stores
the best new matches against the brief.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().CountVarP(&opts.Verbosity, "verbose", "v", "Increase verbosity (-v info, -vv debug, -vvv trace)")

	// Register subcommands
	rootCmd.AddCommand(NewCmdServe(opts))
	rootCmd.AddCommand(NewCmdSearch(opts))
	rootCmd.AddCommand(NewCmdResults(opts))
	rootCmd.AddCommand(NewCmdBrief(opts))
	rootCmd.AddCommand(NewCmdHistory(opts))
	rootCmd.AddCommand(NewCmdMigrate(opts))
	rootCmd.AddCommand(NewCmdConfig())
	rootCmd.AddCommand(NewCmdCache())
	rootCmd.AddCommand(NewCmdRateLimit())
	rootCmd.AddCommand(NewCmdVersion())

	return rootCmd
}
