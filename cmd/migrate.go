package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/internal/store/postgres"
)

// NewCmdMigrate creates the migrate command.
func NewCmdMigrate(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Manage the database schema",
		Long:      `Applies, rolls back or reports the embedded migrations against DATABASE_URL. Defaults to up.`,
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := postgres.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			cfg, err := setup(opts.Verbosity)
			if err != nil {
				return err
			}
			db, err := connectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.Migrate(cmd.Context(), db, command); err != nil {
				return fmt.Errorf("migrate %s: %w", command, err)
			}
			if command != postgres.MigrateStatus {
				fmt.Printf("Migrations %s complete.\n", command)
			}
			return nil
		},
	}
}
