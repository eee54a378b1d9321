package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/internal/model"
	"github.com/spiffcs/sonar/internal/store/postgres"
)

// briefCreator is the write side used by brief add.
type briefCreator interface {
	CreateBrief(ctx context.Context, b model.Brief) (*model.Brief, error)
}

var _ briefCreator = (*postgres.DB)(nil)

// NewCmdBrief creates the brief command with subcommands.
func NewCmdBrief(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brief",
		Short: "Manage stored briefs",
	}
	cmd.AddCommand(newCmdBriefAdd(opts))
	return cmd
}

func newCmdBriefAdd(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <brief.yaml>",
		Short: "Store a YAML brief in the database",
		Long: `Reads a brief in the same YAML shape accepted by 'sonar search --brief-file'
and stores it in DATABASE_URL for --owner. The new brief ID is printed
so it can be passed to 'sonar search --brief'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(opts.Verbosity)
			if err != nil {
				return err
			}
			db, err := connectDB(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			return runBriefAdd(cmd.Context(), db, args[0], opts.OwnerID, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&opts.OwnerID, "owner", "", "Owner ID the brief belongs to")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func runBriefAdd(ctx context.Context, db briefCreator, path, owner string, w io.Writer) error {
	b, err := loadBriefFile(path)
	if err != nil {
		return err
	}
	b.OwnerID = owner

	created, err := db.CreateBrief(ctx, b)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, created.ID)
	return err
}
