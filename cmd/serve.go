package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spiffcs/sonar/internal/log"
	"github.com/spiffcs/sonar/internal/server"
	"github.com/spiffcs/sonar/internal/store/postgres"
)

// NewCmdServe creates the serve command.
func NewCmdServe(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the authenticated HTTP trigger",
		Long: `Starts the HTTP server exposing POST /api/sonar/search.

Requests must carry an HS256 bearer token signed with SONAR_JWT_SECRET
whose subject is the brief owner. Briefs and results live in the
postgres database named by DATABASE_URL. When REDIS_URL is set the
per-caller rate limit is shared through Redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ListenAddr, "addr", "", "Listen address (overrides server.listen_addr)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 0, "Concurrent enrichment workers, 1-5 (default from config)")
	cmd.Flags().BoolVar(&opts.Migrate, "migrate", false, "Apply pending database migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, opts *Options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server logs request outcomes at info level.
	cfg, err := setup(max(opts.Verbosity, log.LevelInfo))
	if err != nil {
		return err
	}

	secret := cfg.GetJWTSecret()
	if secret == "" {
		return fmt.Errorf("JWT secret not provided. Set the SONAR_JWT_SECRET environment variable")
	}

	db, err := connectDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	if opts.Migrate {
		if err := postgres.Migrate(ctx, db, postgres.MigrateUp); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	limiter, shared, closeLimiter, err := newLimiter(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeLimiter()

	pipeline, err := buildPipeline(ctx, cfg, db, opts.Workers)
	if err != nil {
		return err
	}

	rl := cfg.GetRateLimit()
	srvOpts := []server.Option{
		server.WithRateLimit(rl.Limit, rl.Window),
		server.WithHealthCheck(db),
	}
	if shared != nil {
		srvOpts = append(srvOpts, server.WithHealthCheck(shared))
	}

	srv, err := server.New(newRecordingRunner(pipeline, "server"), limiter, []byte(secret), srvOpts...)
	if err != nil {
		return err
	}

	sc := cfg.GetServer()
	addr := opts.ListenAddr
	if addr == "" {
		addr = sc.ListenAddr
	}
	log.Info("trigger rate limit", "limit", rl.Limit, "window", rl.Window, "shared", shared != nil)
	return srv.ListenAndServe(ctx, addr, sc.ShutdownTimeout)
}
