package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"marketplace-engine/internal/adapters/db"
	"marketplace-engine/internal/adapters/httpapi"
	"marketplace-engine/internal/adapters/identity"
	"marketplace-engine/internal/adapters/scheduler"
	"marketplace-engine/internal/adapters/ws"
	"marketplace-engine/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	migrate bool
	noSweep bool
}

func newServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, the live feed and the background workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "apply database migrations before serving")
	cmd.Flags().BoolVar(&opts.noSweep, "no-sweep", false, "do not run the lifecycle sweeper in this process")

	return cmd
}

func runServe(parent context.Context, opts *serveOptions) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log.Info().Msg("Starting marketplace service...")

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	if opts.migrate && cfg.Database.UsesPostgres() {
		if err := applyMigrations(ctx, cfg, false); err != nil {
			return err
		}
	}

	e, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.close()

	var sweeper *scheduler.Sweeper
	if !opts.noSweep {
		sweeper = scheduler.NewSweeper(scheduler.SweeperParams{
			Sweeps:   e.sweeps,
			Interval: cfg.Scheduler.SweepInterval,
			Logger:   log.Logger,
		})
		sweeper.Start()
		log.Info().Dur("interval", cfg.Scheduler.SweepInterval).Msg("Lifecycle sweeper started")
	}

	dispatcher := newDispatcher(cfg, e)
	dispatcher.Start()
	log.Info().Str("sink", cfg.Notifications.Sink).Msg("Notification dispatcher started")

	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	routerParams := httpapi.RouterParams{
		AuctionService:   e.auctions,
		FlashDealService: e.deals,
		PaymentService:   e.payments,
		UserService:      e.users,
		Identity: identity.NewJWTProvider(identity.JWTProviderParams{
			Secret: cfg.Auth.JWTSecret,
			Issuer: cfg.Auth.JWTIssuer,
		}),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         log.Logger,
	}
	if e.broadcaster != nil {
		routerParams.LiveFeed = ws.NewHandler(ws.WsHandlerParams{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			UserService:     e.users,
			Broadcaster:     e.broadcaster,
			Logger:          log.Logger,
		})
		log.Info().Msg("WebSocket live feed enabled")
	}

	server := httpapi.NewServer(httpapi.ServerParams{
		Host:    cfg.Server.Host,
		Port:    cfg.Server.Port,
		Handler: httpapi.NewRouter(routerParams),
		Logger:  log.Logger,
	})

	// Start HTTP server
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.Start(); err != nil {
			log.Error().Err(err).Msg("Failed to start HTTP server")
			cancel()
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled")
	}

	// Graceful shutdown
	log.Info().Msg("Starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Stop HTTP server first so no new work arrives
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping HTTP server")
	}

	if sweeper != nil {
		sweeper.Stop()
		log.Info().Msg("Lifecycle sweeper stopped")
	}

	dispatcher.Stop()
	log.Info().Msg("Notification dispatcher stopped")

	log.Info().Msg("Graceful shutdown completed")
	return nil
}

func applyMigrations(ctx context.Context, cfg *config.Config, down bool) error {
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	migrator, err := db.NewMigrator(conn, log.Logger)
	if err != nil {
		conn.Close()
		return err
	}
	defer func() {
		if err := migrator.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing migrator")
		}
	}()

	if down {
		return migrator.Down()
	}
	return migrator.Up()
}
