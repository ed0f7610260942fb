package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/ssbwatch/internal/bootstrap"
	"github.com/osse101/ssbwatch/internal/channel"
	"github.com/osse101/ssbwatch/internal/database"
	"github.com/osse101/ssbwatch/internal/discord"
	"github.com/osse101/ssbwatch/internal/economy"
	"github.com/osse101/ssbwatch/internal/prediction"
	"github.com/osse101/ssbwatch/internal/server"
	"github.com/osse101/ssbwatch/internal/session"
	"github.com/osse101/ssbwatch/internal/sse"
	"github.com/osse101/ssbwatch/internal/telemetry"
	"github.com/osse101/ssbwatch/internal/user"
)

const (
	shutdownTimeout = 30 * time.Second
	startupTimeout  = 30 * time.Second
	hintStoreSize   = 10000
	hintStoreTTL    = 24 * time.Hour
)

// closerFunc adapts Close() without an error result
type closerFunc func()

func (f closerFunc) Close() error {
	f()
	return nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and background pollers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serveRun(cmd.Context())
		},
	}
}

func serveRun(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, closeLog, err := setup()
	if err != nil {
		return err
	}
	defer closeLog()

	shutdownTracing, err := telemetry.InitTracing(cfg.OTLPEndpoint, programName, cfg.Version)
	if err != nil {
		return err
	}
	defer shutdownTracing()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	if cfg.MigrateOnStart {
		if err := database.Migrate(startCtx, cfg.GetDBConnString()); err != nil {
			return err
		}
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxConnIdleTime, cfg.DBMaxConnLifetime)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	snapshots, snapshotCloser, err := bootstrap.InitializeSnapshotStore(startCtx, cfg)
	if err != nil {
		dbPool.Close()
		return err
	}

	bus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		dbPool.Close()
		return err
	}

	var notifier *discord.Notifier
	var discordCloser io.Closer
	if cfg.DiscordBotToken != "" && cfg.DiscordNotifyChannelID != "" {
		dg, err := discord.NewSession(cfg.DiscordBotToken)
		if err != nil {
			slog.Warn("Discord disabled", "error", err)
		} else {
			notifier = discord.NewNotifier(dg, cfg.DiscordNotifyChannelID)
			discordCloser = dg
		}
	}

	hub := sse.NewHub()
	hub.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus: bus,
		Hub:      hub,
		Notifier: notifier,
	}); err != nil {
		dbPool.Close()
		return err
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	poller := channel.NewService(
		channel.NewClient(cfg.KickAPIBaseURL, cfg.KickHTTPTimeout),
		channel.Config{MaxAttempts: cfg.KickMaxAttempts, InitialBackoff: cfg.KickInitialBackoff},
	)
	users := user.NewService(repos.User, user.DefaultCacheConfig())
	ledger := economy.NewService(repos.Ledger, publisher)
	predictions := prediction.NewService(
		repos.Contest,
		repos.Prediction,
		poller,
		ledger,
		users,
		publisher,
		prediction.Config{
			WinBonus:           cfg.WinBonus,
			ParticipationBonus: cfg.ParticipationBonus,
			PredictionDuration: cfg.PredictionDuration,
		},
	)

	workerPool, sched := bootstrap.StartBackgroundTasks(cfg, bootstrap.TaskDependencies{
		Source:    poller,
		Settler:   predictions,
		Snapshots: snapshots,
		Bus:       publisher,
	})

	srv := server.NewServer(server.Config{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		AdminAPIKey:    cfg.AdminAPIKey,
		TrustedProxies: cfg.TrustedProxies,
		CORSOrigins:    cfg.CORSOrigins,
		SnapshotMaxAge: cfg.StatusPollInterval,
	}, server.Dependencies{
		DBPool:      dbPool,
		Channels:    poller,
		Snapshots:   snapshots,
		Predictions: predictions,
		Users:       users,
		Ledger:      ledger,
		Hints:       session.NewHintStore(hintStoreSize, hintStoreTTL),
		Hub:         hub,
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	var runErr error
	select {
	case <-stop:
	case err, ok := <-serverErr:
		if ok {
			runErr = fmt.Errorf("server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Scheduler:          sched,
		WorkerPool:         workerPool,
		Hub:                hub,
		ResilientPublisher: publisher,
		Closers:            []io.Closer{snapshotCloser, discordCloser, closerFunc(dbPool.Close)},
	})

	return runErr
}
