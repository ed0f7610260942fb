package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/scheduler"
	"github.com/osse101/ssbwatch/internal/server"
	"github.com/osse101/ssbwatch/internal/sse"
	"github.com/osse101/ssbwatch/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Any field may be nil.
type ShutdownComponents struct {
	Server             *server.Server
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	Hub                *sse.Hub
	ResilientPublisher *event.ResilientPublisher
	// Closers run last, in order (snapshot store, discord session, db pool)
	Closers []io.Closer
}

// GracefulShutdown stops the components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (finish in-flight polls and sweeps)
// 3. SSE hub (close open streams)
// 4. Event publisher (flush pending retries)
// 5. Remaining closers
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}

	if c.Hub != nil {
		c.Hub.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	for _, closer := range c.Closers {
		if closer == nil {
			continue
		}
		if err := closer.Close(); err != nil {
			slog.Error(LogMsgCloseFailed, "error", err)
		}
	}

	slog.Info(LogMsgServerStopped)
}
