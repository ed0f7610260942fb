package bootstrap

import (
	"log/slog"

	"github.com/osse101/ssbwatch/internal/config"
	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/scheduler"
	"github.com/osse101/ssbwatch/internal/statuscache"
	"github.com/osse101/ssbwatch/internal/worker"
)

// TaskDependencies are the services the background tasks drive
type TaskDependencies struct {
	Source    worker.StatusSource
	Settler   worker.Settler
	Snapshots statuscache.Store
	Bus       event.Bus
}

// StartBackgroundTasks starts the worker pool and schedules the featured
// channel poll and the settlement sweep. Both run once immediately.
func StartBackgroundTasks(cfg *config.Config, deps TaskDependencies) (*worker.Pool, *scheduler.Scheduler) {
	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerCount*WorkerQueueMultiplier)
	pool.Start()

	sched := scheduler.New(pool)

	if len(cfg.FeaturedHandles) > 0 {
		poll := worker.NewStatusPollJob(cfg.FeaturedHandles, deps.Source, deps.Snapshots, deps.Bus)
		sched.Schedule(worker.TaskStatusPoll, cfg.StatusPollInterval, poll, scheduler.WithImmediate())
	} else {
		slog.Info(LogMsgNoFeatured)
	}

	sweep := worker.NewSettlementSweepJob(deps.Settler, deps.Source, deps.Snapshots)
	sched.Schedule(worker.TaskSettlementSweep, cfg.SettlementPollInterval, sweep, scheduler.WithImmediate())

	slog.Info(LogMsgTasksScheduled,
		"workers", cfg.WorkerCount,
		"status_poll_interval", cfg.StatusPollInterval,
		"settlement_interval", cfg.SettlementPollInterval)

	return pool, sched
}
