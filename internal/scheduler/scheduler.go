package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/metrics"
	"github.com/osse101/ssbwatch/internal/worker"
)

// Run outcomes, used as the outcome label of the scheduled-runs metric
const (
	OutcomeSuccess   = "success"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
	OutcomeSkipped   = "skipped"
)

const (
	LogMsgTaskScheduled = "Scheduled task registered"
	LogMsgTaskSkipped   = "Previous run still in flight, skipping tick"
	LogMsgTaskFailed    = "Scheduled task failed"
	LogMsgTaskSubmitErr = "Failed to submit scheduled task"
	LogMsgTaskCancelled = "Scheduled task cancelled"
)

// Scheduler runs jobs on fixed intervals through a worker pool
type Scheduler struct {
	workerPool *worker.Pool
	clock      Clock
	ctx        context.Context
	cancel     context.CancelFunc

	mu    sync.Mutex
	tasks map[string]*Task
	wg    sync.WaitGroup
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithClock replaces the real clock
func WithClock(c Clock) SchedulerOption {
	return func(s *Scheduler) { s.clock = c }
}

// New creates a new scheduler
func New(pool *worker.Pool, opts ...SchedulerOption) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		workerPool: pool,
		clock:      RealClock,
		ctx:        ctx,
		cancel:     cancel,
		tasks:      make(map[string]*Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TaskOption configures a single scheduled task
type TaskOption func(*taskConfig)

type taskConfig struct {
	immediate bool
}

// WithImmediate runs the job once right away instead of waiting a full interval
func WithImmediate() TaskOption {
	return func(c *taskConfig) { c.immediate = true }
}

// Task is the cancellation handle of one scheduled job
type Task struct {
	ID       string
	Name     string
	Interval time.Duration

	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
	inFlight atomic.Bool
	runs     atomic.Int64
}

// Cancel stops future runs and cancels the context of a run in progress
func (t *Task) Cancel() { t.cancel() }

// Done is closed once the task's loop has exited
func (t *Task) Done() <-chan struct{} { return t.done }

// Runs reports how many runs have finished
func (t *Task) Runs() int64 { return t.runs.Load() }

// Schedule registers a job to run at a fixed interval. A second Schedule
// with the same name cancels the first.
func (s *Scheduler) Schedule(name string, interval time.Duration, job worker.Job, opts ...TaskOption) *Task {
	var cfg taskConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	ctx, cancel := context.WithCancel(s.ctx)
	task := &Task{
		ID:       uuid.NewString(),
		Name:     name,
		Interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	if prev, ok := s.tasks[name]; ok {
		prev.Cancel()
	}
	s.tasks[name] = task
	s.mu.Unlock()

	ticker := s.clock.NewTicker(interval)
	logger.FromContext(ctx).Info(LogMsgTaskScheduled, "task", name, "task_id", task.ID, "interval", interval)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(task.done)
		defer ticker.Stop()

		if cfg.immediate {
			s.dispatch(task, job)
		}
		for {
			select {
			case <-ticker.C():
				s.dispatch(task, job)
			case <-ctx.Done():
				logger.FromContext(ctx).Debug(LogMsgTaskCancelled, "task", name)
				return
			}
		}
	}()

	return task
}

// dispatch hands one run to the pool, unless the previous one is still going
func (s *Scheduler) dispatch(task *Task, job worker.Job) {
	log := logger.FromContext(task.ctx)
	if !task.inFlight.CompareAndSwap(false, true) {
		metrics.ScheduledRuns.WithLabelValues(task.Name, OutcomeSkipped).Inc()
		log.Debug(LogMsgTaskSkipped, "task", task.Name)
		return
	}

	run := worker.JobFunc(func(ctx context.Context) error {
		defer task.runs.Add(1)
		defer task.inFlight.Store(false)

		err := job.Process(ctx)
		outcome := OutcomeSuccess
		switch {
		case ctx.Err() != nil || errors.Is(err, context.Canceled):
			outcome = OutcomeCancelled
		case err != nil:
			outcome = OutcomeError
			log.Error(LogMsgTaskFailed, "task", task.Name, "error", err)
		}
		metrics.ScheduledRuns.WithLabelValues(task.Name, outcome).Inc()
		return nil
	})

	if err := s.workerPool.Submit(task.ctx, run); err != nil {
		task.inFlight.Store(false)
		if task.ctx.Err() == nil {
			log.Warn(LogMsgTaskSubmitErr, "task", task.Name, "error", err)
		}
	}
}

// Task returns the registered task with the given name
func (s *Scheduler) Task(name string) (*Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[name]
	return t, ok
}

// Stop cancels every task and waits for their loops to exit. Runs already
// handed to the pool see a cancelled context; stop the pool afterwards to
// wait for them.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}
