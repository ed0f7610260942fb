package worker

import (
	"context"
	"errors"
	"sync"

	"github.com/osse101/ssbwatch/internal/logger"
)

// Job represents a task to be executed by a worker
type Job interface {
	Process(ctx context.Context) error
}

// JobFunc adapts a function to Job
type JobFunc func(ctx context.Context) error

// Process calls f(ctx)
func (f JobFunc) Process(ctx context.Context) error { return f(ctx) }

type queued struct {
	ctx context.Context
	job Job
}

// Pool represents a worker pool. Each job runs with the context it was submitted with.
type Pool struct {
	workers  int
	jobQueue chan queued
	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
}

// NewPool creates a new worker pool
func NewPool(workers int, queueSize int) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		workers:  workers,
		jobQueue: make(chan queued, queueSize),
		quit:     make(chan struct{}),
	}
}

// Start starts the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// worker is the worker loop
func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case q := <-p.jobQueue:
			p.run(q)
		case <-p.quit:
			return
		}
	}
}

func (p *Pool) run(q queued) {
	log := logger.FromContext(q.ctx)
	if q.ctx.Err() != nil {
		log.Debug(LogMsgWorkerJobSkipped)
		return
	}
	if err := q.job.Process(q.ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Debug(LogMsgWorkerJobSkipped, "error", err)
			return
		}
		log.Error(LogMsgWorkerJobFailed, "error", err)
	}
}

// Submit queues job, blocking while the queue is full. It gives up when ctx
// is cancelled or the pool stops.
func (p *Pool) Submit(ctx context.Context, job Job) error {
	select {
	case <-p.quit:
		return ErrPoolStopped
	default:
	}

	select {
	case p.jobQueue <- queued{ctx: ctx, job: job}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.quit:
		return ErrPoolStopped
	}
}

// Enqueue submits job with a background context
func (p *Pool) Enqueue(job Job) {
	_ = p.Submit(context.Background(), job)
}

// Stop stops the workers and waits for in-flight jobs to finish.
// Jobs still queued are dropped.
func (p *Pool) Stop() {
	p.stopOnce.Do(func() { close(p.quit) })
	p.wg.Wait()
}
