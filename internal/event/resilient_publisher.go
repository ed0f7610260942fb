package event

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"github.com/osse101/ssbwatch/internal/logger"
)

type retryEntry struct {
	event     Event
	attempt   int
	nextRetry time.Time
	lastErr   error
}

// ResilientPublisher wraps a Bus with a retry queue and a dead-letter file.
// Publish never fails from the caller's point of view.
type ResilientPublisher struct {
	bus        Bus
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter

	retryQueue chan retryEntry
	shutdown   chan struct{}
	once       sync.Once
	wg         sync.WaitGroup
}

// NewResilientPublisher creates a publisher and starts its retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		bus:        bus,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()

	return p, nil
}

// Publish satisfies Bus. Failures are retried in the background.
func (p *ResilientPublisher) Publish(ctx context.Context, event Event) error {
	p.PublishWithRetry(ctx, event)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

// PublishWithRetry publishes once and queues the event for retry on failure
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, event Event) {
	err := p.bus.Publish(ctx, event)
	if err == nil {
		return
	}

	select {
	case <-p.shutdown:
		logger.Warn(LogMsgEventDroppedShutdown, "event_type", event.Type, "error", err)
		p.writeDeadLetter(event, 1, err)
		return
	default:
	}

	logger.Warn(LogMsgEventPublishFailed, "event_type", event.Type, "error", err)

	entry := retryEntry{
		event:     event,
		attempt:   1,
		nextRetry: time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
		lastErr:   err,
	}
	select {
	case p.retryQueue <- entry:
	default:
		logger.Error(LogMsgRetryQueueFull, "event_type", event.Type)
		p.writeDeadLetter(event, 1, err)
	}
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case entry := <-p.retryQueue:
			if !p.waitUntil(entry.nextRetry) {
				p.publishFinal(entry)
				p.drain()
				return
			}
			p.retry(entry)
		case <-p.shutdown:
			p.drain()
			return
		}
	}
}

// waitUntil returns false if shutdown started before the deadline
func (p *ResilientPublisher) waitUntil(deadline time.Time) bool {
	d := time.Until(deadline)
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-p.shutdown:
		return false
	}
}

func (p *ResilientPublisher) retry(entry retryEntry) {
	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempt)
		return
	}

	entry.lastErr = err
	if entry.attempt >= p.maxRetries {
		logger.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempt)
		p.writeDeadLetter(entry.event, entry.attempt+1, err)
		return
	}

	entry.attempt++
	entry.nextRetry = time.Now().Add(CalculateRetryDelay(p.retryDelay, entry.attempt))
	logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempt, "error", err)

	select {
	case p.retryQueue <- entry:
	default:
		logger.Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		p.writeDeadLetter(entry.event, entry.attempt, err)
	}
}

// publishFinal makes one last attempt and dead-letters on failure
func (p *ResilientPublisher) publishFinal(entry retryEntry) {
	if err := p.bus.Publish(context.Background(), entry.event); err != nil {
		p.writeDeadLetter(entry.event, entry.attempt+1, err)
	}
}

func (p *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			p.publishFinal(entry)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(event Event, attempts int, err error) {
	if p.deadLetter == nil {
		return
	}
	if werr := p.deadLetter.Write(event, attempts, err); werr != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", event.Type, "error", werr)
	}
}

// Shutdown stops the retry worker after draining the queue
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.once.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return errors.Join(ctx.Err(), p.closeDeadLetter())
	}
	return p.closeDeadLetter()
}

func (p *ResilientPublisher) closeDeadLetter() error {
	if p.deadLetter == nil {
		return nil
	}
	err := p.deadLetter.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
