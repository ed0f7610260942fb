package channel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/metrics"
	"github.com/osse101/ssbwatch/internal/telemetry"
)

// Service produces channel statuses for handles. It never fails.
type Service interface {
	Status(ctx context.Context, handle string) domain.ChannelStatus
	Statuses(ctx context.Context, handles ...string) []domain.ChannelStatus
	// Clips passes the upstream clip listing through, or an empty listing on any failure
	Clips(ctx context.Context, handle string) map[string]any
}

// Config controls the retry policy
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	Versions       []string
}

// DefaultConfig returns 3 attempts starting at 500ms over v2 then v1
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    DefaultMaxAttempts,
		InitialBackoff: DefaultInitialBackoff,
		Versions:       DefaultAPIVersions,
	}
}

type service struct {
	fetcher Fetcher
	cfg     Config
	now     func() time.Time
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewService creates the status poller on top of a Fetcher
func NewService(fetcher Fetcher, cfg Config) Service {
	return newService(fetcher, cfg)
}

func newService(fetcher Fetcher, cfg Config) *service {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultInitialBackoff
	}
	if len(cfg.Versions) == 0 {
		cfg.Versions = DefaultAPIVersions
	}
	return &service{
		fetcher: fetcher,
		cfg:     cfg,
		now:     time.Now,
		sleep:   sleepCtx,
	}
}

// Backoff returns the wait after the given failed attempt (1-based): base * 2^(attempt-1)
func Backoff(base time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return base * time.Duration(1<<(attempt-1))
}

// Status fetches and normalizes one channel. Every failure degrades to the
// offline fallback, which callers cannot tell apart from a real offline broadcast.
func (s *service) Status(ctx context.Context, handle string) domain.ChannelStatus {
	handle = domain.NormalizeHandle(handle)
	if handle == "" {
		return domain.OfflineStatus(handle, s.now())
	}

	ctx, span := telemetry.StartSpan(ctx, "channel.status", attribute.String("handle", handle))
	defer span.End()

	log := logger.FromContext(ctx)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		raw, err := s.fetchAttempt(ctx, handle)
		if err == nil {
			status := Normalize(raw, handle)
			status.FetchedAt = s.now()
			recordResult(status)
			span.SetAttributes(attribute.Bool("live", status.IsLive), attribute.Int("attempts", attempt))
			telemetry.SetSpanSuccess(span)
			return status
		}
		lastErr = err

		if attempt == s.cfg.MaxAttempts {
			break
		}
		wait := Backoff(s.cfg.InitialBackoff, attempt)
		log.Debug(LogMsgRetrying, "handle", handle, "attempt", attempt, "backoff", wait, "error", err)
		if err := s.sleep(ctx, wait); err != nil {
			log.Debug(LogMsgFetchCancelled, "handle", handle, "error", err)
			break
		}
	}

	log.Warn(LogMsgFallback, "handle", handle, "attempts", s.cfg.MaxAttempts, "error", lastErr)
	telemetry.RecordError(span, lastErr)
	status := domain.OfflineStatus(handle, s.now())
	recordResult(status)
	return status
}

// fetchAttempt tries each endpoint version once
func (s *service) fetchAttempt(ctx context.Context, handle string) (map[string]any, error) {
	var errs []error
	for _, version := range s.cfg.Versions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := s.fetcher.Fetch(ctx, version, handle)
		if err == nil && !HasUser(raw) {
			err = fmt.Errorf("%w: missing user object", ErrMalformedBody)
		}
		metrics.ChannelFetchAttempts.WithLabelValues(version, outcomeLabel(err)).Inc()
		if err == nil {
			return raw, nil
		}
		logger.FromContext(ctx).Debug(LogMsgFetchFailed, "handle", handle, "version", version, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", version, err))
	}
	return nil, errors.Join(errs...)
}

// Statuses fetches several handles concurrently and keeps input order
func (s *service) Statuses(ctx context.Context, handles ...string) []domain.ChannelStatus {
	out := make([]domain.ChannelStatus, len(handles))

	// Status degrades instead of failing, so the group never cancels early
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(MaxConcurrentFetches)
	for i, h := range handles {
		g.Go(func() error {
			out[i] = s.Status(gctx, h)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// EmptyClips is the listing served when upstream clips cannot be read
func EmptyClips() map[string]any {
	return map[string]any{ClipsKey: []any{}}
}

func (s *service) Clips(ctx context.Context, handle string) map[string]any {
	handle = domain.NormalizeHandle(handle)
	if handle == "" {
		return EmptyClips()
	}

	ctx, span := telemetry.StartSpan(ctx, "channel.clips", attribute.String("handle", handle))
	defer span.End()

	raw, err := s.fetcher.FetchClips(ctx, handle)
	metrics.ChannelFetchAttempts.WithLabelValues(ClipsMetricVersion, outcomeLabel(err)).Inc()
	if err != nil {
		logger.FromContext(ctx).Warn(LogMsgClipsFallback, "handle", handle, "error", err)
		telemetry.RecordError(span, err)
		return EmptyClips()
	}
	telemetry.SetSpanSuccess(span)
	return raw
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, ErrUpstreamStatus):
		return OutcomeHTTPError
	case errors.Is(err, ErrMalformedBody):
		return OutcomeMalformed
	default:
		return OutcomeTransport
	}
}

func recordResult(status domain.ChannelStatus) {
	switch {
	case status.Degraded:
		metrics.ChannelStatusResults.WithLabelValues(ResultDegraded).Inc()
	case status.IsLive:
		metrics.ChannelStatusResults.WithLabelValues(ResultLive).Inc()
	default:
		metrics.ChannelStatusResults.WithLabelValues(ResultOffline).Inc()
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
