package economy

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/metrics"
	"github.com/osse101/ssbwatch/internal/repository"
	"github.com/osse101/ssbwatch/internal/telemetry"
)

// Service defines the interface for reward ledger operations
type Service interface {
	// Credit applies delta atomically and returns the balance read back afterwards
	Credit(ctx context.Context, userID string, delta int64, reason string) (int64, error)
	Balance(ctx context.Context, userID string) (int64, error)
}

type service struct {
	repo repository.Ledger
	bus  event.Bus
	now  func() time.Time
}

// NewService creates a new ledger service. bus may be nil.
func NewService(repo repository.Ledger, bus event.Bus) Service {
	return &service{
		repo: repo,
		bus:  bus,
		now:  time.Now,
	}
}

func (s *service) Credit(ctx context.Context, userID string, delta int64, reason string) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "ledger.credit",
		attribute.String("user_id", userID),
		attribute.Int64("delta", delta),
		attribute.String("reason", reason),
	)
	defer span.End()

	balance, err := s.credit(ctx, userID, delta, reason)
	if err != nil {
		telemetry.RecordError(span, err)
		return 0, err
	}
	telemetry.SetSpanSuccess(span)
	return balance, nil
}

func (s *service) credit(ctx context.Context, userID string, delta int64, reason string) (int64, error) {
	log := logger.FromContext(ctx)

	if delta == 0 {
		return 0, fmt.Errorf("%w: delta must not be zero", domain.ErrInvalidInput)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgGetUserFailed, err)
	}
	if user.IsBanned(s.now()) {
		log.Warn(LogMsgCreditRejectedBanned, "user_id", userID, "banned_until", user.BannedUntil)
		return 0, fmt.Errorf("%w: until %s", domain.ErrUserBanned, user.BannedUntil.Format(time.RFC3339))
	}

	if err := s.repo.IncrementBalance(ctx, userID, delta); err != nil {
		return 0, fmt.Errorf(ErrMsgIncrementBalanceFailed, err)
	}

	// Fresh read so concurrent grants from other sessions are reflected
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgReadBalanceFailed, err)
	}

	if delta > 0 {
		metrics.CoinsCredited.WithLabelValues(reason).Add(float64(delta))
	}
	log.Info(LogMsgCreditApplied, "user_id", userID, "delta", delta, "reason", reason, "balance", balance)

	if s.bus != nil {
		if err := s.bus.Publish(ctx, event.NewLedgerCreditedEvent(userID, delta, balance, reason)); err != nil {
			log.Warn(LogMsgPublishFailed, "error", err)
		}
	}
	return balance, nil
}

func (s *service) Balance(ctx context.Context, userID string) (int64, error) {
	balance, err := s.repo.GetBalance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf(ErrMsgReadBalanceFailed, err)
	}
	return balance, nil
}
