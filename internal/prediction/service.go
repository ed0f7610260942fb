package prediction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/ssbwatch/internal/concurrency"
	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/economy"
	"github.com/osse101/ssbwatch/internal/event"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/metrics"
	"github.com/osse101/ssbwatch/internal/repository"
)

// Service defines the interface for head-to-head contest operations
type Service interface {
	CastVote(ctx context.Context, userID string, req domain.VoteRequest) (*domain.VoteResult, error)
	// EvaluateWager polls both sides of the user's contest and settles the wager if decided
	EvaluateWager(ctx context.Context, userID, contestID string) (*domain.SettlementResult, error)
	// SettleContest settles every pending wager of a contest from one observation
	SettleContest(ctx context.Context, contest domain.Contest, statusA, statusB domain.ChannelStatus) ([]domain.SettlementResult, error)
	GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error)
	GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error)
	StartPrediction(ctx context.Context, req domain.StartPredictionRequest) (*domain.ActivePrediction, error)
	GetActivePrediction(ctx context.Context) (*domain.ActivePrediction, error)
	ListPendingContests(ctx context.Context) ([]domain.Contest, error)
}

// StatusSource polls several handles at once, keeping input order
type StatusSource interface {
	Statuses(ctx context.Context, handles ...string) []domain.ChannelStatus
}

// Ledger credits coins
type Ledger interface {
	Credit(ctx context.Context, userID string, delta int64, reason string) (int64, error)
}

// Authorizer resolves the acting user from a fresh read
type Authorizer interface {
	Authorize(ctx context.Context, userID string) (*domain.User, error)
}

// Config holds the reward amounts and the featured prediction duration
type Config struct {
	WinBonus           int64
	ParticipationBonus int64
	PredictionDuration time.Duration
}

// DefaultConfig returns the stock rewards
func DefaultConfig() Config {
	return Config{
		WinBonus:           DefaultWinBonus,
		ParticipationBonus: DefaultParticipationBonus,
		PredictionDuration: domain.DefaultPredictionDuration,
	}
}

type service struct {
	contests    repository.Contest
	predictions repository.Prediction
	statuses    StatusSource
	ledger      Ledger
	users       Authorizer
	bus         event.Bus
	locks       *concurrency.LockManager
	cfg         Config
	now         func() time.Time
}

// NewService creates a new prediction service. bus may be nil.
func NewService(
	contests repository.Contest,
	predictions repository.Prediction,
	statuses StatusSource,
	ledger Ledger,
	users Authorizer,
	bus event.Bus,
	cfg Config,
) Service {
	if cfg.PredictionDuration <= 0 {
		cfg.PredictionDuration = domain.DefaultPredictionDuration
	}
	return &service{
		contests:    contests,
		predictions: predictions,
		statuses:    statuses,
		ledger:      ledger,
		users:       users,
		bus:         bus,
		locks:       concurrency.NewLockManager(),
		cfg:         cfg,
		now:         time.Now,
	}
}

func (s *service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", evt.Type, "error", err)
	}
}

func (s *service) CastVote(ctx context.Context, userID string, req domain.VoteRequest) (*domain.VoteResult, error) {
	log := logger.FromContext(ctx)

	contest, err := domain.NewContest(req.HandleA, req.HandleB)
	if err != nil {
		return nil, err
	}
	chosen := domain.NormalizeHandle(req.ChosenHandle)
	if !contest.Has(chosen) {
		return nil, fmt.Errorf("%w: %q not in %s", domain.ErrInvalidChoice, req.ChosenHandle, contest.ID)
	}

	if _, err := s.users.Authorize(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.contests.BeginContestTx(ctx)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBeginTxFailed, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if err := tx.EnsureTally(ctx, contest); err != nil {
		return nil, err
	}

	wager := &domain.Wager{UserID: userID, ContestID: contest.ID, ChosenHandle: chosen}
	created, err := tx.InsertWager(ctx, wager)
	if err != nil {
		return nil, err
	}
	if created {
		if err := tx.IncrementTally(ctx, contest, chosen); err != nil {
			return nil, err
		}
	} else {
		// The stored wager wins over whatever this request asked for
		if wager, err = tx.GetWager(ctx, userID, contest.ID); err != nil {
			return nil, err
		}
	}

	tally, err := tx.GetTally(ctx, contest.ID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf(ErrMsgCommitFailed, err)
	}

	result := &domain.VoteResult{Wager: *wager, Tally: *tally, Created: created}
	if !created {
		log.Info(LogMsgRepeatVote, "user_id", userID, "contest_id", contest.ID)
		return result, nil
	}

	metrics.VotesCast.Inc()
	log.Info(LogMsgVoteCast, "user_id", userID, "contest_id", contest.ID, "chosen", chosen)

	if s.cfg.ParticipationBonus > 0 {
		if _, err := s.ledger.Credit(ctx, userID, s.cfg.ParticipationBonus, economy.ReasonParticipation); err != nil {
			log.Warn(LogMsgParticipationBonusFail, "user_id", userID, "error", err)
		}
	}
	s.publish(ctx, event.NewWagerPlacedEvent(result.Wager, result.Tally))
	return result, nil
}

func (s *service) EvaluateWager(ctx context.Context, userID, contestID string) (*domain.SettlementResult, error) {
	contest, err := domain.ParseContestID(contestID)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.Authorize(ctx, userID); err != nil {
		return nil, err
	}

	wager, err := s.contests.GetWager(ctx, userID, contest.ID)
	if err != nil {
		return nil, err
	}
	if wager.State.IsTerminal() {
		return &domain.SettlementResult{Wager: *wager}, nil
	}

	opponent := contest.Opponent(wager.ChosenHandle)
	observed := s.statuses.Statuses(ctx, wager.ChosenHandle, opponent)
	if err := ctx.Err(); err != nil {
		logger.FromContext(ctx).Debug(LogMsgSettlementCancelled, "contest_id", contest.ID)
		return nil, err
	}

	result, err := s.settleWager(ctx, *wager, observed[0], observed[1])
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *service) SettleContest(ctx context.Context, contest domain.Contest, statusA, statusB domain.ChannelStatus) ([]domain.SettlementResult, error) {
	wagers, err := s.contests.ListPendingWagers(ctx, contest.ID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgListWagersFailed, err)
	}

	results := make([]domain.SettlementResult, 0, len(wagers))
	for _, w := range wagers {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		// a banned or missing user's wager stays PENDING until they can be credited
		if _, err := s.users.Authorize(ctx, w.UserID); err != nil {
			logger.FromContext(ctx).Warn(LogMsgSettlementSkipped, "user_id", w.UserID, "contest_id", w.ContestID, "error", err)
			results = append(results, domain.SettlementResult{Wager: w})
			continue
		}

		chosen, opponent := statusA, statusB
		if w.ChosenHandle == contest.HandleB {
			chosen, opponent = statusB, statusA
		}
		r, err := s.settleWager(ctx, w, chosen, opponent)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// settleWager applies one decision. Only the caller whose conditional update
// moved the row credits the bonus.
func (s *service) settleWager(ctx context.Context, w domain.Wager, chosen, opponent domain.ChannelStatus) (domain.SettlementResult, error) {
	log := logger.FromContext(ctx)

	state := Decide(chosen, opponent)
	if state == domain.WagerPending {
		return domain.SettlementResult{Wager: w}, nil
	}

	unlock := s.locks.Lock(w.UserID + "|" + w.ContestID)
	defer unlock()

	at := s.now().UTC()
	rows, err := s.contests.TransitionWager(ctx, w.UserID, w.ContestID, state, at)
	if err != nil {
		return domain.SettlementResult{}, fmt.Errorf(ErrMsgTransitionFailed, err)
	}
	if rows == 0 {
		log.Debug(LogMsgSettlementLost, "user_id", w.UserID, "contest_id", w.ContestID)
		current, err := s.contests.GetWager(ctx, w.UserID, w.ContestID)
		if err != nil {
			return domain.SettlementResult{}, err
		}
		return domain.SettlementResult{Wager: *current}, nil
	}

	w.State = state
	w.SettledAt = &at
	metrics.WagersSettled.WithLabelValues(string(state)).Inc()
	log.Info(LogMsgWagerSettled,
		"user_id", w.UserID,
		"contest_id", w.ContestID,
		"state", state,
		"chosen_degraded", chosen.Degraded,
		"opponent_degraded", opponent.Degraded)

	var credited int64
	if state == domain.WagerWon && s.cfg.WinBonus > 0 {
		if _, err := s.ledger.Credit(ctx, w.UserID, s.cfg.WinBonus, economy.ReasonWinBonus); err != nil {
			log.Error(LogMsgWinBonusFailed, "user_id", w.UserID, "contest_id", w.ContestID, "error", err)
		} else {
			credited = s.cfg.WinBonus
		}
	}

	s.publish(ctx, event.NewWagerSettledEvent(w, credited))
	return domain.SettlementResult{Wager: w, Settled: true, Credited: credited}, nil
}

func (s *service) GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error) {
	contest, err := domain.ParseContestID(contestID)
	if err != nil {
		return nil, err
	}
	return s.contests.GetWager(ctx, userID, contest.ID)
}

// GetTally reports zero counts for a valid contest nobody has voted in yet
func (s *service) GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error) {
	contest, err := domain.ParseContestID(contestID)
	if err != nil {
		return nil, err
	}
	tally, err := s.contests.GetTally(ctx, contest.ID)
	if errors.Is(err, domain.ErrContestNotFound) {
		return &domain.TallyRecord{ContestID: contest.ID}, nil
	}
	return tally, err
}

func (s *service) StartPrediction(ctx context.Context, req domain.StartPredictionRequest) (*domain.ActivePrediction, error) {
	contest, err := domain.NewContest(req.HandleA, req.HandleB)
	if err != nil {
		return nil, err
	}

	duration := s.cfg.PredictionDuration
	if req.DurationMinutes > 0 {
		duration = time.Duration(req.DurationMinutes) * time.Minute
	}

	now := s.now().UTC()
	p := &domain.ActivePrediction{
		ContestID: contest.ID,
		HandleA:   contest.HandleA,
		HandleB:   contest.HandleB,
		StartedAt: now,
		ExpiresAt: now.Add(duration),
	}
	if err := s.predictions.ReplacePrediction(ctx, p); err != nil {
		return nil, fmt.Errorf(ErrMsgStorePredictionErr, err)
	}

	metrics.PredictionsStarted.Inc()
	logger.FromContext(ctx).Info(LogMsgPredictionStarted, "prediction_id", p.ID, "contest_id", p.ContestID, "expires_at", p.ExpiresAt)
	s.publish(ctx, event.NewPredictionStartedEvent(*p))
	return p, nil
}

// GetActivePrediction returns domain.ErrNoActivePrediction once the featured prediction expired
func (s *service) GetActivePrediction(ctx context.Context) (*domain.ActivePrediction, error) {
	p, err := s.predictions.GetActivePrediction(ctx)
	if err != nil {
		return nil, err
	}
	if !p.IsOpen(s.now()) {
		return nil, domain.ErrNoActivePrediction
	}
	return p, nil
}

func (s *service) ListPendingContests(ctx context.Context) ([]domain.Contest, error) {
	return s.contests.ListPendingContests(ctx)
}
