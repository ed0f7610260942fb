package repository

import (
	"context"
	"time"

	"github.com/osse101/ssbwatch/internal/domain"
)

// Contest defines the interface for wager and tally persistence
type Contest interface {
	GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error)
	GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error)

	// TransitionWager moves a PENDING wager to a terminal state.
	// Returns the number of rows affected (0 if the wager was no longer pending).
	TransitionWager(ctx context.Context, userID, contestID string, to domain.WagerState, at time.Time) (int64, error)

	ListPendingContests(ctx context.Context) ([]domain.Contest, error)
	ListPendingWagers(ctx context.Context, contestID string) ([]domain.Wager, error)

	BeginContestTx(ctx context.Context) (ContestTx, error)
}

// ContestTx groups the writes of a first vote
type ContestTx interface {
	Tx // Commit, Rollback

	EnsureTally(ctx context.Context, contest domain.Contest) error
	// InsertWager returns false when the user already has a wager in the contest
	InsertWager(ctx context.Context, wager *domain.Wager) (bool, error)
	IncrementTally(ctx context.Context, contest domain.Contest, chosenHandle string) error
	GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error)
	GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error)
}
