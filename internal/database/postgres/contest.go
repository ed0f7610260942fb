package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/repository"
)

const wagerColumns = `user_id::text, contest_id, chosen_handle, state, created_at, settled_at`

// ContestRepository implements repository.Contest for PostgreSQL
type ContestRepository struct {
	db *pgxpool.Pool
}

// NewContestRepository creates a new ContestRepository
func NewContestRepository(db *pgxpool.Pool) *ContestRepository {
	return &ContestRepository{db: db}
}

func scanWager(row pgx.Row) (*domain.Wager, error) {
	var w domain.Wager
	var state string
	if err := row.Scan(&w.UserID, &w.ContestID, &w.ChosenHandle, &state, &w.CreatedAt, &w.SettledAt); err != nil {
		return nil, err
	}
	w.State = domain.WagerState(state)
	return &w, nil
}

func getWager(ctx context.Context, q querier, userID, contestID string) (*domain.Wager, error) {
	id, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE user_id = $1 AND contest_id = $2`
	w, err := scanWager(q.QueryRow(ctx, query, id, contestID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrWagerNotFound, contestID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetWager, err)
	}
	return w, nil
}

func getTally(ctx context.Context, q querier, contestID string) (*domain.TallyRecord, error) {
	t := domain.TallyRecord{ContestID: contestID}
	err := q.QueryRow(ctx, `SELECT count_a, count_b FROM contest_tallies WHERE contest_id = $1`, contestID).
		Scan(&t.CountA, &t.CountB)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrContestNotFound, contestID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetTally, err)
	}
	return &t, nil
}

// GetWager returns domain.ErrWagerNotFound when the user has not voted
func (r *ContestRepository) GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error) {
	return getWager(ctx, r.db, userID, contestID)
}

// GetTally returns domain.ErrContestNotFound when nobody voted in the contest yet
func (r *ContestRepository) GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error) {
	return getTally(ctx, r.db, contestID)
}

// TransitionWager performs a compare-and-swap on the wager state.
// Returns the number of rows affected (0 if the wager was not PENDING any more).
func (r *ContestRepository) TransitionWager(ctx context.Context, userID, contestID string, to domain.WagerState, at time.Time) (int64, error) {
	id, err := parseUserUUID(userID)
	if err != nil {
		return 0, err
	}

	query := `
		UPDATE wagers
		SET state = $3, settled_at = $4
		WHERE user_id = $1 AND contest_id = $2 AND state = 'PENDING'
	`
	tag, err := r.db.Exec(ctx, query, id, contestID, string(to), at)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToTransitionWager, err)
	}
	return tag.RowsAffected(), nil
}

// ListPendingContests returns every contest with at least one PENDING wager
func (r *ContestRepository) ListPendingContests(ctx context.Context) ([]domain.Contest, error) {
	query := `
		SELECT t.contest_id, t.handle_a, t.handle_b
		FROM contest_tallies t
		WHERE EXISTS (
			SELECT 1 FROM wagers w WHERE w.contest_id = t.contest_id AND w.state = 'PENDING'
		)
		ORDER BY t.contest_id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListContests, err)
	}
	defer rows.Close()

	contests := []domain.Contest{}
	for rows.Next() {
		var c domain.Contest
		if err := rows.Scan(&c.ID, &c.HandleA, &c.HandleB); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		contests = append(contests, c)
	}
	return contests, rows.Err()
}

// ListPendingWagers returns the PENDING wagers of one contest, oldest first
func (r *ContestRepository) ListPendingWagers(ctx context.Context, contestID string) ([]domain.Wager, error) {
	query := `SELECT ` + wagerColumns + ` FROM wagers WHERE contest_id = $1 AND state = 'PENDING' ORDER BY created_at`
	rows, err := r.db.Query(ctx, query, contestID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListWagers, err)
	}
	defer rows.Close()

	wagers := []domain.Wager{}
	for rows.Next() {
		w, err := scanWager(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		wagers = append(wagers, *w)
	}
	return wagers, rows.Err()
}

// BeginContestTx starts a transaction for the writes of a first vote
func (r *ContestRepository) BeginContestTx(ctx context.Context) (repository.ContestTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	return &contestTx{tx: tx}, nil
}

type contestTx struct {
	tx pgx.Tx
}

func (t *contestTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

func (t *contestTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *contestTx) EnsureTally(ctx context.Context, contest domain.Contest) error {
	query := `
		INSERT INTO contest_tallies (contest_id, handle_a, handle_b)
		VALUES ($1, $2, $3)
		ON CONFLICT (contest_id) DO NOTHING
	`
	if _, err := t.tx.Exec(ctx, query, contest.ID, contest.HandleA, contest.HandleB); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToEnsureTally, err)
	}
	return nil
}

func (t *contestTx) InsertWager(ctx context.Context, wager *domain.Wager) (bool, error) {
	id, err := parseUserUUID(wager.UserID)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO wagers (user_id, contest_id, chosen_handle, state)
		VALUES ($1, $2, $3, 'PENDING')
		ON CONFLICT (user_id, contest_id) DO NOTHING
		RETURNING created_at
	`
	err = t.tx.QueryRow(ctx, query, id, wager.ContestID, wager.ChosenHandle).Scan(&wager.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		if pgErrorCode(err) == PgErrorCodeForeignKeyViolation {
			return false, fmt.Errorf("%w: %s", domain.ErrUserNotFound, wager.UserID)
		}
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToInsertWager, err)
	}
	wager.State = domain.WagerPending
	return true, nil
}

func (t *contestTx) IncrementTally(ctx context.Context, contest domain.Contest, chosenHandle string) error {
	column := "count_a"
	switch chosenHandle {
	case contest.HandleA:
	case contest.HandleB:
		column = "count_b"
	default:
		return fmt.Errorf("%w: %s", domain.ErrInvalidChoice, chosenHandle)
	}

	tag, err := t.tx.Exec(ctx, `UPDATE contest_tallies SET `+column+` = `+column+` + 1 WHERE contest_id = $1`, contest.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToIncrementTally, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrContestNotFound, contest.ID)
	}
	return nil
}

func (t *contestTx) GetWager(ctx context.Context, userID, contestID string) (*domain.Wager, error) {
	return getWager(ctx, t.tx, userID, contestID)
}

func (t *contestTx) GetTally(ctx context.Context, contestID string) (*domain.TallyRecord, error) {
	return getTally(ctx, t.tx, contestID)
}
