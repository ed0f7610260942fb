package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ssbwatch/internal/domain"
)

// PredictionRepository stores the single featured prediction
type PredictionRepository struct {
	db *pgxpool.Pool
}

// NewPredictionRepository creates a new PredictionRepository
func NewPredictionRepository(db *pgxpool.Pool) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// ReplacePrediction removes any previous prediction and stores p
func (r *PredictionRepository) ReplacePrediction(ctx context.Context, p *domain.ActivePrediction) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("%w: prediction id %q", domain.ErrInvalidInput, p.ID)
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM predictions`); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToClearPredictions, err)
	}

	query := `
		INSERT INTO predictions (prediction_id, contest_id, handle_a, handle_b, started_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.Exec(ctx, query, id, p.ContestID, p.HandleA, p.HandleB, p.StartedAt, p.ExpiresAt); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertPrediction, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// GetActivePrediction returns the most recent prediction, expired or not
func (r *PredictionRepository) GetActivePrediction(ctx context.Context) (*domain.ActivePrediction, error) {
	query := `
		SELECT prediction_id::text, contest_id, handle_a, handle_b, started_at, expires_at
		FROM predictions
		ORDER BY started_at DESC
		LIMIT 1
	`
	var p domain.ActivePrediction
	err := r.db.QueryRow(ctx, query).Scan(&p.ID, &p.ContestID, &p.HandleA, &p.HandleB, &p.StartedAt, &p.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNoActivePrediction
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetPrediction, err)
	}
	return &p, nil
}
