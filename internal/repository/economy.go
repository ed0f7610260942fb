package repository

import (
	"context"

	"github.com/osse101/ssbwatch/internal/domain"
)

// Ledger defines the interface for balance persistence
type Ledger interface {
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	// IncrementBalance applies delta in a single statement. It returns
	// domain.ErrInsufficientFunds when the result would be negative.
	IncrementBalance(ctx context.Context, userID string, delta int64) error
	GetBalance(ctx context.Context, userID string) (int64, error)
}
