package repository

import (
	"context"
	"time"

	"github.com/osse101/ssbwatch/internal/domain"
)

// User defines the interface for user persistence
type User interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// SetBan sets or clears (until == nil) the ban window of a user
	SetBan(ctx context.Context, userID string, until *time.Time, reason string) error
	// ListUsers pages through users newest first
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	SetVerification(ctx context.Context, userID string, verified bool, badge string) error
	SetAdmin(ctx context.Context, userID string, isAdmin bool) error
}
