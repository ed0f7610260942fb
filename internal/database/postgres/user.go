package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/ssbwatch/internal/domain"
)

const userColumns = `user_id::text, username, balance, banned_until, ban_reason, is_admin, verified, badge, created_at`

// UserRepository implements the user and ledger repositories for PostgreSQL
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Balance, &u.BannedUntil, &u.BanReason, &u.IsAdmin, &u.Verified, &u.Badge, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. An empty ID is filled with a fresh UUID.
func (r *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	id, err := parseUserUUID(user.ID)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO users (user_id, username, balance, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err = r.db.QueryRow(ctx, query, id, user.Username, user.Balance, user.IsAdmin).Scan(&user.CreatedAt)
	if err != nil {
		if pgErrorCode(err) == PgErrorCodeUniqueViolation {
			return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, user.Username)
		}
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertUser, err)
	}
	return nil
}

// GetUserByID returns domain.ErrUserNotFound when no row matches
func (r *UserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	id, err := parseUserUUID(userID)
	if err != nil {
		return nil, err
	}

	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE user_id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return user, nil
}

// GetUserByUsername matches case-insensitively
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = $1`
	user, err := scanUser(r.db.QueryRow(ctx, query, strings.ToLower(username)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUserByUsername, err)
	}
	return user, nil
}

// SetBan writes the ban window. A nil until lifts the ban.
func (r *UserRepository) SetBan(ctx context.Context, userID string, until *time.Time, reason string) error {
	id, err := parseUserUUID(userID)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `UPDATE users SET banned_until = $2, ban_reason = $3 WHERE user_id = $1`, id, until, reason)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateBan, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

// ListUsers returns one page of users, newest first
func (r *UserRepository) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC, user_id LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListUsers, err)
	}
	defer rows.Close()

	users := make([]domain.User, 0, limit)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToScanRow, err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListUsers, err)
	}
	return users, nil
}

// SetVerification writes the verified flag and badge together
func (r *UserRepository) SetVerification(ctx context.Context, userID string, verified bool, badge string) error {
	id, err := parseUserUUID(userID)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `UPDATE users SET verified = $2, badge = $3 WHERE user_id = $1`, id, verified, badge)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateVerification, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

// SetAdmin grants or revokes the admin role
func (r *UserRepository) SetAdmin(ctx context.Context, userID string, isAdmin bool) error {
	id, err := parseUserUUID(userID)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `UPDATE users SET is_admin = $2 WHERE user_id = $1`, id, isAdmin)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateRole, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return nil
}

// IncrementBalance adds delta in one statement so concurrent grants never lose updates
func (r *UserRepository) IncrementBalance(ctx context.Context, userID string, delta int64) error {
	id, err := parseUserUUID(userID)
	if err != nil {
		return err
	}

	query := `
		UPDATE users
		SET balance = balance + $2
		WHERE user_id = $1 AND balance + $2 >= 0
	`
	tag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToIncrementBalance, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// Nothing matched: either the user is gone or the guard refused the delta
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE user_id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToIncrementBalance, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	return fmt.Errorf("%w: delta %d", domain.ErrInsufficientFunds, delta)
}

// GetBalance reads the current balance
func (r *UserRepository) GetBalance(ctx context.Context, userID string) (int64, error) {
	id, err := parseUserUUID(userID)
	if err != nil {
		return 0, err
	}

	var balance int64
	if err := r.db.QueryRow(ctx, `SELECT balance FROM users WHERE user_id = $1`, id).Scan(&balance); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return balance, nil
}
