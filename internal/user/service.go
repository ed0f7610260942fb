package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/osse101/ssbwatch/internal/domain"
	"github.com/osse101/ssbwatch/internal/logger"
	"github.com/osse101/ssbwatch/internal/repository"
)

// Service defines the interface for identity operations
type Service interface {
	Register(ctx context.Context, username string) (*domain.User, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	// Authorize always reads the store and rejects missing or banned users
	Authorize(ctx context.Context, userID string) (*domain.User, error)
	Ban(ctx context.Context, userID string, duration time.Duration, reason string) (*domain.User, error)
	Unban(ctx context.Context, userID string) error
	// ListUsers clamps limit to [1, MaxListLimit]; zero means DefaultListLimit
	ListUsers(ctx context.Context, limit, offset int) (*domain.UserPage, error)
	Verify(ctx context.Context, userID string, verified bool, badge string) (*domain.User, error)
	SetRole(ctx context.Context, userID, role string) (*domain.User, error)
	CacheStats() CacheStats
}

type service struct {
	repo  repository.User
	cache *userCache
	now   func() time.Time
}

// NewService creates a new user service
func NewService(repo repository.User, cacheCfg CacheConfig) Service {
	return &service{
		repo:  repo,
		cache: newUserCache(cacheCfg),
		now:   time.Now,
	}
}

func (s *service) Register(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidUsername)
	}

	user := &domain.User{Username: username}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info(LogMsgUserRegistered, "user_id", user.ID, "username", user.Username)
	s.cache.Set(user)
	return user, nil
}

func (s *service) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	if u, ok := s.cache.GetByID(userID); ok {
		return u, nil
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(u)
	return u, nil
}

func (s *service) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	if u, ok := s.cache.GetByUsername(username); ok {
		return u, nil
	}
	u, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	s.cache.Set(u)
	return u, nil
}

func (s *service) Authorize(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u.IsBanned(s.now()) {
		return nil, fmt.Errorf("%w: until %s", domain.ErrUserBanned, u.BannedUntil.Format(time.RFC3339))
	}
	s.cache.Set(u)
	return u, nil
}

func (s *service) Ban(ctx context.Context, userID string, duration time.Duration, reason string) (*domain.User, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidBanDuration)
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	until := s.now().Add(duration).UTC()
	if err := s.repo.SetBan(ctx, userID, &until, reason); err != nil {
		return nil, err
	}
	s.cache.Invalidate(u)

	u.BannedUntil = &until
	u.BanReason = reason
	logger.FromContext(ctx).Info(LogMsgUserBanned, "user_id", userID, "until", until, "reason", reason)
	return u, nil
}

func (s *service) Unban(ctx context.Context, userID string) error {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.repo.SetBan(ctx, userID, nil, ""); err != nil {
		return err
	}
	s.cache.Invalidate(u)
	logger.FromContext(ctx).Info(LogMsgUserUnbanned, "user_id", userID)
	return nil
}

func (s *service) ListUsers(ctx context.Context, limit, offset int) (*domain.UserPage, error) {
	if offset < 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidOffset)
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}

	users, err := s.repo.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return &domain.UserPage{Users: users, Limit: limit, Offset: offset}, nil
}

func (s *service) Verify(ctx context.Context, userID string, verified bool, badge string) (*domain.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	badge = strings.TrimSpace(badge)
	if !verified {
		badge = ""
	}
	if err := s.repo.SetVerification(ctx, userID, verified, badge); err != nil {
		return nil, err
	}
	s.cache.Invalidate(u)

	u.Verified = verified
	u.Badge = badge
	logger.FromContext(ctx).Info(LogMsgUserVerified, "user_id", userID, "verified", verified, "badge", badge)
	return u, nil
}

func (s *service) SetRole(ctx context.Context, userID, role string) (*domain.User, error) {
	var isAdmin bool
	switch role {
	case domain.RoleAdmin:
		isAdmin = true
	case domain.RoleUser:
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgInvalidRole)
	}

	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetAdmin(ctx, userID, isAdmin); err != nil {
		return nil, err
	}
	s.cache.Invalidate(u)

	u.IsAdmin = isAdmin
	logger.FromContext(ctx).Info(LogMsgRoleChanged, "user_id", userID, "role", role)
	return u, nil
}

func (s *service) CacheStats() CacheStats {
	return s.cache.GetStats()
}
