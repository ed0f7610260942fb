package user

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/ssbwatch/internal/domain"
)

// FakeRepository is an in-memory repository.User that counts reads
type FakeRepository struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	getCalls int
}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{users: make(map[string]*domain.User)}
}

func (f *FakeRepository) CreateUser(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if strings.EqualFold(u.Username, user.Username) {
			return fmt.Errorf("%w: %s", domain.ErrUsernameTaken, user.Username)
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = time.Now()
	u := *user
	f.users[user.ID] = &u
	return nil
}

func (f *FakeRepository) GetUserByID(_ context.Context, userID string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	u, ok := f.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	c := *u
	return &c, nil
}

func (f *FakeRepository) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	for _, u := range f.users {
		if strings.EqualFold(u.Username, username) {
			c := *u
			return &c, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrUserNotFound, username)
}

func (f *FakeRepository) SetBan(_ context.Context, userID string, until *time.Time, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	u.BannedUntil = until
	u.BanReason = reason
	return nil
}

func (f *FakeRepository) ListUsers(_ context.Context, limit, offset int) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]domain.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	if offset >= len(all) {
		return []domain.User{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *FakeRepository) SetVerification(_ context.Context, userID string, verified bool, badge string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	u.Verified = verified
	u.Badge = badge
	return nil
}

func (f *FakeRepository) SetAdmin(_ context.Context, userID string, isAdmin bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUserNotFound, userID)
	}
	u.IsAdmin = isAdmin
	return nil
}

func (f *FakeRepository) reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.getCalls
}
