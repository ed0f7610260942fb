package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/ssbwatch/internal/domain"
)

func TestCacheInvalidation(t *testing.T) {
	cache := newUserCache(CacheConfig{Size: 10, TTL: time.Minute})

	user := &domain.User{ID: "user-1", Username: "TestUser"}
	cache.Set(user)

	retrieved, found := cache.GetByID("user-1")
	assert.True(t, found)
	assert.Equal(t, user.Username, retrieved.Username)

	retrieved, found = cache.GetByUsername("testuser")
	assert.True(t, found, "username lookups ignore case")
	assert.Equal(t, "user-1", retrieved.ID)

	cache.Invalidate(user)

	_, found = cache.GetByID("user-1")
	assert.False(t, found)
	_, found = cache.GetByUsername("testuser")
	assert.False(t, found)
}

func TestCacheReturnsCopies(t *testing.T) {
	cache := newUserCache(CacheConfig{Size: 10, TTL: time.Minute})
	cache.Set(&domain.User{ID: "user-1", Username: "a", Balance: 5})

	u, _ := cache.GetByID("user-1")
	u.Balance = 999

	again, _ := cache.GetByID("user-1")
	assert.Equal(t, int64(5), again.Balance)
}

func TestCacheStats(t *testing.T) {
	cache := newUserCache(CacheConfig{Size: 10, TTL: time.Minute})

	stats := cache.GetStats()
	assert.Equal(t, int64(0), stats.Hits)
	assert.Equal(t, int64(0), stats.Misses)
	assert.Equal(t, 0, stats.Size)

	cache.GetByID("missing")
	cache.Set(&domain.User{ID: "user-1", Username: "testuser"})
	cache.GetByID("user-1")

	stats = cache.GetStats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 2, stats.Size, "one entry per key")
}

func TestCacheExpiry(t *testing.T) {
	cache := newUserCache(CacheConfig{Size: 10, TTL: 20 * time.Millisecond})
	cache.Set(&domain.User{ID: "user-1", Username: "testuser"})

	assert.Eventually(t, func() bool {
		_, found := cache.GetByID("user-1")
		return !found
	}, time.Second, 10*time.Millisecond)
}
