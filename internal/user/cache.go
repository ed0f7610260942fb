package user

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/ssbwatch/internal/domain"
)

// CacheConfig sizes the profile cache
type CacheConfig struct {
	Size int
	TTL  time.Duration
}

// DefaultCacheConfig returns the default cache sizing
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{Size: DefaultCacheSize, TTL: DefaultCacheTTL}
}

// CacheStats reports cache effectiveness
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// cachedUserEntry wraps a user with version metadata for cache invalidation
type cachedUserEntry struct {
	Version  string
	User     domain.User
	CachedAt time.Time
}

// userCache is an expirable LRU over profile lookups, keyed both by id and by
// lowercased username.
type userCache struct {
	lru    *expirable.LRU[string, *cachedUserEntry]
	hits   atomic.Int64
	misses atomic.Int64
}

func newUserCache(cfg CacheConfig) *userCache {
	if cfg.Size <= 0 {
		cfg.Size = DefaultCacheSize
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultCacheTTL
	}
	return &userCache{
		lru: expirable.NewLRU[string, *cachedUserEntry](cfg.Size, nil, cfg.TTL),
	}
}

func idKey(id string) string { return cacheKeyID + id }

func usernameKey(username string) string { return cacheKeyUsername + strings.ToLower(username) }

// get returns a copy so callers cannot mutate the cached entry
func (c *userCache) get(key string) (*domain.User, bool) {
	entry, found := c.lru.Get(key)
	if !found {
		c.misses.Add(1)
		return nil, false
	}

	// Check version - auto-invalidate if mismatch
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(key)
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	u := entry.User
	return &u, true
}

// GetByID looks a user up by id
func (c *userCache) GetByID(id string) (*domain.User, bool) {
	return c.get(idKey(id))
}

// GetByUsername looks a user up by username, ignoring case
func (c *userCache) GetByUsername(username string) (*domain.User, bool) {
	return c.get(usernameKey(username))
}

// Set stores a user under both of its keys
func (c *userCache) Set(user *domain.User) {
	entry := &cachedUserEntry{
		Version:  CacheSchemaVersion,
		User:     *user,
		CachedAt: time.Now(),
	}
	c.lru.Add(idKey(user.ID), entry)
	c.lru.Add(usernameKey(user.Username), entry)
}

// Invalidate removes both keys of a user
func (c *userCache) Invalidate(user *domain.User) {
	c.lru.Remove(idKey(user.ID))
	c.lru.Remove(usernameKey(user.Username))
}

// GetStats returns hit/miss counters and the current entry count
func (c *userCache) GetStats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
