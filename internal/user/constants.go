package user

import "time"

// ============================================================================
// Cache Configuration
// ============================================================================

// CacheSchemaVersion is the current version of the cache schema
// Increment this when the cached data structure changes to auto-invalidate old entries
const CacheSchemaVersion = "1.1"

// DefaultCacheSize is the default maximum number of cache entries
const DefaultCacheSize = 1000

// DefaultCacheTTL is the default time-to-live for cache entries
const DefaultCacheTTL = 5 * time.Minute

// Admin listing page sizes
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Cache key prefixes
const (
	cacheKeyID       = "id:"
	cacheKeyUsername = "name:"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgUserRegistered = "User registered"
	LogMsgUserBanned     = "User banned"
	LogMsgUserUnbanned   = "User unbanned"
	LogMsgUserVerified   = "User verification updated"
	LogMsgRoleChanged    = "User role changed"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgInvalidBanDuration = "ban duration must be positive"
	ErrMsgInvalidUsername    = "username must not be empty"
	ErrMsgInvalidOffset      = "offset must not be negative"
	ErrMsgInvalidRole        = "role must be admin or user"
)
