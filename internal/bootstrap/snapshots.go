package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/osse101/ssbwatch/internal/config"
	"github.com/osse101/ssbwatch/internal/statuscache"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// InitializeSnapshotStore picks Redis when REDIS_URL is set and the bounded
// in-memory store otherwise. The closer releases the Redis client.
func InitializeSnapshotStore(ctx context.Context, cfg *config.Config) (statuscache.Store, io.Closer, error) {
	if cfg.RedisURL == "" {
		slog.Info(LogMsgSnapshotStoreReady, "backend", SnapshotBackendMemory)
		return statuscache.NewMemoryStore(statuscache.DefaultMemorySize), nopCloser{}, nil
	}

	client, err := statuscache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgSnapshotStore, err)
	}

	slog.Info(LogMsgSnapshotStoreReady, "backend", SnapshotBackendRedis)
	return statuscache.NewRedisStore(client, statuscache.DefaultKeyPrefix), client, nil
}
