package statuscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/osse101/ssbwatch/internal/domain"
)

// DefaultKeyPrefix namespaces snapshot keys
const DefaultKeyPrefix = "ssbwatch:channel:"

const scanBatch = 100

// RedisStore keeps snapshots as JSON strings with a per-state TTL
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. An empty prefix uses DefaultKeyPrefix.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// NewRedisClient parses a redis:// URL and pings the server
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return client, nil
}

func (r *RedisStore) key(handle string) string {
	return r.prefix + domain.NormalizeHandle(handle)
}

func (r *RedisStore) Put(ctx context.Context, status domain.ChannelStatus) error {
	data, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("marshaling status: %w", err)
	}
	return r.client.Set(ctx, r.key(status.Handle), data, TTLFor(status)).Err()
}

func (r *RedisStore) Get(ctx context.Context, handle string) (domain.ChannelStatus, bool, error) {
	data, err := r.client.Get(ctx, r.key(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.ChannelStatus{}, false, nil
	}
	if err != nil {
		return domain.ChannelStatus{}, false, err
	}

	var status domain.ChannelStatus
	if err := json.Unmarshal(data, &status); err != nil {
		return domain.ChannelStatus{}, false, fmt.Errorf("unmarshaling status: %w", err)
	}
	return status, true, nil
}

func (r *RedisStore) List(ctx context.Context) ([]domain.ChannelStatus, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning snapshots: %w", err)
	}

	out := []domain.ChannelStatus{}
	if len(keys) == 0 {
		return out, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("reading snapshots: %w", err)
	}
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			// expired between SCAN and MGET
			continue
		}
		var status domain.ChannelStatus
		if err := json.Unmarshal([]byte(s), &status); err != nil {
			return nil, fmt.Errorf("unmarshaling status: %w", err)
		}
		out = append(out, status)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out, nil
}
