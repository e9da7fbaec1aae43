package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/callkit/core/dependency"
)

// DefaultKeyPrefix namespaces keys written by ResponseStore.
const DefaultKeyPrefix = "callkit:responses:"

// Client is the subset of go-redis used by ResponseStore.
// *redis.Client, *redis.ClusterClient and redis.UniversalClient satisfy it.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// ResponseStore keeps dependency responses in Redis so that the last known
// good response survives restarts and is shared between instances.
// It implements dependency.ResponseStore.
type ResponseStore struct {
	client    Client
	prefix    string
	batchSize int64
}

// StoreOption configures a ResponseStore.
type StoreOption func(*ResponseStore)

// WithKeyPrefix replaces DefaultKeyPrefix.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *ResponseStore) {
		s.prefix = prefix
	}
}

// WithScanBatchSize sets the SCAN count hint used by Purge.
func WithScanBatchSize(n int) StoreOption {
	return func(s *ResponseStore) {
		if n > 0 {
			s.batchSize = int64(n)
		}
	}
}

// NewResponseStore creates a ResponseStore over client.
func NewResponseStore(client Client, opts ...StoreOption) *ResponseStore {
	s := &ResponseStore{
		client:    client,
		prefix:    DefaultKeyPrefix,
		batchSize: 1000,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ dependency.ResponseStore = (*ResponseStore)(nil)

// Load returns the stored value or dependency.ErrCacheMiss.
func (s *ResponseStore) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, dependency.ErrCacheMiss
		}
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return data, nil
}

// Save stores value under key. A non-positive ttl never expires.
func (s *ResponseStore) Save(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.prefix+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return nil
}

// Purge deletes every stored response of kind and returns how many keys were removed.
func (s *ResponseStore) Purge(ctx context.Context, kind dependency.Kind) (int64, error) {
	match := s.prefix + kind.String() + ":*"

	var (
		cursor  uint64
		removed int64
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, s.batchSize).Result()
		if err != nil {
			return removed, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			removed += n
			if err != nil {
				return removed, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
			}
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}
