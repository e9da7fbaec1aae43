package dependency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/callkit/core/logger"
)

// ResponseStore keeps encoded responses for last-known-good fallbacks.
// Load must return ErrCacheMiss for absent keys.
type ResponseStore interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// KeyFunc derives the cache key of a request. The request kind is prepended
// by the decorator, so keys only need to be unique within a kind.
type KeyFunc[Req any] func(req Req) string

func cacheKey[Req Kinded](req Req, key KeyFunc[Req]) string {
	return req.Kind().String() + ":" + key(req)
}

// CacheOption configures CacheResponses.
type CacheOption func(*cacheSettings)

type cacheSettings struct {
	logger *slog.Logger
}

// WithCacheLogger sets the logger reporting failed saves.
// If not set, slog.Default() is used.
func WithCacheLogger(l *slog.Logger) CacheOption {
	return func(s *cacheSettings) {
		if l != nil {
			s.logger = l
		}
	}
}

// CacheResponses returns a decorator saving every successful response to store.
// Responses are JSON encoded. Encode and save errors do not fail the call;
// they are logged at debug level.
//
// Combined with CachedFallback it serves the last known good response when
// the dependency is down.
//
// Example:
//
//	key := func(r GetRate) string { return r.From + r.To }
//	dependency.Register(reg, rates.Get,
//	    dependency.WithFallback(dependency.CachedFallback[GetRate, Rate](store, key)),
//	)
//	dependency.Decorate(reg, dependency.CacheResponses[GetRate, Rate](store, key, time.Hour))
func CacheResponses[Req Request[Resp], Resp any](store ResponseStore, key KeyFunc[Req], ttl time.Duration, opts ...CacheOption) Decorator[Req, Resp] {
	settings := cacheSettings{logger: slog.Default()}
	for _, opt := range opts {
		opt(&settings)
	}

	return func(next HandlerFunc[Req, Resp]) HandlerFunc[Req, Resp] {
		return func(ctx context.Context, req Req) (Resp, error) {
			resp, err := next(ctx, req)
			if err != nil {
				return resp, err
			}

			data, err := json.Marshal(resp)
			if err == nil {
				err = store.Save(context.WithoutCancel(ctx), cacheKey(req, key), data, ttl)
			}
			if err != nil {
				settings.logger.DebugContext(ctx, "failed to cache dependency response",
					logger.Request(req.Kind().String()),
					logger.CallID(CallID(ctx)),
					logger.Error(err))
			}
			return resp, nil
		}
	}
}

// CachedFallback returns a fallback serving the last response saved by CacheResponses.
// A cache miss fails the fallback with ErrCacheMiss.
func CachedFallback[Req Request[Resp], Resp any](store ResponseStore, key KeyFunc[Req]) FallbackFunc[Req, Resp] {
	return func(ctx context.Context, req Req, cause error) (Resp, error) {
		var resp Resp

		data, err := store.Load(ctx, cacheKey(req, key))
		if err != nil {
			if errors.Is(err, ErrCacheMiss) {
				return resp, fmt.Errorf("%w: %s", ErrCacheMiss, req.Kind())
			}
			return resp, err
		}

		if err := json.Unmarshal(data, &resp); err != nil {
			return resp, fmt.Errorf("decode cached %s response: %w", req.Kind(), err)
		}
		return resp, nil
	}
}

// MemoryStore is an in-process ResponseStore.
// Expired entries are dropped on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		if cur, ok := s.entries[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

// Save stores value under key. A non-positive ttl never expires.
func (s *MemoryStore) Save(_ context.Context, key string, value []byte, ttl time.Duration) error {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}
