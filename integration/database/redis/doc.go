// Package redis connects to Redis and provides a shared response store for
// last-known-good dependency fallbacks.
//
//   - Connect: creates a client and waits for PING, retrying with exponential backoff
//   - Healthcheck: returns a ping function for readiness probes
//   - ResponseStore: a dependency.ResponseStore backed by Redis strings
//
// # Configuration
//
//	type Config struct {
//		ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"`
//		RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
//		RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`
//		ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`
//		ScanBatchSize  int           `env:"REDIS_SCAN_BATCH_SIZE" envDefault:"1000"`
//	}
//
// # Usage
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := redis.NewResponseStore(client, redis.WithScanBatchSize(cfg.ScanBatchSize))
//	key := func(r GetRate) string { return r.From + r.To }
//
//	dependency.Register(reg, rates.Get,
//		dependency.WithFallback(dependency.CachedFallback[GetRate, Rate](store, key)),
//	)
//	dependency.Decorate(reg, dependency.CacheResponses[GetRate, Rate](store, key, 24*time.Hour))
//
// Stored responses of one request kind can be dropped with Purge:
//
//	n, err := store.Purge(ctx, GetRate{}.Kind())
//
// # Error Handling
//
//   - ErrEmptyConnectionURL: no connection URL configured
//   - ErrFailedToParseRedisConnString: the URL is not a redis:// or rediss:// URL
//   - ErrRedisNotReady: PING did not succeed within the retry budget
//   - ErrHealthcheckFailed: health check ping failed
//   - ErrStoreUnavailable: a ResponseStore operation failed for a reason other than a miss
package redis
