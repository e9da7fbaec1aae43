package dependency

import "time"

// Config holds dispatcher and policy settings loaded from the environment.
//
// Example:
//
//	var cfg dependency.Config
//	if err := config.LoadContext(ctx, &cfg); err != nil {
//	    return err
//	}
//	d, err := dependency.NewDispatcher(reg,
//	    dependency.WithDefaultPolicy(dependency.NewPolicyFromConfig(cfg)),
//	    dependency.WithDefaultTimeout(cfg.DefaultTimeout),
//	)
type Config struct {
	DefaultTimeout          time.Duration `env:"DEPENDENCY_DEFAULT_TIMEOUT" envDefault:"30s"`
	AttemptTimeout          time.Duration `env:"DEPENDENCY_ATTEMPT_TIMEOUT" envDefault:"10s"`
	MaxRetries              int           `env:"DEPENDENCY_MAX_RETRIES" envDefault:"2"`
	InitialBackoff          time.Duration `env:"DEPENDENCY_INITIAL_BACKOFF" envDefault:"100ms"`
	MaxBackoff              time.Duration `env:"DEPENDENCY_MAX_BACKOFF" envDefault:"5s"`
	BreakerEnabled          bool          `env:"DEPENDENCY_BREAKER_ENABLED" envDefault:"false"`
	BreakerFailureThreshold uint32        `env:"DEPENDENCY_BREAKER_FAILURE_THRESHOLD" envDefault:"5"`
	BreakerOpenTimeout      time.Duration `env:"DEPENDENCY_BREAKER_OPEN_TIMEOUT" envDefault:"30s"`
	BreakerHalfOpenRequests uint32        `env:"DEPENDENCY_BREAKER_HALF_OPEN_REQUESTS" envDefault:"1"`
}

// DefaultConfig returns the same values as the envDefault tags.
func DefaultConfig() Config {
	return Config{
		DefaultTimeout:          30 * time.Second,
		AttemptTimeout:          10 * time.Second,
		MaxRetries:              2,
		InitialBackoff:          100 * time.Millisecond,
		MaxBackoff:              5 * time.Second,
		BreakerFailureThreshold: 5,
		BreakerOpenTimeout:      30 * time.Second,
		BreakerHalfOpenRequests: 1,
	}
}

// NewPolicyFromConfig creates a ResiliencePolicy from cfg.
// Additional options are applied after the configured ones.
func NewPolicyFromConfig(cfg Config, opts ...PolicyOption) *ResiliencePolicy {
	base := []PolicyOption{
		WithAttemptTimeout(cfg.AttemptTimeout),
		WithRetry(cfg.MaxRetries),
		WithBackoff(cfg.InitialBackoff, cfg.MaxBackoff),
	}
	if cfg.BreakerEnabled {
		base = append(base, WithCircuitBreaker(BreakerConfig{
			FailureThreshold: cfg.BreakerFailureThreshold,
			OpenTimeout:      cfg.BreakerOpenTimeout,
			HalfOpenRequests: cfg.BreakerHalfOpenRequests,
		}))
	}
	return NewPolicy(append(base, opts...)...)
}
