package health

import (
	"context"
	"fmt"

	"github.com/sony/gobreaker/v2"

	"github.com/dmitrymomot/callkit/core/dependency"
)

// BreakerReporter is satisfied by *dependency.ResiliencePolicy.
type BreakerReporter interface {
	BreakerState(kind dependency.Kind) (gobreaker.State, bool)
}

// CircuitCheck fails while the breaker of any listed kind is open, so an
// instance cut off from a critical dependency leaves the load balancer.
// Half-open breakers and kinds never called do not fail the check.
func CircuitCheck(policy BreakerReporter, kinds ...dependency.Kind) Check {
	return func(context.Context) error {
		for _, kind := range kinds {
			if state, ok := policy.BreakerState(kind); ok && state == gobreaker.StateOpen {
				return fmt.Errorf("%w: %s", dependency.ErrCircuitOpen, kind)
			}
		}
		return nil
	}
}
