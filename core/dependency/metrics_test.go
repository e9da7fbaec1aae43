package dependency_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/callkit/core/dependency"
)

func TestTeeMetrics(t *testing.T) {
	t.Parallel()

	a, b := &recordingMetrics{}, &recordingMetrics{}
	m := dependency.TeeMetrics(a, nil, b)

	m.Succeeded("rates.get", 0)
	m.Failed("rates.get", errUpstream, 0)
	m.Fallback("rates.get", 0)

	want := []string{"succeeded", "failed", "fallback"}
	assert.Equal(t, want, a.outcomes())
	assert.Equal(t, want, b.outcomes())
}

func TestFailureOutcome(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "plain", err: errUpstream, want: dependency.OutcomeFailed},
		{name: "timeout", err: fmt.Errorf("%w: 1s", dependency.ErrTimeout), want: dependency.OutcomeTimeout},
		{
			name: "canceled wins over timeout",
			err:  errors.Join(dependency.ErrCanceled, context.Canceled, dependency.ErrTimeout),
			want: dependency.OutcomeCanceled,
		},
		{
			name: "wrapped in dispatch error",
			err:  &dependency.DispatchError{Kind: "rates.get", Stage: dependency.StagePolicy, Err: dependency.ErrTimeout},
			want: dependency.OutcomeTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, dependency.FailureOutcome(tt.err))
		})
	}
}
