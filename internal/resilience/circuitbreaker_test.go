package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUpstream = errors.New("upstream down")

func newTestBreaker() *CircuitBreaker {
	return NewCircuitBreaker("test", CircuitBreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
	})
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := newTestBreaker()

	for i := 0; i < 2; i++ {
		err := cb.Do(func() error { return errUpstream })
		assert.ErrorIs(t, err, errUpstream)
		assert.Equal(t, CircuitClosed, cb.State())
	}

	err := cb.Do(func() error { return errUpstream })
	assert.ErrorIs(t, err, errUpstream)
	assert.Equal(t, CircuitOpen, cb.State())

	// Open circuit fails fast without invoking fn.
	called := false
	err = cb.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := newTestBreaker()

	cb.Do(func() error { return errUpstream })
	cb.Do(func() error { return errUpstream })
	require.NoError(t, cb.Do(func() error { return nil }))

	// The two earlier failures no longer count toward the threshold.
	cb.Do(func() error { return errUpstream })
	cb.Do(func() error { return errUpstream })
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := newTestBreaker()
	now := time.Now()
	cb.nowFn = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		cb.Do(func() error { return errUpstream })
	}
	require.Equal(t, CircuitOpen, cb.State())

	// Before the timeout the circuit still rejects.
	assert.ErrorIs(t, cb.Do(func() error { return nil }), ErrCircuitOpen)

	// After the timeout a probe is allowed; two successes close it.
	now = now.Add(31 * time.Second)
	require.NoError(t, cb.Do(func() error { return nil }))
	assert.Equal(t, CircuitHalfOpen, cb.State())
	require.NoError(t, cb.Do(func() error { return nil }))
	assert.Equal(t, CircuitClosed, cb.State())
}

func TestBreakerFailedProbeReopens(t *testing.T) {
	cb := newTestBreaker()
	now := time.Now()
	cb.nowFn = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		cb.Do(func() error { return errUpstream })
	}
	now = now.Add(31 * time.Second)

	assert.ErrorIs(t, cb.Do(func() error { return errUpstream }), errUpstream)
	assert.Equal(t, CircuitOpen, cb.State())
}

func TestDoWithResult(t *testing.T) {
	cb := newTestBreaker()

	got, err := DoWithResult(cb, func() (int, error) { return 42, nil })
	require.NoError(t, err)
	assert.Equal(t, 42, got)

	for i := 0; i < 3; i++ {
		DoWithResult(cb, func() (int, error) { return 0, errUpstream })
	}
	_, err = DoWithResult(cb, func() (int, error) { return 42, nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
}
