package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	return Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             20 * time.Millisecond,
		MaxRequestsHalfOpen: 1,
	}
}

var errBackend = errors.New("backend down")

func failTimes(cb *CircuitBreaker, n int) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return errBackend })
	}
}

func TestBreakerStartsClosed(t *testing.T) {
	cb := New(testConfig())
	assert.Equal(t, StateClosed, cb.State())

	err := cb.Execute(func() error { return nil })
	assert.NoError(t, err)
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := New(testConfig())

	failTimes(cb, 3)
	assert.Equal(t, StateOpen, cb.State())

	// While open, calls are rejected without running fn.
	ran := false
	err := cb.Execute(func() error { ran = true; return nil })
	assert.ErrorIs(t, err, ErrOpen)
	assert.False(t, ran)
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := New(testConfig())

	failTimes(cb, 2)
	require.NoError(t, cb.Execute(func() error { return nil }))
	failTimes(cb, 2)

	// Never hit 3 consecutive failures.
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerHalfOpenRecovery(t *testing.T) {
	cb := New(testConfig())
	failTimes(cb, 3)
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(30 * time.Millisecond)

	// First probe is allowed and succeeds; one more success closes.
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State())
	require.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := New(testConfig())
	failTimes(cb, 3)

	time.Sleep(30 * time.Millisecond)

	err := cb.Execute(func() error { return errBackend })
	assert.ErrorIs(t, err, errBackend)
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreakerStateChangeCallback(t *testing.T) {
	cb := New(testConfig())

	var transitions []State
	cb.OnStateChange(func(from, to State) {
		transitions = append(transitions, to)
	})

	failTimes(cb, 3)
	require.Equal(t, []State{StateOpen}, transitions)
	assert.Equal(t, "open", StateOpen.String())
}
