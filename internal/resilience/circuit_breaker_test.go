package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCircuitBreakerStates(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected string
	}{
		{"closed state", StateClosed, "closed"},
		{"open state", StateOpen, "open"},
		{"half-open state", StateHalfOpen, "half-open"},
		{"unknown state", State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestCircuitBreakerDefaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test"})

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, 5, cb.maxFailures)
	assert.Equal(t, 30*time.Second, cb.timeout)
	assert.Equal(t, 3, cb.halfOpenMax)
}

func TestCircuitBreakerOpensAfterMaxFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 3,
		Timeout:     time.Minute,
	})
	failing := func() error { return errors.New("backend down") }

	for i := 0; i < 3; i++ {
		assert.Error(t, cb.Execute(failing))
	}
	assert.Equal(t, StateOpen, cb.State())

	// Calls are rejected without invoking the function.
	invoked := false
	err := cb.Execute(func() error {
		invoked = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, invoked)
}

func TestCircuitBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 3,
	})
	failing := func() error { return errors.New("flaky") }
	ok := func() error { return nil }

	assert.Error(t, cb.Execute(failing))
	assert.Error(t, cb.Execute(failing))
	assert.NoError(t, cb.Execute(ok))
	assert.Error(t, cb.Execute(failing))
	assert.Error(t, cb.Execute(failing))

	// Two failures, a success, two more: never three in a row.
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenRecovery(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
		HalfOpenMax: 2,
	})

	assert.Error(t, cb.Execute(func() error { return errors.New("down") }))
	assert.Equal(t, StateOpen, cb.State())

	time.Sleep(20 * time.Millisecond)

	// First probe after the timeout moves the breaker to half-open.
	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State())

	assert.NoError(t, cb.Execute(func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "test",
		MaxFailures: 1,
		Timeout:     10 * time.Millisecond,
	})

	assert.Error(t, cb.Execute(func() error { return errors.New("down") }))
	time.Sleep(20 * time.Millisecond)

	assert.Error(t, cb.Execute(func() error { return errors.New("still down") }))
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreakerReset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 1})

	assert.Error(t, cb.Execute(func() error { return errors.New("down") }))
	assert.Equal(t, StateOpen, cb.State())

	cb.Reset()
	assert.Equal(t, StateClosed, cb.State())

	assert.NoError(t, cb.Execute(func() error { return nil }))
}
