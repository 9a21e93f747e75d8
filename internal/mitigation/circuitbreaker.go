package mitigation

import (
	"fmt"
	"sync"
	"time"
)

// CircuitBreakerConfig configures the failure thresholds and the interval
// the circuit stays open before probing the downstream again.
type CircuitBreakerConfig struct {
	FailureThreshold int
	SuccessThreshold int
	Timeout          time.Duration
}

// CircuitBreaker is a Closed/Open/HalfOpen admission machine fed by
// downstream outcomes. The open timeout is re-evaluated lazily on each
// AllowRequest call, so there is no background timer to orphan. One small
// mutex guards state, counters and the opened-at timestamp together; every
// method is a single short critical section.
type CircuitBreaker struct {
	mu sync.Mutex

	config CircuitBreakerConfig

	state                CircuitState
	consecutiveFailures  int
	consecutiveSuccesses int
	openedAt             time.Time

	now func() time.Time
}

// NewCircuitBreaker validates the config and builds a breaker in the
// Closed state.
func NewCircuitBreaker(config CircuitBreakerConfig) (*CircuitBreaker, error) {
	if config.FailureThreshold <= 0 {
		return nil, fmt.Errorf("circuit breaker: failure_threshold must be > 0, got %d", config.FailureThreshold)
	}
	if config.SuccessThreshold <= 0 {
		return nil, fmt.Errorf("circuit breaker: success_threshold must be > 0, got %d", config.SuccessThreshold)
	}
	if config.Timeout <= 0 {
		return nil, fmt.Errorf("circuit breaker: timeout must be > 0, got %v", config.Timeout)
	}

	return &CircuitBreaker{
		config: config,
		state:  CircuitClosed,
		now:    time.Now,
	}, nil
}

// AllowRequest reports whether the request may proceed. While Open, the
// call that first observes the timeout elapsed flips the breaker to
// HalfOpen and is itself admitted as the probe.
func (cb *CircuitBreaker) AllowRequest() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.openedAt) >= cb.config.Timeout {
			cb.state = CircuitHalfOpen
			cb.consecutiveFailures = 0
			cb.consecutiveSuccesses = 0
			return true
		}
		return false
	case CircuitHalfOpen:
		return true
	default:
		return true
	}
}

// RecordSuccess feeds a successful downstream outcome to the breaker.
// Failures must be consecutive to trip the breaker, so a success while
// Closed clears the failure streak.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.consecutiveFailures = 0
	case CircuitHalfOpen:
		cb.consecutiveSuccesses++
		if cb.consecutiveSuccesses >= cb.config.SuccessThreshold {
			cb.state = CircuitClosed
			cb.consecutiveFailures = 0
			cb.consecutiveSuccesses = 0
		}
	}
}

// RecordFailure feeds a failed downstream outcome to the breaker. Any
// failure while HalfOpen reopens the circuit with a fresh timeout window.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		cb.consecutiveFailures++
		if cb.consecutiveFailures >= cb.config.FailureThreshold {
			cb.open()
		}
	case CircuitHalfOpen:
		cb.open()
	}
}

// open transitions to Open; caller must hold cb.mu.
func (cb *CircuitBreaker) open() {
	cb.state = CircuitOpen
	cb.openedAt = cb.now()
	cb.consecutiveFailures = 0
	cb.consecutiveSuccesses = 0
}

// State reports the current breaker state without side effects.
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}
