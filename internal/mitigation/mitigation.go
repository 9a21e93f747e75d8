package mitigation

import (
	"fmt"
	"sync/atomic"
	"time"
)

// StormMitigationConfig nests the per-primitive configs. Use one of the
// preset constructors or fill it in directly.
type StormMitigationConfig struct {
	RateLimit      RateLimitConfig
	CircuitBreaker CircuitBreakerConfig
	Fusion         EventFusionConfig
}

// DefaultConfig balances shedding against throughput.
func DefaultConfig() StormMitigationConfig {
	return StormMitigationConfig{
		RateLimit:      RateLimitConfig{MaxTokens: 100, RefillRate: 10},
		CircuitBreaker: CircuitBreakerConfig{FailureThreshold: 5, SuccessThreshold: 3, Timeout: 30 * time.Second},
		Fusion:         EventFusionConfig{SimilarityThreshold: 0.7},
	}
}

// AggressiveConfig sheds early and fuses liberally: small bucket, breaker
// trips fast and stays open long, loose similarity cutoff.
func AggressiveConfig() StormMitigationConfig {
	return StormMitigationConfig{
		RateLimit:      RateLimitConfig{MaxTokens: 20, RefillRate: 2},
		CircuitBreaker: CircuitBreakerConfig{FailureThreshold: 3, SuccessThreshold: 5, Timeout: 60 * time.Second},
		Fusion:         EventFusionConfig{SimilarityThreshold: 0.5},
	}
}

// LenientConfig tolerates bursts and failures, merging only close
// duplicates.
func LenientConfig() StormMitigationConfig {
	return StormMitigationConfig{
		RateLimit:      RateLimitConfig{MaxTokens: 500, RefillRate: 50},
		CircuitBreaker: CircuitBreakerConfig{FailureThreshold: 10, SuccessThreshold: 2, Timeout: 10 * time.Second},
		Fusion:         EventFusionConfig{SimilarityThreshold: 0.9},
	}
}

// StormMitigation sequences the circuit breaker and the rate limiter in
// front of the downstream and aggregates admission counters. The breaker is
// consulted first so a rejected event never spends a limiter token. Safe for
// concurrent use.
type StormMitigation struct {
	limiter *RateLimiter
	breaker *CircuitBreaker
	fusion  *EventFusion

	totalChecks              atomic.Uint64
	allowedEvents            atomic.Uint64
	rateLimitRejections      atomic.Uint64
	circuitBreakerRejections atomic.Uint64
}

// NewStormMitigation validates the nested configs and builds the gateway.
func NewStormMitigation(config StormMitigationConfig) (*StormMitigation, error) {
	limiter, err := NewRateLimiter(config.RateLimit)
	if err != nil {
		return nil, fmt.Errorf("storm mitigation: %w", err)
	}
	breaker, err := NewCircuitBreaker(config.CircuitBreaker)
	if err != nil {
		return nil, fmt.Errorf("storm mitigation: %w", err)
	}
	fusion, err := NewEventFusion(config.Fusion)
	if err != nil {
		return nil, fmt.Errorf("storm mitigation: %w", err)
	}

	return &StormMitigation{
		limiter: limiter,
		breaker: breaker,
		fusion:  fusion,
	}, nil
}

// AllowEvent runs one admission check: breaker first, then the token
// bucket. Exactly one counter beyond TotalChecks is incremented per call.
func (sm *StormMitigation) AllowEvent() Decision {
	sm.totalChecks.Add(1)

	if !sm.breaker.AllowRequest() {
		sm.circuitBreakerRejections.Add(1)
		return Decision{Kind: DecisionRejected, Reason: "circuit breaker open"}
	}

	if !sm.limiter.TryAcquire() {
		sm.rateLimitRejections.Add(1)
		return Decision{Kind: DecisionRateLimited, RetryAfter: sm.limiter.retryAfterOne()}
	}

	sm.allowedEvents.Add(1)
	return Decision{Kind: DecisionAllowed}
}

// RecordSuccess reports a successful downstream outcome.
func (sm *StormMitigation) RecordSuccess() {
	sm.breaker.RecordSuccess()
}

// RecordFailure reports a failed downstream outcome.
func (sm *StormMitigation) RecordFailure() {
	sm.breaker.RecordFailure()
}

// FuseEvents collapses near-duplicates in a candidate batch before it is
// presented to AllowEvent.
func (sm *StormMitigation) FuseEvents(batch []FusedEvent) []FusedEvent {
	return sm.fusion.FuseEvents(batch)
}

// Metrics returns a counter snapshot. Counters are read individually, so a
// snapshot taken during concurrent checks may be mid-update; each counter
// is itself monotonic.
func (sm *StormMitigation) Metrics() MitigationMetrics {
	return MitigationMetrics{
		TotalChecks:              sm.totalChecks.Load(),
		AllowedEvents:            sm.allowedEvents.Load(),
		RateLimitRejections:      sm.rateLimitRejections.Load(),
		CircuitBreakerRejections: sm.circuitBreakerRejections.Load(),
	}
}

// CircuitState reports the breaker state without side effects.
func (sm *StormMitigation) CircuitState() CircuitState {
	return sm.breaker.State()
}

// Stats combines the counter snapshot with the breaker state.
func (sm *StormMitigation) Stats() StormStats {
	return StormStats{
		Metrics:      sm.Metrics(),
		CircuitState: sm.CircuitState(),
	}
}
