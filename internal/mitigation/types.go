package mitigation

import (
	"time"
)

// Event is the slice of a reasoning-pipeline event the gateway cares about:
// what it says, how urgent it is, and when it was emitted.
type Event struct {
	Content   string    `json:"content"`
	Priority  float64   `json:"priority"`
	Timestamp time.Time `json:"timestamp"`
}

// FusedEvent wraps an Event with fusion bookkeeping. Children and Parent are
// indices into the batch the record came from; -1 means no parent. Indices
// instead of pointers keep lineage cycle-free when fusion is reapplied.
type FusedEvent struct {
	Event

	// Momentum grows with the number of near-duplicates collapsed into
	// this record, a proxy for repetition pressure.
	Momentum     float64 `json:"momentum"`
	TriggerCount int     `json:"trigger_count"`
	Parent       int     `json:"parent"`
	Children     []int   `json:"children,omitempty"`
}

// NewFusedEvent wraps a raw event in a fresh record with no lineage.
func NewFusedEvent(event Event) FusedEvent {
	return FusedEvent{
		Event:        event,
		Momentum:     1,
		TriggerCount: 1,
		Parent:       -1,
	}
}

// DecisionKind enumerates admission outcomes.
type DecisionKind int

const (
	DecisionAllowed DecisionKind = iota
	DecisionRateLimited
	DecisionRejected
)

func (k DecisionKind) String() string {
	switch k {
	case DecisionAllowed:
		return "allowed"
	case DecisionRateLimited:
		return "rate_limited"
	case DecisionRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Decision is the outcome of one admission check. RetryAfter is meaningful
// only for DecisionRateLimited, Reason only for DecisionRejected.
type Decision struct {
	Kind       DecisionKind
	RetryAfter time.Duration
	Reason     string
}

// CircuitState enumerates breaker states.
type CircuitState int

const (
	CircuitClosed CircuitState = iota
	CircuitOpen
	CircuitHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half_open"
	default:
		return "unknown"
	}
}

// MitigationMetrics is a snapshot of the gateway's monotonic counters.
type MitigationMetrics struct {
	TotalChecks              uint64 `json:"total_checks"`
	AllowedEvents            uint64 `json:"allowed_events"`
	RateLimitRejections      uint64 `json:"rate_limit_rejections"`
	CircuitBreakerRejections uint64 `json:"circuit_breaker_rejections"`
}

// SuccessRate is the fraction of checks that were admitted, 0 when no
// checks have happened yet.
func (m MitigationMetrics) SuccessRate() float64 {
	if m.TotalChecks == 0 {
		return 0
	}
	return float64(m.AllowedEvents) / float64(m.TotalChecks)
}

// StormStats combines the counter snapshot with the breaker state.
type StormStats struct {
	Metrics      MitigationMetrics `json:"metrics"`
	CircuitState CircuitState      `json:"circuit_state"`
}

// Gate is the admission boundary consumed by handlers and middleware.
type Gate interface {
	AllowEvent() Decision
	RecordSuccess()
	RecordFailure()
	Stats() StormStats
}
