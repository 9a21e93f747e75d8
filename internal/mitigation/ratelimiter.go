package mitigation

import (
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"
)

// RateLimitConfig configures the token bucket. InitialTokens nil means the
// bucket starts full.
type RateLimitConfig struct {
	MaxTokens     float64
	RefillRate    float64
	InitialTokens *float64
}

// bucketState is immutable once published; TryAcquire swaps in a fresh
// record rather than mutating in place.
type bucketState struct {
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a virtual token bucket: refill is computed lazily from the
// elapsed time on every access, so there is no background timer and the hot
// path stays allocation-light. Safe for concurrent use without external
// locking.
type RateLimiter struct {
	maxTokens  float64
	refillRate float64

	state atomic.Pointer[bucketState]

	// now is swappable for deterministic tests.
	now func() time.Time
}

// NewRateLimiter validates the config and builds a limiter.
func NewRateLimiter(config RateLimitConfig) (*RateLimiter, error) {
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("rate limiter: max_tokens must be >= 0, got %v", config.MaxTokens)
	}
	if config.RefillRate <= 0 {
		return nil, fmt.Errorf("rate limiter: refill_rate must be > 0, got %v", config.RefillRate)
	}

	initial := config.MaxTokens
	if config.InitialTokens != nil {
		initial = *config.InitialTokens
		if initial < 0 || initial > config.MaxTokens {
			return nil, errors.New("rate limiter: initial_tokens must be within [0, max_tokens]")
		}
	}

	rl := &RateLimiter{
		maxTokens:  config.MaxTokens,
		refillRate: config.RefillRate,
		now:        time.Now,
	}
	rl.state.Store(&bucketState{tokens: initial, lastRefill: rl.now()})
	return rl, nil
}

// TryAcquire refills the bucket for the elapsed time and consumes one token
// if at least one is available. Refill-then-consume is a single atomic step
// relative to concurrent callers: the CAS retry loop republishes the whole
// {tokens, lastRefill} record, so two racing calls can never both spend the
// last token.
func (rl *RateLimiter) TryAcquire() bool {
	for {
		current := rl.state.Load()
		now := rl.now()
		tokens := rl.refilled(current, now)

		next := &bucketState{tokens: tokens, lastRefill: now}
		allowed := tokens >= 1.0
		if allowed {
			next.tokens = tokens - 1.0
		}

		if rl.state.CompareAndSwap(current, next) {
			return allowed
		}
	}
}

// Tokens reports the current refilled balance without consuming anything.
func (rl *RateLimiter) Tokens() float64 {
	return rl.refilled(rl.state.Load(), rl.now())
}

// retryAfterOne estimates how long until a single token is available.
func (rl *RateLimiter) retryAfterOne() time.Duration {
	deficit := 1.0 - rl.Tokens()
	if deficit <= 0 {
		return 0
	}
	return time.Duration(deficit / rl.refillRate * float64(time.Second))
}

func (rl *RateLimiter) refilled(state *bucketState, now time.Time) float64 {
	elapsed := now.Sub(state.lastRefill).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	return math.Min(rl.maxTokens, state.tokens+elapsed*rl.refillRate)
}
