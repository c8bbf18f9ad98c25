// Package analysis fronts the CV analysis pipeline: it prefers the
// remote LLM-backed service and falls back to the local deterministic
// pipeline under a circuit-breaker policy.
package analysis

import (
	"sync"
	"time"
)

// Breaker defaults.
const (
	// FailureThreshold consecutive failures open the breaker.
	FailureThreshold = 3
	// Cooldown is how long the breaker stays open before remote calls
	// are allowed again.
	Cooldown = 5 * time.Minute
)

// Clock abstracts wall-clock time so cooldown logic is deterministic
// under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// CircuitBreaker guards the remote service. It is process-wide state
// shared across requests; all methods are safe for concurrent use.
type CircuitBreaker struct {
	mu        sync.Mutex
	failures  int
	openedAt  time.Time
	open      bool
	threshold int
	cooldown  time.Duration
	clock     Clock
}

// NewCircuitBreaker creates a breaker with the given threshold and
// cooldown. A nil clock selects the wall clock; zero values select the
// defaults.
func NewCircuitBreaker(threshold int, cooldown time.Duration, clock Clock) *CircuitBreaker {
	if threshold <= 0 {
		threshold = FailureThreshold
	}
	if cooldown <= 0 {
		cooldown = Cooldown
	}
	if clock == nil {
		clock = realClock{}
	}
	return &CircuitBreaker{threshold: threshold, cooldown: cooldown, clock: clock}
}

// Allow reports whether a remote call may be attempted. An open breaker
// whose cooldown has elapsed closes again, resetting the counter.
func (b *CircuitBreaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.open {
		return true
	}
	if b.clock.Now().Sub(b.openedAt) >= b.cooldown {
		b.open = false
		b.failures = 0
		return true
	}
	return false
}

// RecordSuccess resets the consecutive-failure counter.
func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = 0
}

// RecordFailure counts one failure, opening the breaker at the
// threshold.
func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	if b.failures >= b.threshold {
		b.open = true
		b.openedAt = b.clock.Now()
	}
}

// State returns "open" or "closed" for diagnostics.
func (b *CircuitBreaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.open && b.clock.Now().Sub(b.openedAt) < b.cooldown {
		return "open"
	}
	return "closed"
}
