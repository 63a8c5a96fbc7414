// Package resilience guards calls to the enhancement and transcription
// services with a consecutive-failure circuit breaker.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

type state int

const (
	stateClosed state = iota
	stateOpen
	stateHalfOpen
)

func (s state) String() string {
	switch s {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// Breaker opens after a run of consecutive failures and rejects calls until a
// cool-off elapses, then admits a single probe. The name identifies the
// guarded service in logs, where an open circuit explains the rule-based
// fallbacks that follow.
type Breaker struct {
	name        string
	maxFailures int
	timeout     time.Duration

	mu       sync.Mutex
	state    state
	failures int
	openedAt time.Time
	now      func() time.Time // for testing
}

// NewBreaker creates a circuit breaker for the named service. It opens after
// maxFailures consecutive failures and stays open for timeout before
// admitting a probe call.
func NewBreaker(name string, maxFailures int, timeout time.Duration) *Breaker {
	return &Breaker{
		name:        name,
		maxFailures: maxFailures,
		timeout:     timeout,
		now:         time.Now,
	}
}

// Execute runs fn unless the circuit is open, in which case it returns
// ErrCircuitOpen without calling fn.
func (b *Breaker) Execute(fn func() error) error {
	if !b.admit() {
		return ErrCircuitOpen
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(err)
	return err
}

// State reports the current circuit state for health reporting.
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state.String()
}

func (b *Breaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateOpen {
		if b.now().Sub(b.openedAt) < b.timeout {
			return false
		}
		b.state = stateHalfOpen
		slog.Info("circuit half-open, probing", "breaker", b.name)
	}
	return true
}

// record updates the circuit after one call. Must be called with b.mu held.
func (b *Breaker) record(err error) {
	if err == nil {
		if b.state != stateClosed {
			slog.Info("circuit closed", "breaker", b.name)
		}
		b.failures = 0
		b.state = stateClosed
		return
	}

	b.failures++
	if b.state == stateHalfOpen || b.failures >= b.maxFailures {
		if b.state != stateOpen {
			slog.Warn("circuit opened",
				"breaker", b.name,
				"failures", b.failures,
				"cooloff", b.timeout,
			)
		}
		b.state = stateOpen
		b.openedAt = b.now()
	}
}
