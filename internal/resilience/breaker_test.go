package resilience

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestBreakerOpensAfterMaxFailures(t *testing.T) {
	b := NewBreaker("enhance", 3, time.Minute)

	if got := b.State(); got != "closed" {
		t.Fatalf("initial state = %q, want closed", got)
	}

	fail := func() error { return errBoom }
	for i := 0; i < 3; i++ {
		if err := b.Execute(fail); !errors.Is(err, errBoom) {
			t.Fatalf("call %d: err = %v, want boom", i+1, err)
		}
	}

	if got := b.State(); got != "open" {
		t.Fatalf("state = %q, want open", got)
	}
	if err := b.Execute(fail); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("err = %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerHalfOpenAfterTimeout(t *testing.T) {
	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	b := NewBreaker("enhance", 1, 30*time.Second)
	b.now = func() time.Time { return clock }

	if err := b.Execute(func() error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open circuit should reject, got %v", err)
	}

	clock = clock.Add(31 * time.Second)

	// Half-open: one probe is allowed; success closes the circuit.
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if got := b.State(); got != "closed" {
		t.Fatalf("state after successful probe = %q, want closed", got)
	}
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("closed circuit should allow calls: %v", err)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	clock := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	b := NewBreaker("transcribe", 1, 30*time.Second)
	b.now = func() time.Time { return clock }

	_ = b.Execute(func() error { return errBoom })
	clock = clock.Add(31 * time.Second)

	if err := b.Execute(func() error { return errBoom }); !errors.Is(err, errBoom) {
		t.Fatalf("err = %v", err)
	}
	if got := b.State(); got != "open" {
		t.Fatalf("state after failed probe = %q, want open", got)
	}
	if err := b.Execute(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("failed probe should reopen, got %v", err)
	}
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b := NewBreaker("enhance", 2, time.Minute)

	_ = b.Execute(func() error { return errBoom })
	_ = b.Execute(func() error { return nil })
	_ = b.Execute(func() error { return errBoom })

	// One failure since the last success: still closed.
	if err := b.Execute(func() error { return nil }); err != nil {
		t.Fatalf("circuit should be closed: %v", err)
	}
}
