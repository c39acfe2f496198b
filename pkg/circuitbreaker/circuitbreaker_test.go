package circuitbreaker

import (
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func fail() (interface{}, error)    { return nil, errBoom }
func succeed() (interface{}, error) { return "ok", nil }

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	cb := New(3, 1, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := cb.Execute(fail); !errors.Is(err, errBoom) {
			t.Fatalf("Execute() error = %v, want %v", err, errBoom)
		}
	}
	if cb.State() != Open {
		t.Fatalf("Expected Open after 3 failures, got %v", cb.State())
	}
	if _, err := cb.Execute(succeed); !errors.Is(err, ErrCircuitOpen) {
		t.Errorf("Expected ErrCircuitOpen while open, got %v", err)
	}
}

func TestBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := New(2, 1, time.Minute)

	cb.Execute(fail)
	cb.Execute(succeed)
	cb.Execute(fail)
	if cb.State() != Closed {
		t.Errorf("Expected Closed, non-consecutive failures must not trip the circuit")
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	cb := New(1, 2, 10*time.Millisecond)

	cb.Execute(fail)
	if cb.State() != Open {
		t.Fatalf("Expected Open, got %v", cb.State())
	}

	time.Sleep(20 * time.Millisecond)

	if _, err := cb.Execute(succeed); err != nil {
		t.Fatalf("Expected a trial request to pass, got %v", err)
	}
	if cb.State() != HalfOpen {
		t.Fatalf("Expected Half-Open after one trial success, got %v", cb.State())
	}
	if _, err := cb.Execute(succeed); err != nil {
		t.Fatalf("Expected a second trial request to pass, got %v", err)
	}
	if cb.State() != Closed {
		t.Errorf("Expected Closed after reaching the success threshold, got %v", cb.State())
	}
}

func TestBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb := New(1, 2, 10*time.Millisecond)

	cb.Execute(fail)
	time.Sleep(20 * time.Millisecond)

	cb.Execute(fail)
	if cb.State() != Open {
		t.Errorf("Expected a half-open failure to re-open the circuit, got %v", cb.State())
	}
}
