package session

import (
	"testing"

	"dgca-prep-service/internal/domain"
)

func TestClockCountsDownAndExpiresOnce(t *testing.T) {
	var c Clock
	if err := c.Start(3); err != nil {
		t.Fatalf("start: %v", err)
	}

	for want := 2; want >= 1; want-- {
		remaining, expired := c.Tick()
		if expired {
			t.Fatalf("expired early at remaining=%d", remaining)
		}
		if remaining != want {
			t.Fatalf("expected remaining %d, got %d", want, remaining)
		}
	}

	remaining, expired := c.Tick()
	if !expired || remaining != 0 {
		t.Fatalf("expected expiry at zero, got remaining=%d expired=%v", remaining, expired)
	}

	// Further ticks are no-ops and never re-signal.
	remaining, expired = c.Tick()
	if expired || remaining != 0 {
		t.Fatalf("expected silent no-op after expiry, got remaining=%d expired=%v", remaining, expired)
	}
}

func TestClockRejectsNonPositiveBudget(t *testing.T) {
	var c Clock
	for _, budget := range []int{0, -5} {
		if err := c.Start(budget); err != domain.ErrInvalidConfiguration {
			t.Fatalf("budget %d: expected ErrInvalidConfiguration, got %v", budget, err)
		}
	}
}

func TestClockStopSuppressesExpiry(t *testing.T) {
	var c Clock
	if err := c.Start(2); err != nil {
		t.Fatalf("start: %v", err)
	}
	c.Stop()
	c.Stop() // idempotent

	if remaining, expired := c.Tick(); expired || remaining != 2 {
		t.Fatalf("expected stopped clock to hold at 2, got remaining=%d expired=%v", remaining, expired)
	}
}
