package session

import (
	"dgca-prep-service/internal/domain"
)

// Clock is the countdown for one practice session. It does not schedule
// anything itself: the owner calls Tick once per second and reacts to the
// expiry signal. Expiry is reported exactly once per session lifetime.
//
// Clock is not safe for concurrent use; the owning Session serializes
// access under its own mutex.
type Clock struct {
	remaining int
	running   bool
	expired   bool
}

// Start begins counting down from budgetSeconds.
func (c *Clock) Start(budgetSeconds int) error {
	if budgetSeconds <= 0 {
		return domain.ErrInvalidConfiguration
	}
	c.remaining = budgetSeconds
	c.running = true
	c.expired = false
	return nil
}

// Tick consumes one second of the budget and reports the remaining balance.
// The second return value is true on the single tick that exhausts the
// budget; after that the clock is stopped and further ticks are no-ops.
func (c *Clock) Tick() (int, bool) {
	if !c.running {
		return c.remaining, false
	}
	c.remaining--
	if c.remaining <= 0 {
		c.remaining = 0
		c.running = false
		if !c.expired {
			c.expired = true
			return 0, true
		}
	}
	return c.remaining, false
}

// Stop halts ticking without signalling expiry. Idempotent.
func (c *Clock) Stop() {
	c.running = false
}

// Remaining returns the seconds left on the budget.
func (c *Clock) Remaining() int {
	return c.remaining
}
