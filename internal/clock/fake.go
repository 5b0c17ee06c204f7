package clock

import "time"

// FakeClock is a manually advanced Clock for tests. Maintenance-window and
// credit-expiration assertions depend on a frozen "now", so it never ticks on
// its own.
type FakeClock struct {
	now time.Time
}

// NewFakeClock pins the clock at t, normalized to UTC.
func NewFakeClock(t time.Time) *FakeClock {
	return &FakeClock{now: t.UTC()}
}

func (c *FakeClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d. Negative durations move it back.
func (c *FakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
