// Package gameclock provides the monotonic time source injected into the
// simulation core. All gameplay timers (fire cooldowns, projectile lifetimes,
// hit-flash and trail-fade durations) read from a Clock rather than calling
// time.Now directly, so deterministic tests can substitute a fake clock.
package gameclock

import "time"

// Clock is a monotonic time source.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock reads the system wall clock.
type RealClock struct{}

// Now implements Clock.
func (RealClock) Now() time.Time {
	return time.Now()
}

// NewRealClock returns a Clock backed by the system wall clock.
func NewRealClock() Clock {
	return RealClock{}
}

// FakeClock is a manually-advanced Clock for deterministic tests.
// It is not safe for concurrent use; the simulation core is single-threaded
// per tick, which is the only context tests drive it from.
type FakeClock struct {
	current time.Time
}

// NewFakeClock creates a FakeClock starting at the given instant.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

// Now implements Clock.
func (c *FakeClock) Now() time.Time {
	return c.current
}

// Advance moves the fake clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

// Set jumps the fake clock to the given instant.
func (c *FakeClock) Set(t time.Time) {
	c.current = t
}
