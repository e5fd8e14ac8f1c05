package engine

import (
	"time"

	"github.com/vovakirdan/tui-pipes/internal/core"
)

// Tick rate bounds, in ticks per second.
const (
	MinTickRate     = 1
	MaxTickRate     = 240
	DefaultTickRate = 24
)

// Clock holds the pacing state of the animation. It does not sleep;
// backends schedule ticks from Interval.
type Clock struct {
	rate    int
	paused  bool
	stopped bool
}

// NewClock creates a running clock. The rate is clamped to the valid range.
func NewClock(rate int) *Clock {
	return &Clock{rate: core.Clamp(rate, MinTickRate, MaxTickRate)}
}

// Rate returns the ticks per second.
func (c *Clock) Rate() int {
	return c.rate
}

// Interval returns the time between two ticks.
func (c *Clock) Interval() time.Duration {
	return time.Second / time.Duration(c.rate)
}

// Adjust changes the rate by delta and returns the clamped result.
func (c *Clock) Adjust(delta int) int {
	c.rate = core.Clamp(c.rate+delta, MinTickRate, MaxTickRate)
	return c.rate
}

// TogglePause suspends or resumes ticking and returns the new state.
func (c *Clock) TogglePause() bool {
	c.paused = !c.paused
	return c.paused
}

// Paused reports whether ticks are suspended.
func (c *Clock) Paused() bool {
	return c.paused
}

// Stop ends the animation. A stopped clock never resumes.
func (c *Clock) Stop() {
	c.stopped = true
}

// Stopped reports whether Stop was called.
func (c *Clock) Stopped() bool {
	return c.stopped
}
