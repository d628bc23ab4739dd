// Package debounce filters raw active-low input samples into stable
// logical states and press edges. Like the rest of the core it has no
// hardware or OS dependencies; time is always passed in.
package debounce

import "time"

// Mode selects the stabilization policy for a channel.
type Mode int

const (
	// EdgeConfirm arms on the raw transition to the active level,
	// then accepts the press once the quiet time has elapsed and the
	// line still reads active. Used for momentary push-buttons where
	// the edge is consumed.
	EdgeConfirm Mode = iota

	// SettleWindow accepts a new level once the raw value has been
	// unchanged for the quiet time, with no re-check. Used for toggle
	// switches where the level, not the edge, is consumed.
	SettleWindow
)

// DefaultQuiet is the stabilization window used when a channel is
// created with quiet <= 0.
const DefaultQuiet = 50 * time.Millisecond

// Channel debounces one physical input line. Inputs are active-low: a
// raw sample of false (line pulled to ground) means pressed/closed.
// Until the quiet window elapses the channel keeps reporting the
// previous stable state; there are no error paths.
type Channel struct {
	mode  Mode
	quiet time.Duration

	raw        bool // last raw sample (SettleWindow)
	stable     bool // current stable raw level, true = high/inactive
	lastChange time.Time

	armed   bool // EdgeConfirm: saw the active level, waiting to re-check
	armedAt time.Time
}

// New creates a channel with the given mode and quiet time. The
// channel reports the inactive (high) level until samples say
// otherwise.
func New(mode Mode, quiet time.Duration) *Channel {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	return &Channel{mode: mode, quiet: quiet, raw: true, stable: true}
}

// Sample feeds one raw reading. rawHigh is the electrical level; false
// means the button or switch is closed. It returns the debounced
// active state and whether a falling edge (press) just became stable.
func (c *Channel) Sample(rawHigh bool, now time.Time) (active, fell bool) {
	if c.mode == EdgeConfirm {
		return c.sampleEdge(rawHigh, now)
	}
	return c.sampleSettle(rawHigh, now)
}

// Active returns the current debounced state without feeding a sample.
func (c *Channel) Active() bool {
	return !c.stable
}

func (c *Channel) sampleEdge(rawHigh bool, now time.Time) (bool, bool) {
	if rawHigh {
		// Release is taken immediately; only the press is confirmed.
		c.armed = false
		c.stable = true
		return false, false
	}
	if !c.stable {
		// Still held down, edge already reported.
		return true, false
	}
	if !c.armed {
		c.armed = true
		c.armedAt = now
		return false, false
	}
	if now.Sub(c.armedAt) >= c.quiet {
		// The re-check: line is still active after the quiet time.
		c.armed = false
		c.stable = false
		return true, true
	}
	return false, false
}

func (c *Channel) sampleSettle(rawHigh bool, now time.Time) (bool, bool) {
	if rawHigh != c.raw {
		c.raw = rawHigh
		c.lastChange = now
	}
	if rawHigh != c.stable && now.Sub(c.lastChange) >= c.quiet {
		c.stable = rawHigh
		return !c.stable, !c.stable
	}
	return !c.stable, false
}
