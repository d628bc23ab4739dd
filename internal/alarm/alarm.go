// Package alarm implements the emergency bell pattern: five long
// rings separated by short gaps, always run to completion once
// started. State is held in a struct and time is passed in, so the
// machine is tick-rate independent.
package alarm

import "time"

// Phase timing. Even phases 0..8 drive the relay on, odd phases 1..7
// drive it off; phase 9 is terminal.
const (
	ringPhase = 5 * time.Second
	gapPhase  = 1 * time.Second
	numPhases = 9
)

// Controller is the emergency session state machine. The zero value
// is an idle controller. Sessions are transient: they are never
// persisted, and a restart mid-session silently drops the alarm.
type Controller struct {
	active     bool
	phase      int
	phaseStart time.Time
}

// Active reports whether an emergency session is running.
func (c *Controller) Active() bool {
	return c.active
}

// Phase returns the current phase index, meaningful only while active.
func (c *Controller) Phase() int {
	return c.phase
}

// Activate starts a session at phase 0 and reports whether it did.
// It is a no-op while a session is already running. There is no
// cancel: a session always plays the full pattern.
func (c *Controller) Activate(now time.Time) bool {
	if c.active {
		return false
	}
	c.active = true
	c.phase = 0
	c.phaseStart = now
	return true
}

// Step evaluates the session once. It returns the relay level to
// drive this tick and whether the session just ended. At most one
// phase advances per call, so the pattern always walks all nine
// transitions no matter how coarse the tick rate is.
func (c *Controller) Step(now time.Time) (relayOn, done bool) {
	if !c.active {
		return false, false
	}
	if now.Sub(c.phaseStart) >= phaseDuration(c.phase) {
		c.phase++
		c.phaseStart = now
		if c.phase >= numPhases {
			c.active = false
			return false, true
		}
	}
	return c.phase%2 == 0, false
}

func phaseDuration(phase int) time.Duration {
	if phase%2 == 0 {
		return ringPhase
	}
	return gapPhase
}
