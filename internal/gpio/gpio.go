// Package gpio drives the bell relay and reads the panel inputs with
// hardware abstraction. The real implementation uses the Linux GPIO
// character device; fakes allow testing without hardware.
package gpio

import "time"

// Default pin assignments (BCM numbering).
const (
	DefaultPinRelay     = 18
	DefaultPinManual    = 23
	DefaultPinEmergency = 24
	DefaultPinDisplay   = 25
)

// Relay drives the bell output.
type Relay interface {
	// Set drives the relay on or off. Idempotent.
	Set(on bool) error

	// Pulse sets the relay on, holds for d, then sets it off. It
	// blocks the caller for the full duration, so it must never run
	// on the control loop; the loop schedules a deferred off instead.
	// Intended for one-shot modes like -test-ring.
	Pulse(d time.Duration) error

	// Close releases the output line, leaving the relay off.
	Close() error
}

// InputState is one raw reading of the three panel lines. Lines are
// active-low: false means the button or switch is closed.
type InputState struct {
	Manual    bool
	Emergency bool
	Display   bool
}

// Idle is the all-lines-high state: nothing pressed.
func Idle() InputState {
	return InputState{Manual: true, Emergency: true, Display: true}
}

// Inputs reads the raw panel lines.
type Inputs interface {
	Read() (InputState, error)

	// Close releases the input lines.
	Close() error
}
