//go:build !linux

package gpio

import (
	"errors"
	"time"
)

var errUnsupported = errors.New("gpio: not supported on this platform (requires Linux)")

// RealRelay is not available on non-Linux platforms.
type RealRelay struct{}

// NewRealRelay returns an error on non-Linux platforms.
func NewRealRelay(pin int) (*RealRelay, error) {
	return nil, errUnsupported
}

// Set is not implemented on non-Linux platforms.
func (r *RealRelay) Set(on bool) error { return errUnsupported }

// Pulse is not implemented on non-Linux platforms.
func (r *RealRelay) Pulse(d time.Duration) error { return errUnsupported }

// Close is not implemented on non-Linux platforms.
func (r *RealRelay) Close() error { return nil }

// RealInputs is not available on non-Linux platforms.
type RealInputs struct{}

// NewRealInputs returns an error on non-Linux platforms.
func NewRealInputs(pinManual, pinEmergency, pinDisplay int) (*RealInputs, error) {
	return nil, errUnsupported
}

// Read is not implemented on non-Linux platforms.
func (in *RealInputs) Read() (InputState, error) { return InputState{}, errUnsupported }

// Close is not implemented on non-Linux platforms.
func (in *RealInputs) Close() error { return nil }
