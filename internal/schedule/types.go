// Package schedule holds the bell schedule and evaluates it once per
// control-loop tick. It is pure: no hardware, no storage, no OS. Time
// comes in as clock snapshots and the caller acts on what a tick
// returns.
package schedule

import (
	"errors"
	"fmt"
)

// Capacity and duration bounds. Values outside these are rejected at
// the mutation boundary, never clamped.
const (
	MaxPresets = 15
	MaxBells   = 15

	MinBellDurationMs     = 100
	MaxBellDurationMs     = 30000
	DefaultBellDurationMs = 3000
)

// NoActive marks "no preset selected".
const NoActive = -1

// Bell is a single scheduled ring time with its per-day fired flag.
// Duplicate times within a preset are legal; each duplicate carries
// its own flag and fires independently.
type Bell struct {
	Hour      int
	Minute    int
	Triggered bool // already rung today
}

// Preset is a named timetable of bells.
type Preset struct {
	Name  string
	Bells []Bell
}

// ValidationError reports a mutation rejected at the boundary.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ErrNotFound is returned when a preset or bell index does not exist.
var ErrNotFound = errors.New("no such index")
