package gpio

import (
	"errors"
	"time"
)

// FakeRelay records every level transition for test assertions.
type FakeRelay struct {
	// On is the current relay level.
	On bool

	// Transitions records each Set that changed the level.
	Transitions []bool

	// Sets counts all Set calls, including idempotent ones.
	Sets int

	// Pulses records the durations passed to Pulse.
	Pulses []time.Duration

	// SetError, if set, will be returned by Set and Pulse.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeRelay creates a FakeRelay in the off state.
func NewFakeRelay() *FakeRelay {
	return &FakeRelay{}
}

// Set records the requested level.
func (f *FakeRelay) Set(on bool) error {
	if f.SetError != nil {
		return f.SetError
	}
	f.Sets++
	if on != f.On {
		f.On = on
		f.Transitions = append(f.Transitions, on)
	}
	return nil
}

// Pulse records the duration and the on/off transition pair. It does
// not sleep.
func (f *FakeRelay) Pulse(d time.Duration) error {
	if err := f.Set(true); err != nil {
		return err
	}
	f.Pulses = append(f.Pulses, d)
	return f.Set(false)
}

// Close marks the relay as closed.
func (f *FakeRelay) Close() error {
	f.Closed = true
	return nil
}

// FakeInputs returns scripted panel samples. When the script runs out
// the last sample repeats, mirroring a held input.
type FakeInputs struct {
	// Samples contains the scripted readings; each Read consumes one.
	Samples []InputState

	// index tracks the current position in Samples.
	index int

	// ReadError, if set, will be returned by Read.
	ReadError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeInputs creates a FakeInputs with the given samples.
func NewFakeInputs(samples []InputState) *FakeInputs {
	return &FakeInputs{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeInputs) Read() (InputState, error) {
	if f.ReadError != nil {
		return InputState{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return InputState{}, errors.New("no samples configured")
	}
	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Close marks the inputs as closed.
func (f *FakeInputs) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the script.
func (f *FakeInputs) Reset() {
	f.index = 0
	f.Closed = false
}
