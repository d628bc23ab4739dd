//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

const chipName = "gpiochip0"

// RealRelay drives the bell relay over one output line on actual
// hardware.
type RealRelay struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// NewRealRelay requests the relay pin as an output, initially off.
func NewRealRelay(pin int) (*RealRelay, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	line, err := chip.RequestLine(pin, gpiocdev.AsOutput(0))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request relay pin %d: %w", pin, err)
	}
	return &RealRelay{chip: chip, line: line}, nil
}

// Set drives the relay output.
func (r *RealRelay) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := r.line.SetValue(v); err != nil {
		return fmt.Errorf("set relay: %w", err)
	}
	return nil
}

// Pulse holds the relay on for d. Blocks the caller.
func (r *RealRelay) Pulse(d time.Duration) error {
	if err := r.Set(true); err != nil {
		return err
	}
	time.Sleep(d)
	return r.Set(false)
}

// Close forces the relay off and releases the line. The off write
// matters: a process exit must not leave the bell ringing.
func (r *RealRelay) Close() error {
	var errs []error
	if r.line != nil {
		if err := r.line.SetValue(0); err != nil {
			errs = append(errs, fmt.Errorf("clear relay: %w", err))
		}
		if err := r.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close relay line: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// RealInputs reads the three panel lines from actual hardware.
type RealInputs struct {
	chip      *gpiocdev.Chip
	manual    *gpiocdev.Line
	emergency *gpiocdev.Line
	display   *gpiocdev.Line
}

// NewRealInputs requests the panel pins as inputs with pull-ups; the
// buttons and the display switch short their line to ground when
// closed.
func NewRealInputs(pinManual, pinEmergency, pinDisplay int) (*RealInputs, error) {
	chip, err := gpiocdev.NewChip(chipName)
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	in := &RealInputs{chip: chip}

	request := func(pin int, name string) (*gpiocdev.Line, error) {
		line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
		if err != nil {
			return nil, fmt.Errorf("request %s pin %d: %w", name, pin, err)
		}
		return line, nil
	}

	if in.manual, err = request(pinManual, "manual"); err != nil {
		in.Close()
		return nil, err
	}
	if in.emergency, err = request(pinEmergency, "emergency"); err != nil {
		in.Close()
		return nil, err
	}
	if in.display, err = request(pinDisplay, "display"); err != nil {
		in.Close()
		return nil, err
	}
	return in, nil
}

// Read returns the raw levels of the three lines.
func (in *RealInputs) Read() (InputState, error) {
	var state InputState
	var err error
	if state.Manual, err = readLine(in.manual, "manual"); err != nil {
		return state, err
	}
	if state.Emergency, err = readLine(in.emergency, "emergency"); err != nil {
		return state, err
	}
	if state.Display, err = readLine(in.display, "display"); err != nil {
		return state, err
	}
	return state, nil
}

func readLine(line *gpiocdev.Line, name string) (bool, error) {
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read %s pin: %w", name, err)
	}
	return v != 0, nil
}

// Close releases the input lines.
func (in *RealInputs) Close() error {
	var errs []error
	for _, l := range []*gpiocdev.Line{in.manual, in.emergency, in.display} {
		if l == nil {
			continue
		}
		if err := l.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if in.chip != nil {
		if err := in.chip.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
