package control

import "github.com/tmcnab/schoolbell/internal/schedule"

// Schedule mutation surface, driven by the HTTP layer. Each
// successful mutation flushes the store before returning; a flush
// failure is logged, not propagated, because the in-memory schedule
// stays authoritative.

func (l *Loop) mutate(op func() error) error {
	if err := op(); err != nil {
		return err
	}
	l.save()
	return nil
}

// AddPreset adds an empty preset.
func (l *Loop) AddPreset(name string) error {
	return l.mutate(func() error { return l.store.AddPreset(name) })
}

// DeletePreset removes a preset, fixing up the active selection.
func (l *Loop) DeletePreset(i int) error {
	return l.mutate(func() error { return l.store.DeletePreset(i) })
}

// AddBell adds a ring time to a preset.
func (l *Loop) AddBell(preset, hour, minute int) error {
	return l.mutate(func() error { return l.store.AddBell(preset, hour, minute) })
}

// DeleteBell removes a ring time from a preset.
func (l *Loop) DeleteBell(preset, bell int) error {
	return l.mutate(func() error { return l.store.DeleteBell(preset, bell) })
}

// SetActive selects the preset the scheduler evaluates.
func (l *Loop) SetActive(i int) error {
	return l.mutate(func() error { return l.store.SetActive(i) })
}

// SetBellDuration sets the ring length in milliseconds.
func (l *Loop) SetBellDuration(ms int) error {
	return l.mutate(func() error { return l.store.SetBellDuration(ms) })
}

// Snapshot returns a deep copy of the schedule for display.
func (l *Loop) Snapshot() schedule.Snapshot {
	return l.store.Snapshot()
}
