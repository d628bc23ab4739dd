package schedule

import (
	"fmt"
	"sync"
	"time"
)

// Store is the process-wide schedule state. HTTP handlers mutate it
// from their own goroutines while the control loop reads and marks
// bells, so every operation takes the single writer lock. The lock
// also keeps a trigger pass from interleaving with an edit.
type Store struct {
	mu sync.Mutex

	presets      []Preset
	active       int // index into presets, or NoActive
	durationMs   int
	lastResetDay int // day of month, 0 = no rollover seen yet
}

// NewStore returns an empty store with the default bell duration and
// no active preset.
func NewStore() *Store {
	return &Store{active: NoActive, durationMs: DefaultBellDurationMs}
}

// AddPreset appends an empty preset.
func (s *Store) AddPreset(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if len(s.presets) >= MaxPresets {
		return &ValidationError{Field: "presets", Reason: fmt.Sprintf("at most %d presets", MaxPresets)}
	}
	s.presets = append(s.presets, Preset{Name: name})
	return nil
}

// DeletePreset removes the preset at index i. The active selection
// keeps pointing at the same preset: deleting the active preset
// clears the selection, deleting an earlier preset shifts the index
// down, deleting a later one leaves it alone.
func (s *Store) DeletePreset(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i < 0 || i >= len(s.presets) {
		return ErrNotFound
	}
	s.presets = append(s.presets[:i], s.presets[i+1:]...)
	switch {
	case s.active == i:
		s.active = NoActive
	case s.active > i:
		s.active--
	}
	return nil
}

// AddBell adds a ring time to preset p. Duplicate times are legal.
func (s *Store) AddBell(p, hour, minute int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p < 0 || p >= len(s.presets) {
		return ErrNotFound
	}
	if hour < 0 || hour > 23 {
		return &ValidationError{Field: "hour", Reason: "must be 0..23"}
	}
	if minute < 0 || minute > 59 {
		return &ValidationError{Field: "minute", Reason: "must be 0..59"}
	}
	if len(s.presets[p].Bells) >= MaxBells {
		return &ValidationError{Field: "bells", Reason: fmt.Sprintf("at most %d bells per preset", MaxBells)}
	}
	s.presets[p].Bells = append(s.presets[p].Bells, Bell{Hour: hour, Minute: minute})
	return nil
}

// DeleteBell removes bell b from preset p.
func (s *Store) DeleteBell(p, b int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p < 0 || p >= len(s.presets) {
		return ErrNotFound
	}
	bells := s.presets[p].Bells
	if b < 0 || b >= len(bells) {
		return ErrNotFound
	}
	s.presets[p].Bells = append(bells[:b], bells[b+1:]...)
	return nil
}

// SetActive selects the preset whose bells the scheduler evaluates.
// NoActive clears the selection.
func (s *Store) SetActive(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i == NoActive {
		s.active = NoActive
		return nil
	}
	if i < 0 || i >= len(s.presets) {
		return ErrNotFound
	}
	s.active = i
	return nil
}

// SetBellDuration sets the ring length in milliseconds.
func (s *Store) SetBellDuration(ms int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ms < MinBellDurationMs || ms > MaxBellDurationMs {
		return &ValidationError{
			Field:  "bellDuration",
			Reason: fmt.Sprintf("must be %d..%d ms", MinBellDurationMs, MaxBellDurationMs),
		}
	}
	s.durationMs = ms
	return nil
}

// BellDuration returns the configured ring length.
func (s *Store) BellDuration() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Duration(s.durationMs) * time.Millisecond
}

// PresetCount returns the number of presets.
func (s *Store) PresetCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.presets)
}

// ActiveInfo returns the active preset's name and bell count, or
// ok=false when no preset is selected.
func (s *Store) ActiveInfo() (name string, bells int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == NoActive {
		return "", 0, false
	}
	p := s.presets[s.active]
	return p.Name, len(p.Bells), true
}

// Rollover records a new day of month, clearing the fired flag on
// every bell in every preset, active or not. Returns true if the day
// changed.
func (s *Store) Rollover(day int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if day == s.lastResetDay {
		return false
	}
	s.lastResetDay = day
	for i := range s.presets {
		for j := range s.presets[i].Bells {
			s.presets[i].Bells[j].Triggered = false
		}
	}
	return true
}

// Fired describes one bell that just matched.
type Fired struct {
	Preset string
	Hour   int
	Minute int
}

// MarkDue marks every untriggered bell in the active preset whose
// time equals the given hour and minute, and returns them. Matching
// is exact minute equality: a minute that passes unobserved is missed
// for the day, with no catch-up.
func (s *Store) MarkDue(hour, minute int) []Fired {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == NoActive {
		return nil
	}
	p := &s.presets[s.active]
	var fired []Fired
	for j := range p.Bells {
		b := &p.Bells[j]
		if b.Triggered || b.Hour != hour || b.Minute != minute {
			continue
		}
		b.Triggered = true
		fired = append(fired, Fired{Preset: p.Name, Hour: b.Hour, Minute: b.Minute})
	}
	return fired
}

// NextBell returns the earliest untriggered bell in the active preset
// strictly after the given minute of day, or ok=false when there is
// no such bell.
func (s *Store) NextBell(minuteOfDay int) (hour, minute int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == NoActive {
		return 0, 0, false
	}
	best := -1
	for _, b := range s.presets[s.active].Bells {
		if b.Triggered {
			continue
		}
		m := b.Hour*60 + b.Minute
		if m <= minuteOfDay {
			continue
		}
		if best == -1 || m < best {
			best = m
		}
	}
	if best == -1 {
		return 0, 0, false
	}
	return best / 60, best % 60, true
}

// Snapshot is a deep copy of the store contents, safe to use after
// the lock is released.
type Snapshot struct {
	Presets      []Preset
	Active       int
	DurationMs   int
	LastResetDay int
}

// Snapshot returns a deep copy of the store contents.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Preset, len(s.presets))
	for i, p := range s.presets {
		cp[i] = Preset{Name: p.Name, Bells: append([]Bell(nil), p.Bells...)}
	}
	return Snapshot{
		Presets:      cp,
		Active:       s.active,
		DurationMs:   s.durationMs,
		LastResetDay: s.lastResetDay,
	}
}

// Restore replaces the store contents wholesale. Used once at startup
// with the validated persisted document; triggered flags come back
// exactly as saved.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presets = make([]Preset, len(snap.Presets))
	for i, p := range snap.Presets {
		s.presets[i] = Preset{Name: p.Name, Bells: append([]Bell(nil), p.Bells...)}
	}
	s.active = snap.Active
	s.durationMs = snap.DurationMs
	s.lastResetDay = snap.LastResetDay
}
