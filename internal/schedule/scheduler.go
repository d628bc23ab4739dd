package schedule

import "github.com/tmcnab/schoolbell/internal/clock"

// Scheduler evaluates the store once per control-loop tick.
type Scheduler struct {
	clock clock.Source
	store *Store
}

// NewScheduler creates a scheduler over the given clock and store.
func NewScheduler(src clock.Source, store *Store) *Scheduler {
	return &Scheduler{clock: src, store: store}
}

// Result reports what one tick did. Rolled and Fired both require a
// persistence flush by the caller.
type Result struct {
	Skipped bool // clock unavailable, nothing evaluated
	Rolled  bool
	Fired   []Fired
	Now     clock.Snapshot
}

// Tick runs one scheduling pass: day rollover first, then
// exact-minute matching over the active preset. Rollover is evaluated
// before matching so a bell at midnight of a new day is still
// eligible in the same tick. A tick with an unavailable clock is a
// complete no-op; the scheduler recovers when the clock does.
func (s *Scheduler) Tick() Result {
	now, ok := s.clock.Now()
	if !ok {
		return Result{Skipped: true}
	}
	res := Result{Now: now}
	res.Rolled = s.store.Rollover(now.Day)
	res.Fired = s.store.MarkDue(now.Hour, now.Minute)
	return res
}
