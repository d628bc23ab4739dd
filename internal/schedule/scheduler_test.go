package schedule

import (
	"testing"

	"github.com/tmcnab/schoolbell/internal/clock"
)

func weekdayStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	if err := s.AddPreset("Weekday"); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBell(0, 8, 0); err != nil {
		t.Fatal(err)
	}
	if err := s.AddBell(0, 12, 30); err != nil {
		t.Fatal(err)
	}
	if err := s.SetActive(0); err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTickFiresExactlyOnce(t *testing.T) {
	store := weekdayStore(t)
	fc := clock.NewFake(8, 0)
	sched := NewScheduler(fc, store)

	res := sched.Tick()
	if res.Skipped {
		t.Fatal("tick should not be skipped")
	}
	if !res.Rolled {
		t.Error("first tick should roll over to the current day")
	}
	if len(res.Fired) != 1 {
		t.Fatalf("fired: got %d, want 1", len(res.Fired))
	}
	if f := res.Fired[0]; f.Preset != "Weekday" || f.Hour != 8 || f.Minute != 0 {
		t.Errorf("fired: %+v", f)
	}

	// Same minute again: nothing fires.
	res = sched.Tick()
	if res.Rolled || len(res.Fired) != 0 {
		t.Errorf("second tick: rolled=%v fired=%d, want no action", res.Rolled, len(res.Fired))
	}

	// The schedule advances to the second bell.
	fc.Set(12, 30)
	res = sched.Tick()
	if len(res.Fired) != 1 || res.Fired[0].Hour != 12 || res.Fired[0].Minute != 30 {
		t.Fatalf("12:30 tick: %+v", res.Fired)
	}
}

func TestTickMinuteMissedIsSkipped(t *testing.T) {
	store := weekdayStore(t)
	fc := clock.NewFake(7, 59)
	sched := NewScheduler(fc, store)
	sched.Tick()

	// The clock jumps straight past the bell minute: no catch-up.
	fc.Set(8, 1)
	res := sched.Tick()
	if len(res.Fired) != 0 {
		t.Errorf("missed minute fired %d bells, want 0", len(res.Fired))
	}
	snap := store.Snapshot()
	if snap.Presets[0].Bells[0].Triggered {
		t.Error("missed bell must stay untriggered")
	}
}

func TestTickClockUnavailable(t *testing.T) {
	store := weekdayStore(t)
	fc := clock.NewFake(8, 0)
	fc.Unavailable = true
	sched := NewScheduler(fc, store)

	res := sched.Tick()
	if !res.Skipped {
		t.Fatal("tick with unavailable clock must be skipped")
	}
	if res.Rolled || len(res.Fired) != 0 {
		t.Error("skipped tick must not roll over or fire")
	}

	// The clock recovers within the bell minute: the bell fires.
	fc.Unavailable = false
	res = sched.Tick()
	if res.Skipped {
		t.Fatal("tick should run once the clock recovers")
	}
	if len(res.Fired) != 1 {
		t.Errorf("fired after recovery: got %d, want 1", len(res.Fired))
	}
}

func TestDayRolloverBeforeMatching(t *testing.T) {
	store := NewStore()
	store.AddPreset("p")
	store.AddBell(0, 0, 0) // midnight bell
	store.SetActive(0)

	fc := clock.NewFake(23, 59)
	sched := NewScheduler(fc, store)
	sched.Tick()

	fc.Set(0, 0)
	fc.SetDay(2)

	// Rollover and match happen in the same tick: the midnight bell
	// of the new day is eligible immediately.
	res := sched.Tick()
	if !res.Rolled {
		t.Fatal("expected day rollover")
	}
	if len(res.Fired) != 1 {
		t.Errorf("midnight bell: got %d fired, want 1", len(res.Fired))
	}
}

func TestTickNoActivePreset(t *testing.T) {
	store := NewStore()
	store.AddPreset("p")
	store.AddBell(0, 8, 0)

	fc := clock.NewFake(8, 0)
	sched := NewScheduler(fc, store)

	res := sched.Tick()
	if len(res.Fired) != 0 {
		t.Errorf("no active preset fired %d bells, want 0", len(res.Fired))
	}
}
