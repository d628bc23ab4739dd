package alarm

import (
	"testing"
	"time"
)

func TestIdleController(t *testing.T) {
	var c Controller
	if c.Active() {
		t.Error("zero value should be idle")
	}
	on, done := c.Step(time.Now())
	if on || done {
		t.Errorf("idle step: got on=%v done=%v", on, done)
	}
}

func TestActivate(t *testing.T) {
	var c Controller
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if !c.Activate(now) {
		t.Fatal("activation on idle controller should succeed")
	}
	if !c.Active() {
		t.Error("controller should be active after Activate")
	}
	if c.Phase() != 0 {
		t.Errorf("phase: got %d, want 0", c.Phase())
	}

	// Re-activation during a session is a no-op.
	if c.Activate(now.Add(time.Second)) {
		t.Error("activation during a session must be rejected")
	}
}

// TestPatternTiming walks the documented pattern: ON 0-5s, OFF 5-6s,
// ON 6-11s, OFF 11-12s, ... terminal at 29s.
func TestPatternTiming(t *testing.T) {
	var c Controller
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.Activate(start)

	checks := []struct {
		atMs   int
		wantOn bool
	}{
		{0, true},
		{2500, true},
		{4900, true},
		{5000, false}, // phase 1 begins exactly at the boundary
		{5500, false},
		{6000, true},
		{10900, true},
		{11000, false},
		{12000, true},
		{17000, false},
		{18000, true},
		{23000, false},
		{24000, true},
		{28900, true},
	}

	for _, chk := range checks {
		on, done := c.Step(start.Add(time.Duration(chk.atMs) * time.Millisecond))
		if done {
			t.Fatalf("t=%dms: session ended early", chk.atMs)
		}
		if on != chk.wantOn {
			t.Errorf("t=%dms: relay on=%v, want %v (phase %d)", chk.atMs, on, chk.wantOn, c.Phase())
		}
	}

	on, done := c.Step(start.Add(29 * time.Second))
	if !done {
		t.Fatal("session should end at 29s")
	}
	if on {
		t.Error("relay must be off at terminal phase")
	}
	if c.Active() {
		t.Error("controller should be idle after terminal phase")
	}
}

// TestCoarseTicks drives the session with ten-second gaps between
// evaluations. Phases advance one per tick, so the pattern still
// walks all nine transitions and ends relay-off.
func TestCoarseTicks(t *testing.T) {
	var c Controller
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.Activate(start)

	transitions := 0
	lastPhase := c.Phase()
	var done bool
	var on bool
	for i := 1; !done; i++ {
		if i > 20 {
			t.Fatal("session did not terminate")
		}
		on, done = c.Step(start.Add(time.Duration(i) * 10 * time.Second))
		if c.Phase() != lastPhase {
			transitions++
			lastPhase = c.Phase()
		}
	}
	if transitions != numPhases {
		t.Errorf("transitions: got %d, want %d", transitions, numPhases)
	}
	if on {
		t.Error("relay must be off when the session ends")
	}
	if c.Active() {
		t.Error("controller should be idle after the session")
	}
}

func TestReusableAfterSession(t *testing.T) {
	var c Controller
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.Activate(start)

	for i := 1; ; i++ {
		if _, done := c.Step(start.Add(time.Duration(i) * 10 * time.Second)); done {
			break
		}
	}

	// A fresh session starts from phase 0.
	later := start.Add(time.Hour)
	if !c.Activate(later) {
		t.Fatal("controller should accept a new session after terminal")
	}
	on, done := c.Step(later.Add(time.Second))
	if !on || done {
		t.Errorf("new session first step: got on=%v done=%v", on, done)
	}
	if c.Phase() != 0 {
		t.Errorf("new session phase: got %d, want 0", c.Phase())
	}
}
