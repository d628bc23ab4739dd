package debounce

import (
	"testing"
	"time"
)

func TestEdgeConfirmPress(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(EdgeConfirm, 50*time.Millisecond)

	// Idle line, nothing happens.
	active, fell := c.Sample(true, now)
	if active || fell {
		t.Errorf("idle line: got active=%v fell=%v", active, fell)
	}

	// Press arms the channel but is not accepted yet.
	active, fell = c.Sample(false, now.Add(100*time.Millisecond))
	if active || fell {
		t.Errorf("arming sample: got active=%v fell=%v", active, fell)
	}

	// Before the quiet time the press is still pending.
	active, fell = c.Sample(false, now.Add(140*time.Millisecond))
	if active || fell {
		t.Errorf("before quiet time: got active=%v fell=%v", active, fell)
	}

	// The re-check: at the quiet boundary the press is accepted.
	active, fell = c.Sample(false, now.Add(150*time.Millisecond))
	if !active || !fell {
		t.Errorf("after quiet time: got active=%v fell=%v, want true/true", active, fell)
	}

	// Holding the button reports the level but no new edge.
	active, fell = c.Sample(false, now.Add(300*time.Millisecond))
	if !active {
		t.Error("held button should stay active")
	}
	if fell {
		t.Error("held button must not report a second edge")
	}
}

func TestEdgeConfirmBounceRejected(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(EdgeConfirm, 50*time.Millisecond)

	c.Sample(true, now)
	c.Sample(false, now.Add(10*time.Millisecond)) // arm

	// Line bounces back high before the re-check: press discarded.
	active, fell := c.Sample(true, now.Add(30*time.Millisecond))
	if active || fell {
		t.Errorf("bounce: got active=%v fell=%v", active, fell)
	}

	// Even after the original quiet window would have elapsed.
	active, fell = c.Sample(true, now.Add(100*time.Millisecond))
	if active || fell {
		t.Errorf("after bounce: got active=%v fell=%v", active, fell)
	}
}

func TestEdgeConfirmRepressAfterRelease(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(EdgeConfirm, 50*time.Millisecond)

	c.Sample(false, now)
	if _, fell := c.Sample(false, now.Add(50*time.Millisecond)); !fell {
		t.Fatal("first press not accepted")
	}

	// Release, then press again: a fresh edge after a fresh quiet time.
	c.Sample(true, now.Add(200*time.Millisecond))
	c.Sample(false, now.Add(300*time.Millisecond))
	if _, fell := c.Sample(false, now.Add(320*time.Millisecond)); fell {
		t.Error("second press accepted too early")
	}
	if _, fell := c.Sample(false, now.Add(350*time.Millisecond)); !fell {
		t.Error("second press not accepted after quiet time")
	}
}

func TestSettleWindowTracksLevel(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(SettleWindow, 50*time.Millisecond)

	// Switch flips to active; level held until the window elapses.
	active, _ := c.Sample(false, now)
	if active {
		t.Error("level must not change before the settle window")
	}
	active, _ = c.Sample(false, now.Add(40*time.Millisecond))
	if active {
		t.Error("level must not change before the settle window")
	}
	active, fell := c.Sample(false, now.Add(50*time.Millisecond))
	if !active {
		t.Error("level should be active after the settle window")
	}
	if !fell {
		t.Error("expected the falling transition to be reported once")
	}

	// Stable thereafter, no repeated transition.
	active, fell = c.Sample(false, now.Add(200*time.Millisecond))
	if !active || fell {
		t.Errorf("stable level: got active=%v fell=%v", active, fell)
	}
}

func TestSettleWindowChatterRestartsWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(SettleWindow, 50*time.Millisecond)

	c.Sample(false, now)
	c.Sample(true, now.Add(20*time.Millisecond)) // chatter
	c.Sample(false, now.Add(30*time.Millisecond))

	// 50ms after the first flip, but only 20ms after the last change.
	active, _ := c.Sample(false, now.Add(50*time.Millisecond))
	if active {
		t.Error("chatter must restart the settle window")
	}

	active, _ = c.Sample(false, now.Add(80*time.Millisecond))
	if !active {
		t.Error("level should settle 50ms after the last change")
	}
}

func TestSettleWindowBackToInactive(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c := New(SettleWindow, 50*time.Millisecond)

	c.Sample(false, now)
	c.Sample(false, now.Add(50*time.Millisecond))
	if !c.Active() {
		t.Fatal("switch not active")
	}

	c.Sample(true, now.Add(100*time.Millisecond))
	if !c.Active() {
		t.Error("level must hold until the window elapses")
	}
	active, fell := c.Sample(true, now.Add(150*time.Millisecond))
	if active {
		t.Error("level should be inactive after the settle window")
	}
	if fell {
		t.Error("rising transition must not report a falling edge")
	}
}

func TestDefaultQuietApplied(t *testing.T) {
	c := New(EdgeConfirm, 0)
	if c.quiet != DefaultQuiet {
		t.Errorf("quiet: got %v, want %v", c.quiet, DefaultQuiet)
	}
}
