package clock

// Fake is a scriptable clock source for tests.
type Fake struct {
	// Snap is the snapshot returned by Now.
	Snap Snapshot

	// Unavailable, if true, makes Now report clock failure.
	Unavailable bool
}

// NewFake creates a Fake positioned at the given time on day 1.
func NewFake(hour, minute int) *Fake {
	return &Fake{Snap: Snapshot{Hour: hour, Minute: minute, Day: 1, Month: 1, Year: 2026}}
}

// Now returns the scripted snapshot.
func (f *Fake) Now() (Snapshot, bool) {
	if f.Unavailable {
		return Snapshot{}, false
	}
	return f.Snap, true
}

// Set moves the fake clock to the given time of day.
func (f *Fake) Set(hour, minute int) {
	f.Snap.Hour = hour
	f.Snap.Minute = minute
	f.Snap.Second = 0
}

// SetDay moves the fake clock to the given day of month.
func (f *Fake) SetDay(day int) {
	f.Snap.Day = day
}
