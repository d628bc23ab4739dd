// Package clock supplies the date/time the scheduler runs against.
// The real implementation wraps the operating system clock. The fake
// lets tests script arbitrary times, including clock failure.
package clock

import (
	"fmt"
	"time"
)

// Snapshot is a single reading of the wall clock.
type Snapshot struct {
	Hour   int
	Minute int
	Second int
	Day    int // day of month
	Month  int
	Year   int
}

// MinuteOfDay returns hour*60 + minute.
func (s Snapshot) MinuteOfDay() int {
	return s.Hour*60 + s.Minute
}

// HHMM formats the snapshot time as "HH:MM".
func (s Snapshot) HHMM() string {
	return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute)
}

// HHMMSS formats the snapshot time as "HH:MM:SS".
func (s Snapshot) HHMMSS() string {
	return fmt.Sprintf("%02d:%02d:%02d", s.Hour, s.Minute, s.Second)
}

// Date formats the snapshot date as "YYYY-MM-DD".
func (s Snapshot) Date() string {
	return fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month, s.Day)
}

// Source supplies the current date and time.
type Source interface {
	// Now returns the current time, or ok=false if the clock is
	// unavailable. Clock failure is transient: callers skip the tick
	// and recover when the clock does.
	Now() (Snapshot, bool)
}

// System reads the operating system clock. It is never unavailable.
type System struct{}

// Now returns the current system time.
func (System) Now() (Snapshot, bool) {
	return FromTime(time.Now()), true
}

// FromTime converts a time.Time to a Snapshot.
func FromTime(t time.Time) Snapshot {
	return Snapshot{
		Hour:   t.Hour(),
		Minute: t.Minute(),
		Second: t.Second(),
		Day:    t.Day(),
		Month:  int(t.Month()),
		Year:   t.Year(),
	}
}
