// Package status provides a thread-safe status tracker for the bell
// controller daemon. It is read by the HTTP handlers and by the MQTT
// heartbeat.
package status

import (
	"sync"
	"time"

	"github.com/tmcnab/schoolbell/internal/clock"
)

// Config contains daemon configuration for display.
type Config struct {
	PollMs      int64
	DebounceMs  int64
	HeartbeatMs int64
	Broker      string
	HTTPAddr    string
	StateFile   string
}

// RingCounts tracks rings since startup by origin. Emergency counts
// sessions, not individual rings within the pattern.
type RingCounts struct {
	Scheduled int
	Manual    int
	Emergency int
}

// NextBell identifies the next unfired bell of the active preset.
type NextBell struct {
	Hour   int
	Minute int
	OK     bool
}

// TickState is the per-tick view the control loop pushes into the
// tracker on its throttled refresh.
type TickState struct {
	Clock           clock.Snapshot
	ClockOK         bool
	EmergencyActive bool
	EmergencyPhase  int
	DisplayMode     bool
	RelayOn         bool
	ActivePreset    string // "" when none
	BellCount       int    // bells in the active preset
	PresetCount     int
	Next            NextBell
	BellDurationMs  int
	Counts          RingCounts
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	TickState
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update replaces the per-tick fields. Called from the control loop's
// throttled status refresh.
func (t *Tracker) Update(ts TickState) {
	t.mu.Lock()
	t.snap.TickState = ts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
