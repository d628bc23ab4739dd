package status

import (
	"encoding/json"
	"fmt"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event          string        `json:"event,omitempty"`
	Reason         string        `json:"reason,omitempty"`
	Clock          ClockJSON     `json:"clock"`
	Emergency      EmergencyJSON `json:"emergency"`
	DisplayMode    bool          `json:"display_mode"`
	RelayOn        bool          `json:"relay_on"`
	ActivePreset   string        `json:"active_preset"`
	PresetCount    int           `json:"preset_count"`
	BellCount      int           `json:"bell_count"`
	NextBell       string        `json:"next_bell"` // "HH:MM" or ""
	BellDurationMs int           `json:"bell_duration_ms"`
	UptimeSeconds  int64         `json:"uptime_seconds"`
	StartTime      string        `json:"start_time"`
	Timestamp      string        `json:"timestamp"`
	MQTT           MQTTStatus    `json:"mqtt"`
	Counts         CountsJSON    `json:"ring_counts"`
	Config         ConfigJSON    `json:"config"`
}

// ClockJSON is the JSON representation of the device clock.
type ClockJSON struct {
	Available bool   `json:"available"`
	Time      string `json:"time,omitempty"` // "HH:MM:SS"
	Date      string `json:"date,omitempty"` // "YYYY-MM-DD"
}

// EmergencyJSON reports the emergency alarm state.
type EmergencyJSON struct {
	Active bool `json:"active"`
	Phase  int  `json:"phase,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of ring counts.
type CountsJSON struct {
	Scheduled int `json:"scheduled"`
	Manual    int `json:"manual"`
	Emergency int `json:"emergency"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PollMs      int64  `json:"poll_ms"`
	DebounceMs  int64  `json:"debounce_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	Broker      string `json:"broker"`
	HTTPAddr    string `json:"http_addr"`
	StateFile   string `json:"state_file"`
}

func buildInner(snap Snapshot) StatusInner {
	ck := ClockJSON{Available: snap.ClockOK}
	if snap.ClockOK {
		ck.Time = snap.Clock.HHMMSS()
		ck.Date = snap.Clock.Date()
	}

	next := ""
	if snap.Next.OK {
		next = fmt.Sprintf("%02d:%02d", snap.Next.Hour, snap.Next.Minute)
	}

	return StatusInner{
		Clock:          ck,
		Emergency:      EmergencyJSON{Active: snap.EmergencyActive, Phase: snap.EmergencyPhase},
		DisplayMode:    snap.DisplayMode,
		RelayOn:        snap.RelayOn,
		ActivePreset:   snap.ActivePreset,
		PresetCount:    snap.PresetCount,
		BellCount:      snap.BellCount,
		NextBell:       next,
		BellDurationMs: snap.BellDurationMs,
		UptimeSeconds:  int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:      snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:      snap.Now.UTC().Format(time.RFC3339),
		MQTT:           MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Scheduled: snap.Counts.Scheduled,
			Manual:    snap.Counts.Manual,
			Emergency: snap.Counts.Emergency,
		},
		Config: ConfigJSON{
			PollMs:      snap.Config.PollMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			StateFile:   snap.Config.StateFile,
		},
	}
}

// FormatJSON returns the JSON status for the web endpoint (no
// event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
