// Package mqtt publishes bell and system events with abstraction for
// testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"
)

// Topic is the MQTT topic for bell events.
const Topic = "school/bell/events"

// TopicSystem is the MQTT topic for system lifecycle events.
const TopicSystem = "school/bell/system"

// EventType classifies a bell event.
type EventType string

const (
	EventScheduled      EventType = "SCHEDULED"
	EventManual         EventType = "MANUAL"
	EventEmergencyStart EventType = "EMERGENCY_START"
	EventEmergencyEnd   EventType = "EMERGENCY_END"
)

// BellEvent is one ring or emergency boundary to publish.
type BellEvent struct {
	Timestamp  time.Time
	Type       EventType
	Preset     string // scheduled rings only
	Hour       int    // scheduled rings only
	Minute     int    // scheduled rings only
	DurationMs int    // ring length; 0 for emergency boundaries
}

// Publisher publishes events to MQTT.
type Publisher interface {
	// Publish sends a bell event to the broker. Returns error if
	// publishing fails (must not crash the process).
	Publish(event BellEvent) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent represents a system lifecycle event (e.g., startup,
// shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the bell event message structure.
type Payload struct {
	Bell BellPayload `json:"bell"`
}

// BellPayload contains the bell event details.
type BellPayload struct {
	Timestamp  string `json:"timestamp"`
	Event      string `json:"event"`
	Preset     string `json:"preset,omitempty"`
	Time       string `json:"time,omitempty"` // "HH:MM", scheduled rings only
	DurationMs int    `json:"duration_ms,omitempty"`
}

// FormatPayload creates the JSON payload for a bell event.
func FormatPayload(event BellEvent) ([]byte, error) {
	bp := BellPayload{
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339),
		Event:      string(event.Type),
		Preset:     event.Preset,
		DurationMs: event.DurationMs,
	}
	if event.Type == EventScheduled {
		bp.Time = fmt.Sprintf("%02d:%02d", event.Hour, event.Minute)
	}
	return json.Marshal(Payload{Bell: bp})
}

// SystemPayload represents the message payload for simple system
// events that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// If event.RawPayload is set, it is returned directly (used for full
// status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
