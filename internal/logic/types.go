// Package logic contains pure decision logic for the sign light controller.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import "time"

// Mode is the lamp control mode.
//
// A button press in ModeAuto enters an override forcing the opposite of the
// current scheduled target; a press in either override mode returns to
// ModeAuto. Overrides substitute the decision input only — fading toward the
// target is unchanged, and darkness keeps being tracked in the background so
// clearing the override resumes the schedule cleanly.
type Mode string

const (
	ModeAuto        Mode = "AUTO"
	ModeOverrideOn  Mode = "OVERRIDE_ON"
	ModeOverrideOff Mode = "OVERRIDE_OFF"
)

// EventType represents a state transition event.
type EventType string

const (
	EventDark          EventType = "DARK"
	EventDaylight      EventType = "DAYLIGHT"
	EventOverrideOn    EventType = "OVERRIDE_ON"
	EventOverrideOff   EventType = "OVERRIDE_OFF"
	EventOverrideClear EventType = "OVERRIDE_CLEAR"
)

// Event represents a state transition to be published.
type Event struct {
	Timestamp  time.Time
	Type       EventType
	Mode       Mode
	Dark       bool
	TargetDuty int
}

// EventCounts tracks the number of each event type since startup.
type EventCounts struct {
	Dark          int
	Daylight      int
	OverrideOn    int
	OverrideOff   int
	OverrideClear int
}

// HeartbeatData contains information for a heartbeat event.
type HeartbeatData struct {
	Timestamp time.Time
	Uptime    time.Duration
	Counts    EventCounts
}
