// Package status provides a thread-safe status tracker for the signlight daemon.
// It is designed to be read by HTTP handlers and MQTT heartbeats.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/signlight/internal/logic"
)

// NetworkInfo contains network state. This is a local copy to avoid
// importing internal/mqtt from status.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	EvalMs     int64
	FadeStepMs int64
	DebounceMs int64
	HeartbeatMs int64
	Broker     string
	HTTPAddr   string
	WSBroker   string // Websocket broker URL for browser MQTT (empty = disabled)
	Latitude   float64
	Longitude  float64
	OnDuty     int
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Mode          logic.Mode
	Dark          bool
	Evaluated     bool
	Synced        bool
	Duty          int
	TargetDuty    int
	Sunrise       time.Time
	Sunset        time.Time
	Counts        logic.EventCounts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Network       *NetworkInfo
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Lamp returns a display string for the lamp output.
func (s Snapshot) Lamp() string {
	switch {
	case !s.Evaluated:
		return "UNKNOWN"
	case s.Duty != s.TargetDuty:
		return "FADING"
	case s.Duty > 0:
		return "ON"
	default:
		return "OFF"
	}
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
			Mode:      logic.ModeAuto,
			Config:    cfg,
		},
	}
}

// Update sets mode, darkness, evaluation state, and event counts.
// Called from the control loop after every evaluation.
func (t *Tracker) Update(mode logic.Mode, dark, evaluated bool, counts logic.EventCounts) {
	t.mu.Lock()
	t.snap.Mode = mode
	t.snap.Dark = dark
	t.snap.Evaluated = evaluated
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetSynced records whether the wall clock is considered synchronized.
func (t *Tracker) SetSynced(synced bool) {
	t.mu.Lock()
	t.snap.Synced = synced
	t.mu.Unlock()
}

// SetSchedule records today's sunrise and sunset.
func (t *Tracker) SetSchedule(sunrise, sunset time.Time) {
	t.mu.Lock()
	t.snap.Sunrise = sunrise
	t.snap.Sunset = sunset
	t.mu.Unlock()
}

// SetDuty records the current and target duty cycle.
func (t *Tracker) SetDuty(duty, target int) {
	t.mu.Lock()
	t.snap.Duty = duty
	t.snap.TargetDuty = target
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
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
