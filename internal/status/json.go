package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Lamp          string       `json:"lamp"`
	Mode          string       `json:"mode"`
	Dark          bool         `json:"dark"`
	ClockSynced   bool         `json:"clock_synced"`
	Duty          int          `json:"duty"`
	TargetDuty    int          `json:"target_duty"`
	Sunrise       string       `json:"sunrise,omitempty"`
	Sunset        string       `json:"sunset,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"event_counts"`
	Network       *NetworkJSON `json:"network,omitempty"`
	Config        ConfigJSON   `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

// CountsJSON is the JSON representation of event counts.
type CountsJSON struct {
	Dark          int `json:"dark"`
	Daylight      int `json:"daylight"`
	OverrideOn    int `json:"override_on"`
	OverrideOff   int `json:"override_off"`
	OverrideClear int `json:"override_clear"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	EvalMs      int64   `json:"eval_ms"`
	FadeStepMs  int64   `json:"fade_step_ms"`
	DebounceMs  int64   `json:"debounce_ms"`
	HeartbeatMs int64   `json:"heartbeat_ms"`
	Broker      string  `json:"broker"`
	HTTPAddr    string  `json:"http_addr"`
	WSBroker    string  `json:"ws_broker,omitempty"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	OnDuty      int     `json:"on_duty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Lamp:          snap.Lamp(),
		Mode:          string(snap.Mode),
		Dark:          snap.Dark,
		ClockSynced:   snap.Synced,
		Duty:          snap.Duty,
		TargetDuty:    snap.TargetDuty,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Dark:          snap.Counts.Dark,
			Daylight:      snap.Counts.Daylight,
			OverrideOn:    snap.Counts.OverrideOn,
			OverrideOff:   snap.Counts.OverrideOff,
			OverrideClear: snap.Counts.OverrideClear,
		},
		Config: ConfigJSON{
			EvalMs:      snap.Config.EvalMs,
			FadeStepMs:  snap.Config.FadeStepMs,
			DebounceMs:  snap.Config.DebounceMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			Broker:      snap.Config.Broker,
			HTTPAddr:    snap.Config.HTTPAddr,
			WSBroker:    snap.Config.WSBroker,
			Latitude:    snap.Config.Latitude,
			Longitude:   snap.Config.Longitude,
			OnDuty:      snap.Config.OnDuty,
		},
	}

	if !snap.Sunrise.IsZero() {
		inner.Sunrise = snap.Sunrise.Format(time.RFC3339)
	}
	if !snap.Sunset.IsZero() {
		inner.Sunset = snap.Sunset.Format(time.RFC3339)
	}

	return inner
}

func buildNetwork(snap Snapshot, inner *StatusInner) {
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	inner := buildInner(snap)
	buildNetwork(snap, &inner)

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	buildNetwork(snap, &inner)

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
