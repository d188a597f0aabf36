package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for the status endpoint.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	ClockSynced   bool       `json:"clock_synced"`
	WiFi          LinkJSON   `json:"wifi"`
	Cellular      LinkJSON   `json:"cellular"`
	Inputs        []SlotJSON `json:"inputs"`
	RetryDepth    int        `json:"retry_queue_depth"`
	Config        ConfigJSON `json:"config"`
}

// LinkJSON is the JSON representation of one network link.
type LinkJSON struct {
	State  string `json:"state"`
	Name   string `json:"name,omitempty"`
	Signal int    `json:"signal"`
}

// SlotJSON is the JSON representation of one input slot.
type SlotJSON struct {
	Name    string `json:"name"`
	Pin     int    `json:"pin"`
	Enabled bool   `json:"enabled"`
	Active  bool   `json:"active"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Board     string `json:"board"`
	Timezone  string `json:"timezone"`
	NTPServer string `json:"ntp_server"`
	HTTPAddr  string `json:"http_addr"`
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	inner := StatusInner{
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		ClockSynced:   snap.ClockSync,
		WiFi: LinkJSON{
			State:  string(snap.WiFi.State),
			Name:   snap.WiFi.Name,
			Signal: snap.WiFi.Signal,
		},
		Cellular: LinkJSON{
			State:  string(snap.Cellular.State),
			Name:   snap.Cellular.Name,
			Signal: snap.Cellular.Signal,
		},
		RetryDepth: snap.RetryDepth,
		Config: ConfigJSON{
			Board:     snap.Config.Board,
			Timezone:  snap.Config.Timezone,
			NTPServer: snap.Config.NTPServer,
			HTTPAddr:  snap.Config.HTTPAddr,
		},
	}
	for _, s := range snap.Slots {
		inner.Inputs = append(inner.Inputs, SlotJSON{
			Name:    s.Name,
			Pin:     s.Pin,
			Enabled: s.Enabled,
			Active:  s.Stable,
		})
	}

	data, _ := json.MarshalIndent(StatusJSON{Status: inner}, "", "  ")
	return data
}
