package link

import (
	"os"
	"strconv"
	"time"
)

// Radio abstracts the WiFi station hardware.
type Radio interface {
	// Begin starts association with the given network. Non-blocking;
	// progress is observed through Associated.
	Begin(ssid, password string) error

	// Associated reports whether the station is associated.
	Associated() (bool, error)

	// Reconnect performs a bounded blocking reconnect after a detected
	// drop and reports success. Implementations must return within the
	// given timeout.
	Reconnect(timeout time.Duration) bool

	// SSID returns the associated network name, empty if none.
	SSID() string

	// SignalQuality returns a signal metric (dBm-style, 0 if unknown).
	SignalQuality() int
}

// pi-helper env var names (written to /run/pi-helper.env by the network
// supervisor).
const (
	envWifiStatus = "NETWORK_WIFI_STATUS"
	envWifiSSID   = "NETWORK_WIFI_SSID"
	envWifiSignal = "NETWORK_WIFI_SIGNAL"
)

// SupplicantRadio observes the station state managed by wpa_supplicant
// through the pi-helper env snapshot. Begin only records the target
// network; the supervisor owns the actual association, and we watch it
// come up like any other non-blocking connect.
type SupplicantRadio struct {
	targetSSID string
}

// NewSupplicantRadio creates a radio backed by the pi-helper env vars.
func NewSupplicantRadio() *SupplicantRadio {
	return &SupplicantRadio{}
}

// Begin records the target network.
func (r *SupplicantRadio) Begin(ssid, password string) error {
	r.targetSSID = ssid
	return nil
}

// Associated reports whether the supervisor shows a connected station.
func (r *SupplicantRadio) Associated() (bool, error) {
	return os.Getenv(envWifiStatus) == "connected", nil
}

// Reconnect polls the supervisor state for up to timeout. The supervisor
// retries the association on its own; we just wait, bounded.
func (r *SupplicantRadio) Reconnect(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if up, _ := r.Associated(); up {
			return true
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

// SSID returns the associated network name.
func (r *SupplicantRadio) SSID() string {
	return os.Getenv(envWifiSSID)
}

// SignalQuality returns the supervisor-reported signal level.
func (r *SupplicantRadio) SignalQuality() int {
	v, err := strconv.Atoi(os.Getenv(envWifiSignal))
	if err != nil {
		return 0
	}
	return v
}
