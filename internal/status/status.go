// Package status provides a thread-safe status tracker for the pinwatch
// daemon. It is written from the tick loop and read by HTTP handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pinwatch/internal/config"
	"github.com/sweeney/pinwatch/internal/link"
	"github.com/sweeney/pinwatch/internal/monitor"
)

// LinkInfo is a display copy of one network link's state.
type LinkInfo struct {
	State   link.State
	Name    string // SSID or operator
	Signal  int
	Enabled bool
}

// Config contains daemon configuration for display.
type Config struct {
	Board     string
	Timezone  string
	NTPServer string
	HTTPAddr  string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	WiFi       LinkInfo
	Cellular   LinkInfo
	Slots      [config.SlotCount]monitor.SlotStatus
	RetryDepth int
	ClockSync  bool
	StartTime  time.Time
	Now        time.Time
	Config     Config
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

// Update refreshes link state, slot levels and the retry queue depth.
// Called from the tick loop on every pass.
func (t *Tracker) Update(wifi, cellular LinkInfo, slots [config.SlotCount]monitor.SlotStatus, retryDepth int, clockSync bool) {
	t.mu.Lock()
	t.snap.WiFi = wifi
	t.snap.Cellular = cellular
	t.snap.Slots = slots
	t.snap.RetryDepth = retryDepth
	t.snap.ClockSync = clockSync
	t.mu.Unlock()
}

// SetConfig replaces the display config after a settings save.
func (t *Tracker) SetConfig(cfg Config) {
	t.mu.Lock()
	t.snap.Config = cfg
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
