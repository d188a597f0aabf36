// Package monitor converts raw digital pin sampling into debounced,
// rate-limited trigger events. Pure logic over injected collaborators:
// time, pin I/O, enrichment and the notification sink are all interfaces,
// so the whole state machine is testable without hardware.
package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/sweeney/pinwatch/internal/clock"
	"github.com/sweeney/pinwatch/internal/config"
	"github.com/sweeney/pinwatch/internal/enrich"
	"github.com/sweeney/pinwatch/internal/gpio"
	"github.com/sweeney/pinwatch/internal/logbuf"
)

const (
	// DebounceDelay is how long a raw level must hold before it is
	// treated as a real state change.
	DebounceDelay = 50 * time.Millisecond

	// MinNotificationInterval rate-limits dispatches per slot.
	// Suppressed events are dropped, never queued.
	MinNotificationInterval = 5000 * time.Millisecond
)

// TimestampPlaceholder is substituted in message templates.
const TimestampPlaceholder = "{timestamp}"

// Sink receives messages that survived debounce and rate limiting.
type Sink interface {
	Dispatch(title, body, photoPath string)
}

// slot is the runtime state of one input. Slots are reused across
// configuration changes, never allocated or freed.
type slot struct {
	armed        bool
	pin          int
	lastStable   bool
	pending      bool
	pendingSince int64
	lastSentAt   int64
}

// Monitor owns the four input slots. Tick is called from the main loop;
// ApplyConfig runs on the same loop via the deferred task queue.
type Monitor struct {
	clk    clock.Clock
	log    *logbuf.Buffer
	pins   gpio.Reader
	camera enrich.Camera
	gps    enrich.GPS
	sink   Sink
	cfg    *config.Settings
	slots  [config.SlotCount]slot
}

// New creates a Monitor. Call ApplyConfig before the first Tick.
func New(clk clock.Clock, log *logbuf.Buffer, pins gpio.Reader, camera enrich.Camera, gps enrich.GPS, sink Sink, cfg *config.Settings) *Monitor {
	return &Monitor{
		clk:    clk,
		log:    log,
		pins:   pins,
		camera: camera,
		gps:    gps,
		sink:   sink,
		cfg:    cfg,
	}
}

// ApplyConfig arms enabled slots and releases disabled ones. A slot whose
// pin was reassigned is re-armed on the new pin with fresh runtime state.
// A slot disabled mid-debounce drops its pending transition; that edge
// is not delivered later.
func (m *Monitor) ApplyConfig(cfg *config.Settings) {
	m.cfg = cfg

	for i := range m.slots {
		sc := cfg.Inputs[i]
		s := &m.slots[i]

		if !sc.Enabled {
			if s.armed {
				if err := m.pins.Release(s.pin); err != nil {
					m.log.Warning(fmt.Sprintf("input %d: release pin %d: %v", i, s.pin, err))
				}
				s.armed = false
			}
			continue
		}

		if s.armed && s.pin == sc.Pin {
			continue
		}

		if s.armed && s.pin != sc.Pin {
			if err := m.pins.Release(s.pin); err != nil {
				m.log.Warning(fmt.Sprintf("input %d: release pin %d: %v", i, s.pin, err))
			}
			s.armed = false
		}

		if err := m.pins.ConfigureInput(sc.Pin); err != nil {
			m.log.Error(fmt.Sprintf("input %d: arm pin %d: %v", i, sc.Pin, err))
			continue
		}

		level, err := m.pins.ReadLevel(sc.Pin)
		if err != nil {
			m.log.Warning(fmt.Sprintf("input %d: initial read: %v", i, err))
		}

		s.armed = true
		s.pin = sc.Pin
		s.lastStable = level
		s.pending = level
		s.pendingSince = m.clk.NowMillis()
		s.lastSentAt = 0
	}
}

// Tick evaluates every armed slot in fixed index order.
func (m *Monitor) Tick() {
	for i := range m.slots {
		m.tickSlot(i)
	}
}

func (m *Monitor) tickSlot(i int) {
	sc := m.cfg.Inputs[i]
	s := &m.slots[i]
	if !sc.Enabled || !s.armed {
		return
	}

	now := m.clk.NowMillis()

	level, err := m.pins.ReadLevel(s.pin)
	if err != nil {
		m.log.Warning(fmt.Sprintf("input %d (%s): read: %v", i, sc.Name, err))
		return
	}

	if level != s.pending {
		s.pending = level
		s.pendingSince = now
		return
	}

	if now-s.pendingSince <= DebounceDelay.Milliseconds() || s.pending == s.lastStable {
		return
	}

	// Confirmed edge.
	s.lastStable = s.pending

	var template string
	switch sc.Mode {
	case config.ModeMomentary:
		if !s.lastStable {
			return // release edge, by definition silent
		}
		template = sc.OnMessage
	default: // toggle
		if s.lastStable {
			template = sc.OnMessage
		} else {
			template = sc.OffMessage
		}
	}

	if s.lastSentAt != 0 && now-s.lastSentAt < MinNotificationInterval.Milliseconds() {
		m.log.Warning(fmt.Sprintf("input %d (%s): rate limited, event dropped", i, sc.Name))
		return
	}

	body := strings.ReplaceAll(template, TimestampPlaceholder, m.clk.FormattedLocalTime())

	photoPath := ""
	if sc.CapturePhoto && m.camera != nil {
		path, err := m.camera.Capture()
		if err != nil {
			m.log.Warning(fmt.Sprintf("input %d (%s): photo capture: %v", i, sc.Name, err))
		} else {
			photoPath = path
		}
	}

	if sc.IncludeGPS && m.gps != nil {
		if fix := m.gps.CurrentFix(); fix != "" {
			body += " @ " + fix
		}
	}

	m.sink.Dispatch(sc.Name, body, photoPath)
	s.lastSentAt = now
}

// Levels returns the current raw level and stable state of each slot for
// the status view.
func (m *Monitor) Levels() [config.SlotCount]SlotStatus {
	var out [config.SlotCount]SlotStatus
	for i := range m.slots {
		s := m.slots[i]
		sc := m.cfg.Inputs[i]
		out[i] = SlotStatus{
			Name:    sc.Name,
			Pin:     sc.Pin,
			Enabled: sc.Enabled && s.armed,
			Stable:  s.lastStable,
		}
	}
	return out
}

// SlotStatus is a point-in-time view of one slot.
type SlotStatus struct {
	Name    string
	Pin     int
	Enabled bool
	Stable  bool
}
