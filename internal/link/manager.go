package link

import (
	"errors"
	"fmt"
	"time"

	"github.com/sweeney/pinwatch/internal/clock"
	"github.com/sweeney/pinwatch/internal/logbuf"
)

const (
	// WiFiConnectTimeout bounds the non-blocking association window.
	WiFiConnectTimeout = 20 * time.Second

	// HealthCheckInterval is how often an established WiFi link is
	// verified against the radio.
	HealthCheckInterval = 30 * time.Second

	// ReconnectCap bounds the deliberate blocking reconnect after a
	// detected drop. The tick loop stalls for at most this long.
	ReconnectCap = 10 * time.Second

	// RegistrationTimeout bounds cellular network registration at boot.
	RegistrationTimeout = 30 * time.Second

	// CellularHTTPTimeout bounds a single AT-relayed HTTP call.
	CellularHTTPTimeout = 15 * time.Second
)

// handshakeBauds are probed in order during the boot-time modem
// handshake.
var handshakeBauds = []int{115200, 57600, 9600}

const handshakeRetries = 2

type wifiLink struct {
	state        State
	ssid         string
	attemptStart int64
	lastCheck    int64
}

type cellLink struct {
	state    State
	operator string
	signal   int
}

// Manager owns the WiFi and cellular link state machines. Link failures
// are logged, never fatal; the device stays operational on whatever links
// remain.
type Manager struct {
	clk   clock.Clock
	log   *logbuf.Buffer
	radio Radio
	modem Modem

	// OnWiFiFailed is called when the WiFi machine enters Failed; the
	// device then exposes its local setup access point (outside this
	// package).
	OnWiFiFailed func()

	wifi wifiLink
	cell cellLink
}

// NewManager creates a Manager. modem may be nil on boards without the
// cellular option.
func NewManager(clk clock.Clock, log *logbuf.Buffer, radio Radio, modem Modem) *Manager {
	return &Manager{
		clk:   clk,
		log:   log,
		radio: radio,
		modem: modem,
		wifi:  wifiLink{state: StateIdle},
		cell:  cellLink{state: StateIdle},
	}
}

// BeginWiFiConnect starts a non-blocking association attempt. Callers
// never pass an empty SSID; an unconfigured device routes straight to
// setup mode at boot instead.
func (m *Manager) BeginWiFiConnect(ssid, password string) {
	if err := m.radio.Begin(ssid, password); err != nil {
		m.wifi.state = StateFailed
		m.log.Error("wifi: begin connect: " + err.Error())
		m.wifiFailed()
		return
	}
	m.wifi.state = StateConnecting
	m.wifi.ssid = ssid
	m.wifi.attemptStart = m.clk.NowMillis()
	m.log.Info("wifi: connecting to " + ssid)
}

// PollWiFi advances the WiFi state machine. Called every tick.
func (m *Manager) PollWiFi() {
	now := m.clk.NowMillis()

	switch m.wifi.state {
	case StateConnecting:
		up, err := m.radio.Associated()
		if err != nil {
			m.log.Warning("wifi: status check: " + err.Error())
			return
		}
		if up {
			m.wifi.state = StateConnected
			m.wifi.lastCheck = now
			m.log.Success("wifi: connected to " + m.wifi.ssid)
			return
		}
		if now-m.wifi.attemptStart > WiFiConnectTimeout.Milliseconds() {
			m.wifi.state = StateFailed
			m.log.Error(fmt.Sprintf("wifi: association with %q timed out", m.wifi.ssid))
			m.wifiFailed()
		}

	case StateConnected:
		if now-m.wifi.lastCheck < HealthCheckInterval.Milliseconds() {
			return
		}
		m.wifi.lastCheck = now

		up, err := m.radio.Associated()
		if err == nil && up {
			return
		}
		// Deliberate bounded block: reconnecting inline avoids
		// re-entrancy around a half-torn-down association at the cost
		// of a short stall of unrelated processing.
		m.log.Warning("wifi: link dropped, reconnecting (bounded)")
		if m.radio.Reconnect(ReconnectCap) {
			m.log.Success("wifi: reconnected")
			return
		}
		m.wifi.state = StateFailed
		m.log.Error("wifi: reconnect failed")
		m.wifiFailed()
	}
}

func (m *Manager) wifiFailed() {
	if m.OnWiFiFailed != nil {
		m.OnWiFiFailed()
	}
}

// BeginCellularConnect performs the blocking boot-time modem bring-up:
// power-on, AT handshake across baud rates, network registration, and
// operator/signal readout. Only invoked at boot or on explicit user
// action, never per tick.
func (m *Manager) BeginCellularConnect() error {
	if m.modem == nil {
		return errors.New("cellular: no modem fitted")
	}

	m.cell.state = StateConnecting
	m.log.Info("cellular: powering on modem")
	if err := m.modem.PowerOn(); err != nil {
		m.cell.state = StateFailed
		m.log.Error("cellular: power on: " + err.Error())
		return err
	}

	var hsErr error
	handshaken := false
	for _, baud := range handshakeBauds {
		for attempt := 0; attempt < handshakeRetries; attempt++ {
			if hsErr = m.modem.Handshake(baud); hsErr == nil {
				handshaken = true
				break
			}
		}
		if handshaken {
			m.log.Info(fmt.Sprintf("cellular: modem responding at %d baud", baud))
			break
		}
	}
	if !handshaken {
		m.cell.state = StateFailed
		m.log.Error("cellular: no AT response at any baud rate")
		return hsErr
	}

	if err := m.modem.Register(RegistrationTimeout); err != nil {
		m.cell.state = StateFailed
		m.log.Error("cellular: " + err.Error())
		return err
	}

	if op, err := m.modem.Operator(); err == nil {
		m.cell.operator = op
	}
	if sig, err := m.modem.SignalQuality(); err == nil {
		m.cell.signal = sig
	}

	m.cell.state = StateConnected
	m.log.Success(fmt.Sprintf("cellular: registered on %q (csq %d)", m.cell.operator, m.cell.signal))
	return nil
}

// Status returns the state of the given link.
func (m *Manager) Status(kind Kind) State {
	if kind == WiFi {
		return m.wifi.state
	}
	return m.cell.state
}

// WiFiUp reports whether the WiFi link is usable.
func (m *Manager) WiFiUp() bool { return m.wifi.state == StateConnected }

// CellularUp reports whether the cellular link is usable.
func (m *Manager) CellularUp() bool { return m.cell.state == StateConnected }

// SSID returns the WiFi network name.
func (m *Manager) SSID() string { return m.wifi.ssid }

// WiFiSignal returns the WiFi signal metric.
func (m *Manager) WiFiSignal() int { return m.radio.SignalQuality() }

// Operator returns the cellular operator name.
func (m *Manager) Operator() string { return m.cell.operator }

// CellularSignal returns the cellular CSQ value.
func (m *Manager) CellularSignal() int { return m.cell.signal }

// SendOverCellular relays an HTTP call over the modem. Returns the
// response body, or empty string on any failure.
func (m *Manager) SendOverCellular(url, method, payload string) string {
	if m.modem == nil || m.cell.state != StateConnected {
		return ""
	}
	resp, err := m.modem.HTTPRequest(method, url, payload, CellularHTTPTimeout)
	if err != nil {
		m.log.Warning("cellular: http relay: " + err.Error())
		return ""
	}
	return resp
}

// SendSMS sends a text message over the modem.
func (m *Manager) SendSMS(number, text string) bool {
	if m.modem == nil || m.cell.state != StateConnected {
		return false
	}
	if err := m.modem.SendSMS(number, text); err != nil {
		m.log.Warning("cellular: sms: " + err.Error())
		return false
	}
	return true
}
