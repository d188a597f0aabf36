package link

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/pinwatch/internal/clock"
	"github.com/sweeney/pinwatch/internal/logbuf"
)

func newManager(radio Radio, modem Modem) (*Manager, *clock.FakeClock) {
	clk := clock.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	return NewManager(clk, logbuf.New(clk), radio, modem), clk
}

func TestWiFiConnectSucceeds(t *testing.T) {
	radio := &FakeRadio{}
	m, _ := newManager(radio, nil)

	m.BeginWiFiConnect("barn-net", "hunter2")
	if m.Status(WiFi) != StateConnecting {
		t.Fatalf("expected connecting, got %s", m.Status(WiFi))
	}
	if len(radio.BeginCalls) != 1 || radio.BeginCalls[0][0] != "barn-net" {
		t.Fatalf("radio.Begin not called with ssid: %v", radio.BeginCalls)
	}

	// Not associated yet: stays connecting.
	m.PollWiFi()
	if m.Status(WiFi) != StateConnecting {
		t.Errorf("expected still connecting, got %s", m.Status(WiFi))
	}

	radio.AssociatedNow = true
	m.PollWiFi()
	if m.Status(WiFi) != StateConnected {
		t.Errorf("expected connected, got %s", m.Status(WiFi))
	}
	if !m.WiFiUp() {
		t.Error("WiFiUp should be true after association")
	}
}

func TestWiFiConnectTimesOutAndEntersSetupMode(t *testing.T) {
	radio := &FakeRadio{}
	m, clk := newManager(radio, nil)

	setupMode := false
	m.OnWiFiFailed = func() { setupMode = true }

	m.BeginWiFiConnect("barn-net", "hunter2")

	clk.Advance(WiFiConnectTimeout - time.Second)
	m.PollWiFi()
	if m.Status(WiFi) != StateConnecting {
		t.Fatalf("expected connecting before timeout, got %s", m.Status(WiFi))
	}

	clk.Advance(2 * time.Second)
	m.PollWiFi()
	if m.Status(WiFi) != StateFailed {
		t.Errorf("expected failed after timeout, got %s", m.Status(WiFi))
	}
	if !setupMode {
		t.Error("failure should trigger setup mode")
	}
}

func TestWiFiHealthCheckInterval(t *testing.T) {
	radio := &FakeRadio{AssociatedNow: true}
	m, clk := newManager(radio, nil)

	m.BeginWiFiConnect("barn-net", "x")
	m.PollWiFi() // -> connected

	// Drop the link; before the health-check interval nothing happens.
	radio.AssociatedNow = false
	clk.Advance(HealthCheckInterval - time.Second)
	m.PollWiFi()
	if radio.ReconnectCalls != 0 {
		t.Error("health check ran before the interval elapsed")
	}
	if m.Status(WiFi) != StateConnected {
		t.Errorf("expected still connected, got %s", m.Status(WiFi))
	}
}

func TestWiFiDropTriggersBoundedReconnect(t *testing.T) {
	radio := &FakeRadio{AssociatedNow: true, ReconnectResult: true}
	m, clk := newManager(radio, nil)

	m.BeginWiFiConnect("barn-net", "x")
	m.PollWiFi()

	radio.AssociatedNow = false
	clk.Advance(HealthCheckInterval + time.Second)
	m.PollWiFi()

	if radio.ReconnectCalls != 1 {
		t.Fatalf("expected 1 reconnect attempt, got %d", radio.ReconnectCalls)
	}
	if m.Status(WiFi) != StateConnected {
		t.Errorf("expected connected after successful reconnect, got %s", m.Status(WiFi))
	}
}

func TestWiFiReconnectFailureEntersFailed(t *testing.T) {
	radio := &FakeRadio{AssociatedNow: true, ReconnectResult: false}
	m, clk := newManager(radio, nil)

	setupMode := false
	m.OnWiFiFailed = func() { setupMode = true }

	m.BeginWiFiConnect("barn-net", "x")
	m.PollWiFi()

	radio.AssociatedNow = false
	clk.Advance(HealthCheckInterval + time.Second)
	m.PollWiFi()

	if m.Status(WiFi) != StateFailed {
		t.Errorf("expected failed, got %s", m.Status(WiFi))
	}
	if !setupMode {
		t.Error("reconnect failure should trigger setup mode")
	}
}

func TestCellularConnectProbesBaudRates(t *testing.T) {
	modem := &FakeModem{HandshakeOKBaud: 9600, OperatorName: "TestCell", CSQ: 17}
	m, _ := newManager(&FakeRadio{}, modem)

	if err := m.BeginCellularConnect(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !modem.PoweredOn {
		t.Error("modem should be powered on")
	}
	// 115200 and 57600 each retried twice before 9600 succeeds.
	want := []int{115200, 115200, 57600, 57600, 9600}
	if len(modem.HandshakeBauds) != len(want) {
		t.Fatalf("expected %d handshake probes, got %v", len(want), modem.HandshakeBauds)
	}
	for i, b := range want {
		if modem.HandshakeBauds[i] != b {
			t.Errorf("probe %d: expected %d, got %d", i, b, modem.HandshakeBauds[i])
		}
	}
	if m.Status(Cellular) != StateConnected {
		t.Errorf("expected connected, got %s", m.Status(Cellular))
	}
	if m.Operator() != "TestCell" || m.CellularSignal() != 17 {
		t.Errorf("operator/signal not recorded: %q %d", m.Operator(), m.CellularSignal())
	}
}

func TestCellularConnectAllBaudsFail(t *testing.T) {
	modem := &FakeModem{HandshakeOKBaud: 0}
	m, _ := newManager(&FakeRadio{}, modem)

	if err := m.BeginCellularConnect(); err == nil {
		t.Fatal("expected error when no baud responds")
	}
	if m.Status(Cellular) != StateFailed {
		t.Errorf("expected failed, got %s", m.Status(Cellular))
	}
}

func TestCellularRegistrationFailure(t *testing.T) {
	modem := &FakeModem{HandshakeOKBaud: 115200, RegisterErr: errors.New("no network")}
	m, _ := newManager(&FakeRadio{}, modem)

	if err := m.BeginCellularConnect(); err == nil {
		t.Fatal("expected registration error")
	}
	if m.Status(Cellular) != StateFailed {
		t.Errorf("expected failed, got %s", m.Status(Cellular))
	}
}

func TestSendOverCellularRequiresConnection(t *testing.T) {
	modem := &FakeModem{HTTPResponse: "ok"}
	m, _ := newManager(&FakeRadio{}, modem)

	if got := m.SendOverCellular("http://example.com", "GET", ""); got != "" {
		t.Errorf("expected empty response while disconnected, got %q", got)
	}

	modem.HandshakeOKBaud = 115200
	if err := m.BeginCellularConnect(); err != nil {
		t.Fatal(err)
	}
	if got := m.SendOverCellular("http://example.com", "GET", ""); got != "ok" {
		t.Errorf("expected relayed response, got %q", got)
	}
	if len(modem.HTTPCalls) != 1 {
		t.Fatalf("expected 1 http call, got %d", len(modem.HTTPCalls))
	}
}

func TestSendSMS(t *testing.T) {
	modem := &FakeModem{HandshakeOKBaud: 115200}
	m, _ := newManager(&FakeRadio{}, modem)

	if m.SendSMS("+447700900123", "hi") {
		t.Error("sms should fail while disconnected")
	}

	if err := m.BeginCellularConnect(); err != nil {
		t.Fatal(err)
	}
	if !m.SendSMS("+447700900123", "hi") {
		t.Error("sms should succeed once connected")
	}
	if len(modem.SMSCalls) != 1 || modem.SMSCalls[0][0] != "+447700900123" {
		t.Errorf("sms call not recorded: %v", modem.SMSCalls)
	}
}
