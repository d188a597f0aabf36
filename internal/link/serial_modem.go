package link

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
)

const (
	atReadChunk      = 256
	atDefaultTimeout = 2 * time.Second
)

// SerialModem drives a SIM800-class modem over a serial port.
type SerialModem struct {
	PortName string
	port     serial.Port
}

// NewSerialModem creates a modem on the given serial device. The port is
// opened during Handshake, once the working baud rate is known.
func NewSerialModem(portName string) *SerialModem {
	return &SerialModem{PortName: portName}
}

// PowerOn waits for the modem to boot. The board powers the modem from
// the main rail; there is no power-key GPIO to toggle.
func (m *SerialModem) PowerOn() error {
	time.Sleep(2 * time.Second)
	return nil
}

// Handshake opens the port at the given baud rate and probes with AT.
func (m *SerialModem) Handshake(baud int) error {
	if m.port != nil {
		m.port.Close()
		m.port = nil
	}

	port, err := serial.Open(m.PortName, &serial.Mode{BaudRate: baud})
	if err != nil {
		return fmt.Errorf("open %s @%d: %w", m.PortName, baud, err)
	}
	if err := port.SetReadTimeout(200 * time.Millisecond); err != nil {
		port.Close()
		return fmt.Errorf("set read timeout: %w", err)
	}
	m.port = port

	// Echo off, then probe.
	m.command("ATE0", atDefaultTimeout)
	if _, err := m.command("AT", atDefaultTimeout); err != nil {
		port.Close()
		m.port = nil
		return fmt.Errorf("no AT response @%d: %w", baud, err)
	}
	return nil
}

// Register polls AT+CREG? until the modem reports home or roaming
// registration, bounded by timeout.
func (m *SerialModem) Register(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := m.command("AT+CREG?", atDefaultTimeout)
		if err == nil && (strings.Contains(resp, ",1") || strings.Contains(resp, ",5")) {
			return nil
		}
		time.Sleep(time.Second)
	}
	return errors.New("network registration timed out")
}

// Operator returns the operator name from AT+COPS?.
func (m *SerialModem) Operator() (string, error) {
	resp, err := m.command("AT+COPS?", atDefaultTimeout)
	if err != nil {
		return "", err
	}
	// +COPS: 0,0,"operator name"
	start := strings.Index(resp, `"`)
	if start < 0 {
		return "", errors.New("no operator in response")
	}
	end := strings.Index(resp[start+1:], `"`)
	if end < 0 {
		return "", errors.New("malformed operator response")
	}
	return resp[start+1 : start+1+end], nil
}

// SignalQuality returns the CSQ value from AT+CSQ.
func (m *SerialModem) SignalQuality() (int, error) {
	resp, err := m.command("AT+CSQ", atDefaultTimeout)
	if err != nil {
		return 0, err
	}
	// +CSQ: 17,0
	idx := strings.Index(resp, "+CSQ:")
	if idx < 0 {
		return 0, errors.New("no CSQ in response")
	}
	rest := strings.TrimSpace(resp[idx+5:])
	if comma := strings.IndexByte(rest, ','); comma >= 0 {
		rest = rest[:comma]
	}
	return strconv.Atoi(strings.TrimSpace(rest))
}

// HTTPRequest relays an HTTP call through the modem's HTTP stack.
func (m *SerialModem) HTTPRequest(method, url, payload string, timeout time.Duration) (string, error) {
	if _, err := m.command("AT+HTTPINIT", atDefaultTimeout); err != nil {
		return "", fmt.Errorf("http init: %w", err)
	}
	defer m.command("AT+HTTPTERM", atDefaultTimeout)

	if _, err := m.command(`AT+HTTPPARA="URL","`+url+`"`, atDefaultTimeout); err != nil {
		return "", fmt.Errorf("set url: %w", err)
	}

	action := "0" // GET
	if strings.EqualFold(method, "POST") {
		action = "1"
		m.command(`AT+HTTPPARA="CONTENT","application/json"`, atDefaultTimeout)
		if _, err := m.command(fmt.Sprintf("AT+HTTPDATA=%d,5000", len(payload)), atDefaultTimeout); err != nil {
			return "", fmt.Errorf("http data: %w", err)
		}
		if _, err := m.raw(payload, atDefaultTimeout); err != nil {
			return "", fmt.Errorf("write body: %w", err)
		}
	}

	resp, err := m.command("AT+HTTPACTION="+action, timeout)
	if err != nil {
		return "", fmt.Errorf("http action: %w", err)
	}
	if !strings.Contains(resp, ",200,") && !strings.Contains(resp, ",201,") {
		return "", fmt.Errorf("http status not ok: %s", strings.TrimSpace(resp))
	}

	body, err := m.command("AT+HTTPREAD", timeout)
	if err != nil {
		return "", fmt.Errorf("http read: %w", err)
	}
	return body, nil
}

// SendSMS sends a text message in text mode (AT+CMGF=1, AT+CMGS).
func (m *SerialModem) SendSMS(number, text string) error {
	if _, err := m.command("AT+CMGF=1", atDefaultTimeout); err != nil {
		return fmt.Errorf("set text mode: %w", err)
	}
	if _, err := m.commandExpect(`AT+CMGS="`+number+`"`, ">", atDefaultTimeout); err != nil {
		return fmt.Errorf("start sms: %w", err)
	}
	// Message body terminated by Ctrl-Z.
	if _, err := m.raw(text+"\x1a", 10*time.Second); err != nil {
		return fmt.Errorf("send sms body: %w", err)
	}
	return nil
}

// Close releases the serial port.
func (m *SerialModem) Close() error {
	if m.port == nil {
		return nil
	}
	err := m.port.Close()
	m.port = nil
	return err
}

// command writes an AT command and collects the response until OK, ERROR
// or the timeout.
func (m *SerialModem) command(cmd string, timeout time.Duration) (string, error) {
	return m.commandExpect(cmd, "OK", timeout)
}

func (m *SerialModem) commandExpect(cmd, expect string, timeout time.Duration) (string, error) {
	if m.port == nil {
		return "", errors.New("modem port not open")
	}
	if _, err := m.port.Write([]byte(cmd + "\r\n")); err != nil {
		return "", fmt.Errorf("write %q: %w", cmd, err)
	}
	return m.collect(expect, timeout)
}

// raw writes bytes without a trailing CRLF and collects until OK.
func (m *SerialModem) raw(data string, timeout time.Duration) (string, error) {
	if m.port == nil {
		return "", errors.New("modem port not open")
	}
	if _, err := m.port.Write([]byte(data)); err != nil {
		return "", fmt.Errorf("write payload: %w", err)
	}
	return m.collect("OK", timeout)
}

func (m *SerialModem) collect(expect string, timeout time.Duration) (string, error) {
	var sb strings.Builder
	buf := make([]byte, atReadChunk)
	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		n, err := m.port.Read(buf)
		if err != nil {
			return sb.String(), fmt.Errorf("serial read: %w", err)
		}
		if n > 0 {
			sb.Write(buf[:n])
			s := sb.String()
			if strings.Contains(s, expect) {
				return s, nil
			}
			if strings.Contains(s, "ERROR") {
				return s, errors.New("modem reported ERROR")
			}
		}
	}
	return sb.String(), fmt.Errorf("timeout waiting for %q", expect)
}
