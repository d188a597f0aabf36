package link

import "time"

// FakeRadio is a scriptable Radio test double.
type FakeRadio struct {
	// AssociatedNow controls Associated.
	AssociatedNow bool

	// AssociatedErr, if set, is returned by Associated.
	AssociatedErr error

	// ReconnectResult controls Reconnect.
	ReconnectResult bool

	// BeginErr, if set, is returned by Begin.
	BeginErr error

	// BeginCalls records (ssid, password) pairs.
	BeginCalls [][2]string

	// ReconnectCalls counts Reconnect invocations.
	ReconnectCalls int

	Signal int
	ssid   string
}

// Begin records the call.
func (f *FakeRadio) Begin(ssid, password string) error {
	f.BeginCalls = append(f.BeginCalls, [2]string{ssid, password})
	if f.BeginErr != nil {
		return f.BeginErr
	}
	f.ssid = ssid
	return nil
}

// Associated returns the scripted association state.
func (f *FakeRadio) Associated() (bool, error) {
	if f.AssociatedErr != nil {
		return false, f.AssociatedErr
	}
	return f.AssociatedNow, nil
}

// Reconnect returns the scripted result and restores association on
// success.
func (f *FakeRadio) Reconnect(timeout time.Duration) bool {
	f.ReconnectCalls++
	if f.ReconnectResult {
		f.AssociatedNow = true
	}
	return f.ReconnectResult
}

// SSID returns the last Begin target.
func (f *FakeRadio) SSID() string { return f.ssid }

// SignalQuality returns the scripted signal.
func (f *FakeRadio) SignalQuality() int { return f.Signal }

// FakeModem is a scriptable Modem test double.
type FakeModem struct {
	// HandshakeOKBaud is the only baud rate Handshake accepts; 0
	// rejects all.
	HandshakeOKBaud int

	// HandshakeBauds records every probed baud rate.
	HandshakeBauds []int

	// RegisterErr, if set, is returned by Register.
	RegisterErr error

	// HTTPResponse is returned by HTTPRequest when HTTPErr is nil.
	HTTPResponse string
	HTTPErr      error

	// HTTPCalls records (method, url, payload) triples.
	HTTPCalls [][3]string

	// SMSErr, if set, is returned by SendSMS.
	SMSErr error

	// SMSCalls records (number, text) pairs.
	SMSCalls [][2]string

	OperatorName string
	CSQ          int
	PoweredOn    bool
	Closed       bool
}

// PowerOn marks the modem powered.
func (f *FakeModem) PowerOn() error {
	f.PoweredOn = true
	return nil
}

// Handshake accepts only the scripted baud rate.
func (f *FakeModem) Handshake(baud int) error {
	f.HandshakeBauds = append(f.HandshakeBauds, baud)
	if baud != f.HandshakeOKBaud {
		return errTimeout
	}
	return nil
}

// Register returns the scripted error.
func (f *FakeModem) Register(timeout time.Duration) error {
	return f.RegisterErr
}

// Operator returns the scripted operator.
func (f *FakeModem) Operator() (string, error) {
	return f.OperatorName, nil
}

// SignalQuality returns the scripted CSQ.
func (f *FakeModem) SignalQuality() (int, error) {
	return f.CSQ, nil
}

// HTTPRequest records the call and returns the scripted response.
func (f *FakeModem) HTTPRequest(method, url, payload string, timeout time.Duration) (string, error) {
	f.HTTPCalls = append(f.HTTPCalls, [3]string{method, url, payload})
	if f.HTTPErr != nil {
		return "", f.HTTPErr
	}
	return f.HTTPResponse, nil
}

// SendSMS records the call.
func (f *FakeModem) SendSMS(number, text string) error {
	f.SMSCalls = append(f.SMSCalls, [2]string{number, text})
	return f.SMSErr
}

// Close marks the modem closed.
func (f *FakeModem) Close() error {
	f.Closed = true
	return nil
}

type timeoutError struct{}

func (timeoutError) Error() string { return "no AT response" }

var errTimeout = timeoutError{}
