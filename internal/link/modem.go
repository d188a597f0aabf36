package link

import "time"

// Modem abstracts the cellular modem's AT-command transport. The raw
// serial handling lives behind this interface; the Manager only sequences
// the bring-up and relays payloads.
type Modem interface {
	// PowerOn brings the modem out of reset. May take seconds.
	PowerOn() error

	// Handshake probes the modem at the given baud rate.
	Handshake(baud int) error

	// Register waits for network registration, bounded by timeout.
	Register(timeout time.Duration) error

	// Operator returns the registered operator name.
	Operator() (string, error)

	// SignalQuality returns the CSQ value (0..31, 99 unknown).
	SignalQuality() (int, error)

	// HTTPRequest relays an HTTP call over the modem and returns the
	// response body. Bounded by timeout.
	HTTPRequest(method, url, payload string, timeout time.Duration) (string, error)

	// SendSMS sends a text message.
	SendSMS(number, text string) error

	// Close releases the serial port.
	Close() error
}
