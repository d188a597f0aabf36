package gpio

import (
	"errors"
	"fmt"
)

// FakeReader is a test double with settable pin levels.
type FakeReader struct {
	// Levels holds the current raw level per pin.
	Levels map[int]bool

	// Configured tracks which pins have been claimed, and how often
	// (re-arming a pin increments its count).
	Configured map[int]int

	// ReadError, if set, is returned by every ReadLevel call.
	ReadError error

	// Closed tracks whether Close was called.
	Closed bool
}

// NewFakeReader creates a FakeReader with all pins low.
func NewFakeReader() *FakeReader {
	return &FakeReader{
		Levels:     make(map[int]bool),
		Configured: make(map[int]int),
	}
}

// ConfigureInput marks the pin as claimed.
func (f *FakeReader) ConfigureInput(pin int) error {
	f.Configured[pin]++
	return nil
}

// ReadLevel returns the scripted level for a configured pin.
func (f *FakeReader) ReadLevel(pin int) (bool, error) {
	if f.ReadError != nil {
		return false, f.ReadError
	}
	if f.Configured[pin] == 0 {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	return f.Levels[pin], nil
}

// Release unclaims the pin.
func (f *FakeReader) Release(pin int) error {
	if f.Configured[pin] == 0 {
		return errors.New("release of unconfigured pin")
	}
	delete(f.Configured, pin)
	return nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Set changes the raw level of a pin.
func (f *FakeReader) Set(pin int, level bool) {
	f.Levels[pin] = level
}
