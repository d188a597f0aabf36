//go:build !linux

package gpio

import "errors"

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader() (*RealReader, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// ConfigureInput is not implemented on non-Linux platforms.
func (r *RealReader) ConfigureInput(pin int) error {
	return errors.New("gpio: not supported")
}

// ReadLevel is not implemented on non-Linux platforms.
func (r *RealReader) ReadLevel(pin int) (bool, error) {
	return false, errors.New("gpio: not supported")
}

// Release is not implemented on non-Linux platforms.
func (r *RealReader) Release(pin int) error {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}
