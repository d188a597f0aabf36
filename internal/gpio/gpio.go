// Package gpio provides digital input sampling with hardware abstraction.
// The real implementation uses the Linux GPIO character device; the fake
// allows testing without hardware.
package gpio

// Reader samples digital input pins by BCM number.
type Reader interface {
	// ConfigureInput claims the pin as an input with pull-down. Calling
	// it again for a pin that is already claimed re-arms it (used when
	// the web form reassigns a slot's pin).
	ConfigureInput(pin int) error

	// ReadLevel returns the raw level of a configured pin.
	ReadLevel(pin int) (bool, error)

	// Release frees a previously configured pin.
	Release(pin int) error

	// Close releases all pins and the chip.
	Close() error
}
