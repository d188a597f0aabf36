//go:build linux

package gpio

import (
	"errors"
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads pins from actual hardware using the Linux GPIO
// character device.
type RealReader struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// NewRealReader opens the default GPIO chip.
func NewRealReader() (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}
	return &RealReader{chip: chip, lines: make(map[int]*gpiocdev.Line)}, nil
}

// ConfigureInput claims the pin as input with pull-down to match Pi boot
// defaults. A pin that was already claimed is closed and re-requested.
func (r *RealReader) ConfigureInput(pin int) error {
	if line, ok := r.lines[pin]; ok {
		if err := line.Close(); err != nil {
			return fmt.Errorf("release pin %d: %w", pin, err)
		}
		delete(r.lines, pin)
	}

	line, err := r.chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		return fmt.Errorf("request pin %d: %w", pin, err)
	}
	r.lines[pin] = line
	return nil
}

// ReadLevel returns the raw level of a configured pin.
func (r *RealReader) ReadLevel(pin int) (bool, error) {
	line, ok := r.lines[pin]
	if !ok {
		return false, fmt.Errorf("pin %d not configured", pin)
	}
	v, err := line.Value()
	if err != nil {
		return false, fmt.Errorf("read pin %d: %w", pin, err)
	}
	return v != 0, nil
}

// Release frees a configured pin, restoring input-with-pull-down first so
// external hardware sees the boot-default state.
func (r *RealReader) Release(pin int) error {
	line, ok := r.lines[pin]
	if !ok {
		return nil
	}
	delete(r.lines, pin)

	var errs []error
	if err := line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure pin %d: %w", pin, err))
	}
	if err := line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close pin %d: %w", pin, err))
	}
	return errors.Join(errs...)
}

// Close releases all pins and the chip.
func (r *RealReader) Close() error {
	var errs []error
	for pin := range r.lines {
		if err := r.Release(pin); err != nil {
			errs = append(errs, err)
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}
	return errors.Join(errs...)
}
