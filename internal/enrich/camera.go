package enrich

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// RpicamCamera captures stills with the rpicam-still tool into a spool
// directory. Capture is bounded; a wedged camera stack cannot stall the
// tick loop past the timeout.
type RpicamCamera struct {
	SpoolDir string
	Timeout  time.Duration
}

// NewRpicamCamera creates a camera writing JPEGs under spoolDir.
func NewRpicamCamera(spoolDir string) *RpicamCamera {
	return &RpicamCamera{SpoolDir: spoolDir, Timeout: 8 * time.Second}
}

// Capture takes a photo and returns the JPEG path.
func (c *RpicamCamera) Capture() (string, error) {
	if err := os.MkdirAll(c.SpoolDir, 0o755); err != nil {
		return "", fmt.Errorf("create spool dir: %w", err)
	}
	path := filepath.Join(c.SpoolDir, fmt.Sprintf("capture-%d.jpg", time.Now().UnixMilli()))

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "rpicam-still", "-n", "--immediate", "-o", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("rpicam-still: %w (%s)", err, out)
	}
	return path, nil
}
