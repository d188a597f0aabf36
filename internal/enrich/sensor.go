package enrich

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SysfsSensor reads temperature and humidity from the kernel IIO driver
// for the on-board environmental sensor.
type SysfsSensor struct {
	TempPath     string // millidegrees C
	HumidityPath string // millipercent RH
}

// NewSysfsSensor creates a sensor reading the default IIO device paths.
func NewSysfsSensor() *SysfsSensor {
	return &SysfsSensor{
		TempPath:     "/sys/bus/iio/devices/iio:device0/in_temp_input",
		HumidityPath: "/sys/bus/iio/devices/iio:device0/in_humidityrelative_input",
	}
}

// FormattedReading returns "22.4C 41%RH", or empty if either value is
// unreadable.
func (s *SysfsSensor) FormattedReading() string {
	temp, err := readMilli(s.TempPath)
	if err != nil {
		return ""
	}
	hum, err := readMilli(s.HumidityPath)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%.1fC %.0f%%RH", temp, hum)
}

func readMilli(path string) (float64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, err
	}
	return v / 1000, nil
}
