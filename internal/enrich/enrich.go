// Package enrich defines the alert-enrichment collaborators: photo
// capture, GPS fix lookup and the environmental sensor reading. Each is a
// narrow interface; a failing collaborator never blocks the notification
// it was enriching.
package enrich

// Camera captures a photo and returns the path of the JPEG file.
type Camera interface {
	Capture() (string, error)
}

// GPS returns the current fix as a formatted "lat,lon" string, or empty
// when there is no fix or the hardware is absent.
type GPS interface {
	CurrentFix() string
}

// Sensor returns a formatted environmental reading (e.g. "22.4C 41%RH"),
// or empty when the sensor is not responding.
type Sensor interface {
	FormattedReading() string
}

// NullGPS is the GPS collaborator for boards without a GNSS receiver.
type NullGPS struct{}

// CurrentFix always returns empty.
func (NullGPS) CurrentFix() string { return "" }

// NullSensor is the sensor collaborator for boards without the
// environmental sensor fitted.
type NullSensor struct{}

// FormattedReading always returns empty.
func (NullSensor) FormattedReading() string { return "" }
