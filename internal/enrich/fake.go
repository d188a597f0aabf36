package enrich

// FakeCamera is a test double for photo capture.
type FakeCamera struct {
	// Path is returned by Capture when Err is nil.
	Path string

	// Err, if set, makes Capture fail.
	Err error

	// Captures counts Capture calls.
	Captures int
}

// Capture returns the scripted path or error.
func (f *FakeCamera) Capture() (string, error) {
	f.Captures++
	if f.Err != nil {
		return "", f.Err
	}
	return f.Path, nil
}

// FakeGPS is a test double for the GPS fix lookup.
type FakeGPS struct {
	Fix string
}

// CurrentFix returns the scripted fix.
func (f *FakeGPS) CurrentFix() string { return f.Fix }

// FakeSensor is a test double for the environmental sensor.
type FakeSensor struct {
	Reading string
}

// FormattedReading returns the scripted reading.
func (f *FakeSensor) FormattedReading() string { return f.Reading }
