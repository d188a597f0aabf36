package clock

import "time"

// FakeClock is a test double with a settable, manually advanced time.
type FakeClock struct {
	// Current is the time returned by Now and NowMillis.
	Current time.Time

	// Synced controls whether FormattedLocalTime returns a real
	// timestamp or "unavailable".
	Synced bool
}

// NewFakeClock creates a synced FakeClock starting at the given time.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{Current: start, Synced: true}
}

// NowMillis returns the fake time in milliseconds.
func (f *FakeClock) NowMillis() int64 {
	return f.Current.UnixMilli()
}

// Now returns the fake time.
func (f *FakeClock) Now() time.Time {
	return f.Current
}

// FormattedLocalTime formats the fake time, or returns "unavailable" if
// Synced is false.
func (f *FakeClock) FormattedLocalTime() string {
	if !f.Synced {
		return Unavailable
	}
	return f.Current.Format(TimeFormat)
}

// Advance moves the fake time forward.
func (f *FakeClock) Advance(d time.Duration) {
	f.Current = f.Current.Add(d)
}
