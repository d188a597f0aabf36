package clock

import (
	"testing"
	"time"
)

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFakeClock(start)

	before := f.NowMillis()
	f.Advance(1500 * time.Millisecond)
	after := f.NowMillis()

	if after-before != 1500 {
		t.Errorf("expected 1500ms advance, got %d", after-before)
	}
}

func TestFakeClockFormat(t *testing.T) {
	f := NewFakeClock(time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC))
	if got := f.FormattedLocalTime(); got != "2026-03-04 05:06:07" {
		t.Errorf("unexpected formatted time: %q", got)
	}

	f.Synced = false
	if got := f.FormattedLocalTime(); got != Unavailable {
		t.Errorf("expected %q when unsynced, got %q", Unavailable, got)
	}
}

func TestSystemClockUnsynced(t *testing.T) {
	c := NewSystemClock("UTC")
	if c.Synced() {
		t.Error("new clock should not be synced")
	}
	if got := c.FormattedLocalTime(); got != Unavailable {
		t.Errorf("expected %q before sync, got %q", Unavailable, got)
	}
}

func TestSystemClockMillisIsElapsedCounter(t *testing.T) {
	c := NewSystemClock("UTC")

	// A counter since construction stays tiny; a wall-clock reading
	// (UnixMilli) would be in the trillions.
	a := c.NowMillis()
	if a < 0 || a > time.Minute.Milliseconds() {
		t.Fatalf("NowMillis = %d, want small elapsed counter", a)
	}

	time.Sleep(5 * time.Millisecond)
	if b := c.NowMillis(); b < a {
		t.Errorf("NowMillis went backwards: %d then %d", a, b)
	}
}

func TestSystemClockBadTimezoneKeepsPrevious(t *testing.T) {
	c := NewSystemClock("UTC")
	c.SetTimezone("Not/AZone")
	if c.loc != time.UTC {
		t.Errorf("expected UTC after invalid timezone, got %v", c.loc)
	}
}
