package logbuf

import (
	"fmt"
	"testing"
	"time"

	"github.com/sweeney/pinwatch/internal/clock"
)

func newBuffer() *Buffer {
	return New(clock.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)))
}

func TestEmptyBuffer(t *testing.T) {
	b := newBuffer()
	if got := b.Entries(); got != nil {
		t.Errorf("expected nil from empty buffer, got %d entries", len(got))
	}
	if b.Len() != 0 {
		t.Errorf("expected len 0, got %d", b.Len())
	}
}

func TestNewestFirstOrder(t *testing.T) {
	b := newBuffer()
	b.Info("first")
	b.Warning("second")
	b.Error("third")

	got := b.Entries()
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
	if got[0].Message != "third" || got[1].Message != "second" || got[2].Message != "first" {
		t.Errorf("entries not newest-first: %v", got)
	}
	if got[0].Level != LevelError {
		t.Errorf("expected error level first, got %s", got[0].Level)
	}
}

func TestRingOverwritesOldest(t *testing.T) {
	b := newBuffer()
	for i := 0; i < 150; i++ {
		b.Info(fmt.Sprintf("entry-%d", i))
	}

	got := b.Entries()
	if len(got) != Capacity {
		t.Fatalf("expected exactly %d entries, got %d", Capacity, len(got))
	}
	// Newest first: entry-149 down to entry-50.
	if got[0].Message != "entry-149" {
		t.Errorf("expected newest entry-149, got %s", got[0].Message)
	}
	if got[Capacity-1].Message != "entry-50" {
		t.Errorf("expected oldest entry-50, got %s", got[Capacity-1].Message)
	}
}

func TestTimestampFromClock(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC))
	b := New(clk)
	b.Info("stamped")

	got := b.Entries()
	if got[0].Timestamp != "2026-05-06 07:08:09" {
		t.Errorf("unexpected timestamp %q", got[0].Timestamp)
	}
}
