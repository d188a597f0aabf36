// Package logbuf provides the on-device event log: a fixed-capacity ring
// of timestamped, leveled entries served to the web UI newest-first. Every
// append is also mirrored to the process log.
package logbuf

import (
	"log"
	"sync"

	"github.com/sweeney/pinwatch/internal/clock"
)

// Capacity is the number of entries retained. Older entries are
// overwritten once the ring is full.
const Capacity = 100

// Level classifies a log entry.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Entry is a single timestamped log line.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
}

// Buffer is a fixed-capacity ring of entries. Appends happen on the tick
// loop; reads come from web handlers, so access is mutex-guarded.
type Buffer struct {
	mu    sync.RWMutex
	clk   clock.Clock
	buf   [Capacity]Entry
	head  int // next write position
	count int
}

// New creates an empty Buffer stamping entries from the given clock.
func New(clk clock.Clock) *Buffer {
	return &Buffer{clk: clk}
}

// Append records an entry, overwriting the oldest once full.
func (b *Buffer) Append(level Level, msg string) {
	b.mu.Lock()
	b.buf[b.head] = Entry{
		Timestamp: b.clk.FormattedLocalTime(),
		Level:     level,
		Message:   msg,
	}
	b.head = (b.head + 1) % Capacity
	if b.count < Capacity {
		b.count++
	}
	b.mu.Unlock()

	log.Printf("%s: %s", level, msg)
}

// Info logs at info level.
func (b *Buffer) Info(msg string) { b.Append(LevelInfo, msg) }

// Success logs at success level.
func (b *Buffer) Success(msg string) { b.Append(LevelSuccess, msg) }

// Warning logs at warning level.
func (b *Buffer) Warning(msg string) { b.Append(LevelWarning, msg) }

// Error logs at error level.
func (b *Buffer) Error(msg string) { b.Append(LevelError, msg) }

// Entries returns a newest-first copy of the retained entries.
func (b *Buffer) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.count == 0 {
		return nil
	}
	out := make([]Entry, b.count)
	// Newest entry is just behind head.
	for i := 0; i < b.count; i++ {
		idx := (b.head - 1 - i + Capacity) % Capacity
		out[i] = b.buf[idx]
	}
	return out
}

// Len returns the number of retained entries.
func (b *Buffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}
