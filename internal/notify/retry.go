package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxRetries bounds redelivery attempts per queued failure. With
	// the immediate attempt, an always-failing send is tried exactly
	// 1 + MaxRetries times.
	MaxRetries = 3

	// RetryDelay is the base redelivery delay. The Nth retry is
	// rescheduled RetryDelay*N after the failure that triggered it,
	// a linear ramp.
	RetryDelay = 30 * time.Second
)

// PendingRetry is one failed send awaiting redelivery.
type PendingRetry struct {
	ID            string
	Service       Service
	Title         string
	Body          string
	RetryCount    int
	NextAttemptAt int64 // clock millis
}

func (d *Dispatcher) enqueueRetry(svc Service, n Notification) {
	r := &PendingRetry{
		ID:            uuid.NewString(),
		Service:       svc,
		Title:         n.Title,
		Body:          n.Body,
		NextAttemptAt: d.clk.NowMillis() + RetryDelay.Milliseconds(),
	}
	d.queue = append(d.queue, r)
	d.log.Warning(fmt.Sprintf("%s: send failed, queued for retry (%s)", svc, r.ID))
}

// ProcessRetries runs due retries. Called every tick; entries are visited
// in insertion order and fire only when due. Retries go through the
// WiFi-path sender only; the connection mode is not re-evaluated.
func (d *Dispatcher) ProcessRetries() {
	if len(d.queue) == 0 {
		return
	}
	now := d.clk.NowMillis()

	kept := d.queue[:0]
	for _, r := range d.queue {
		if now < r.NextAttemptAt {
			kept = append(kept, r)
			continue
		}

		sender := d.table[r.Service].wifi
		ok := sender != nil && sender(Notification{Title: r.Title, Body: r.Body})
		if ok {
			d.log.Success(fmt.Sprintf("%s: retry delivered %q", r.Service, r.Title))
			continue
		}

		r.RetryCount++
		if r.RetryCount >= MaxRetries {
			d.log.Error(fmt.Sprintf("%s: permanent failure after %d attempts, dropping %q",
				r.Service, 1+MaxRetries, r.Title))
			continue
		}
		r.NextAttemptAt = now + RetryDelay.Milliseconds()*int64(r.RetryCount+1)
		kept = append(kept, r)
	}
	d.queue = kept
}

// QueueDepth returns the number of pending retries (for the status view).
func (d *Dispatcher) QueueDepth() int {
	return len(d.queue)
}
