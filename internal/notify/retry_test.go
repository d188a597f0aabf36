package notify

import (
	"testing"
	"time"

	"github.com/sweeney/pinwatch/internal/logbuf"
)

// queueOneFailure arms a pushbullet sender that fails on the initial
// dispatch, leaving one entry in the retry queue.
func queueOneFailure(d *Dispatcher, sender *scriptedSender) {
	d.cfg.Pushbullet.Enabled = true
	d.cfg.Pushbullet.Token = "tok"
	d.table[ServicePushbullet] = senderPair{wifi: sender.send}
	d.Dispatch("alert", "door opened", "")
}

func TestRetryNotDueBeforeDelay(t *testing.T) {
	d, clk, _ := newTestDispatcher(&fakeLinks{wifi: true}, nil)
	sender := &scriptedSender{ok: false}
	queueOneFailure(d, sender)

	clk.Advance(RetryDelay - 1)
	d.ProcessRetries()

	if len(sender.calls) != 1 {
		t.Fatalf("sender called %d times, want only the initial attempt", len(sender.calls))
	}
	if d.QueueDepth() != 1 {
		t.Fatalf("queue depth = %d, want 1", d.QueueDepth())
	}
}

func TestRetrySuccessRemovesEntry(t *testing.T) {
	d, clk, buf := newTestDispatcher(&fakeLinks{wifi: true}, nil)
	sender := &scriptedSender{ok: false}
	queueOneFailure(d, sender)

	sender.ok = true
	clk.Advance(RetryDelay)
	d.ProcessRetries()

	if len(sender.calls) != 2 {
		t.Fatalf("sender called %d times, want 2", len(sender.calls))
	}
	if d.QueueDepth() != 0 {
		t.Fatalf("queue depth = %d, want 0", d.QueueDepth())
	}
	if !hasLogEntry(buf, logbuf.LevelSuccess, "retry delivered") {
		t.Fatal("expected a retry-delivered entry")
	}
}

func TestRetryBackoffIsLinear(t *testing.T) {
	d, clk, _ := newTestDispatcher(&fakeLinks{wifi: true}, nil)
	sender := &scriptedSender{ok: false}
	queueOneFailure(d, sender)

	// First retry fires at +RetryDelay and fails; the second is then
	// rescheduled RetryDelay*2 later, not RetryDelay.
	clk.Advance(RetryDelay)
	d.ProcessRetries()
	if len(sender.calls) != 2 {
		t.Fatalf("sender called %d times after first retry, want 2", len(sender.calls))
	}

	clk.Advance(2*RetryDelay - 1)
	d.ProcessRetries()
	if len(sender.calls) != 2 {
		t.Fatalf("second retry fired early: %d calls", len(sender.calls))
	}

	clk.Advance(1)
	d.ProcessRetries()
	if len(sender.calls) != 3 {
		t.Fatalf("sender called %d times, want 3", len(sender.calls))
	}
}

func TestRetryDropsAfterMaxAttempts(t *testing.T) {
	d, clk, buf := newTestDispatcher(&fakeLinks{wifi: true}, nil)
	sender := &scriptedSender{ok: false}
	queueOneFailure(d, sender)

	// Walk the clock far enough that every scheduled retry fires.
	for i := 0; i < MaxRetries; i++ {
		clk.Advance(RetryDelay * time.Duration(MaxRetries+1))
		d.ProcessRetries()
	}

	if got := len(sender.calls); got != 1+MaxRetries {
		t.Fatalf("sender called %d times, want %d", got, 1+MaxRetries)
	}
	if d.QueueDepth() != 0 {
		t.Fatalf("queue depth = %d, want 0 after permanent failure", d.QueueDepth())
	}
	if !hasLogEntry(buf, logbuf.LevelError, "permanent failure after 4 attempts") {
		t.Fatal("expected a permanent-failure entry")
	}
}

func TestRetriesUseWiFiSenderOnly(t *testing.T) {
	d, clk, _ := newTestDispatcher(&fakeLinks{wifi: true, cellular: true}, nil)
	d.cfg.Pushbullet.Enabled = true
	d.cfg.Pushbullet.Token = "tok"

	wifi := &scriptedSender{ok: false}
	cell := &scriptedSender{ok: true}
	d.table[ServicePushbullet] = senderPair{wifi: wifi.send, cellular: cell.send}

	d.Dispatch("alert", "door opened", "")
	wifi.ok = true
	clk.Advance(RetryDelay)
	d.ProcessRetries()

	if len(wifi.calls) != 2 {
		t.Fatalf("wifi sender called %d times, want 2", len(wifi.calls))
	}
	if len(cell.calls) != 0 {
		t.Fatalf("cellular sender called %d times during retry, want 0", len(cell.calls))
	}
}

func TestRetriesProcessedInInsertionOrder(t *testing.T) {
	d, clk, _ := newTestDispatcher(&fakeLinks{wifi: true}, nil)
	d.cfg.Pushbullet.Enabled = true
	d.cfg.Pushbullet.Token = "tok"
	d.cfg.Telegram.Enabled = true
	d.cfg.Telegram.Token = "tok"
	d.cfg.Telegram.ChatID = 42

	var order []Service
	retryOK := false
	record := func(svc Service) SendFunc {
		return func(n Notification) bool {
			order = append(order, svc)
			return retryOK
		}
	}
	d.table[ServicePushbullet] = senderPair{wifi: record(ServicePushbullet)}
	d.table[ServiceTelegram] = senderPair{wifi: record(ServiceTelegram)}

	d.Dispatch("alert", "door opened", "")
	if d.QueueDepth() != 2 {
		t.Fatalf("queue depth = %d, want 2", d.QueueDepth())
	}

	order = order[:0]
	retryOK = true
	clk.Advance(RetryDelay)
	d.ProcessRetries()

	if len(order) != 2 || order[0] != ServicePushbullet || order[1] != ServiceTelegram {
		t.Fatalf("retry order = %v", order)
	}
	if d.QueueDepth() != 0 {
		t.Fatalf("queue depth = %d, want 0", d.QueueDepth())
	}
}
