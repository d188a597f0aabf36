package main

import (
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sweeney/pinwatch/internal/clock"
	"github.com/sweeney/pinwatch/internal/config"
	"github.com/sweeney/pinwatch/internal/link"
	"github.com/sweeney/pinwatch/internal/logbuf"
	"github.com/sweeney/pinwatch/internal/monitor"
	"github.com/sweeney/pinwatch/internal/notify"
	"github.com/sweeney/pinwatch/internal/status"
	"github.com/sweeney/pinwatch/internal/tasks"
)

// TickInterval paces the main loop. Every piece of periodic work hangs
// off this one cadence.
const TickInterval = 50 * time.Millisecond

// daemon wires the components together and owns the tick loop. All core
// state mutation happens on that loop; web handlers only read snapshots
// and enqueue deferred tasks.
type daemon struct {
	mu       sync.Mutex
	settings *config.Settings

	store      config.Store
	clk        *clock.SystemClock
	log        *logbuf.Buffer
	queue      *tasks.Queue
	links      *link.Manager
	monitor    *monitor.Monitor
	dispatcher *notify.Dispatcher
	tracker    *status.Tracker
	setupMode  bool

	// resync points at clk.Resync; injectable for tests.
	resync func(server string) error
}

// currentSettings returns a copy for display. Settings contains no
// reference types, so a value copy is a full copy.
func (d *daemon) currentSettings() config.Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return *d.settings
}

// applySettings persists and applies a validated settings value. Runs on
// the tick loop via the task queue.
func (d *daemon) applySettings(next config.Settings) {
	prev := d.currentSettings()

	if err := d.store.Save(&next); err != nil {
		d.log.Error("settings: save: " + err.Error())
	}

	// Components hold the shared pointer; overwrite in place.
	d.mu.Lock()
	*d.settings = next
	d.mu.Unlock()

	d.clk.SetTimezone(next.Timezone)
	d.monitor.ApplyConfig(d.settings)
	d.dispatcher.SetConfig(d.settings)
	d.tracker.SetConfig(statusConfig(d.settings))

	if next.WiFi.SSID != "" &&
		(next.WiFi.SSID != prev.WiFi.SSID || next.WiFi.Password != prev.WiFi.Password) {
		d.setupMode = false
		d.links.BeginWiFiConnect(next.WiFi.SSID, next.WiFi.Password)
	}
	// A timezone change re-verifies wall time too, so the formatted
	// local timestamps are trustworthy in the new zone.
	if next.NTPServer != prev.NTPServer || next.Timezone != prev.Timezone {
		if err := d.resync(next.NTPServer); err != nil {
			d.log.Warning("clock: ntp resync: " + err.Error())
		}
	}

	d.log.Success("settings saved and applied")
}

// enterSetupMode is the WiFi-failed path: the device stays up on its
// local access point so the user can fix the credentials.
func (d *daemon) enterSetupMode() {
	if d.setupMode {
		return
	}
	d.setupMode = true
	d.log.Warning("wifi unavailable, setup access point active until credentials are saved")
}

func statusConfig(s *config.Settings) status.Config {
	return status.Config{
		Board:     s.Board,
		Timezone:  s.Timezone,
		NTPServer: s.NTPServer,
		HTTPAddr:  s.HTTPAddr,
	}
}

func (d *daemon) refreshTracker() {
	s := d.currentSettings()
	wifi := status.LinkInfo{
		State:   d.links.Status(link.WiFi),
		Name:    d.links.SSID(),
		Signal:  d.links.WiFiSignal(),
		Enabled: s.WiFi.SSID != "",
	}
	cell := status.LinkInfo{
		State:   d.links.Status(link.Cellular),
		Name:    d.links.Operator(),
		Signal:  d.links.CellularSignal(),
		Enabled: s.Cellular.Enabled,
	}
	d.tracker.Update(wifi, cell, d.monitor.Levels(), d.dispatcher.QueueDepth(), d.clk.Synced())
}

// run starts the ticker and signal handling, then blocks in the loop.
func (d *daemon) run() error {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	d.log.Info("pinwatch running")
	d.runLoop(ticker.C, sigCh)
	return nil
}

// runLoop is the single-threaded heart of the daemon. Per tick it runs
// deferred tasks, then the WiFi state machine, then due retries, then
// the input slots, then the status refresh. Tasks go first so a settings
// change applies before the slots it affects are evaluated.
func (d *daemon) runLoop(tick <-chan time.Time, sig <-chan os.Signal) {
	for {
		select {
		case s := <-sig:
			d.log.Info(fmt.Sprintf("received %v, shutting down", s))
			return

		case <-tick:
			d.queue.Drain()
			d.links.PollWiFi()
			d.dispatcher.ProcessRetries()
			d.monitor.Tick()
			d.refreshTracker()
		}
	}
}
