// Command pinwatch monitors digital inputs and fans alerts out to the
// configured notification channels over WiFi or cellular.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/sweeney/pinwatch/internal/clock"
	"github.com/sweeney/pinwatch/internal/config"
	"github.com/sweeney/pinwatch/internal/enrich"
	"github.com/sweeney/pinwatch/internal/gpio"
	"github.com/sweeney/pinwatch/internal/link"
	"github.com/sweeney/pinwatch/internal/logbuf"
	"github.com/sweeney/pinwatch/internal/monitor"
	"github.com/sweeney/pinwatch/internal/notify"
	"github.com/sweeney/pinwatch/internal/status"
	"github.com/sweeney/pinwatch/internal/tasks"
	"github.com/sweeney/pinwatch/internal/web"
)

var (
	settingsPath string
	board        string

	rootCmd = &cobra.Command{
		Use:   "pinwatch",
		Short: "GPIO alert gateway",
		Long:  "Monitors four digital inputs and delivers debounced alerts over push, email, chat, SMS and MQTT.",
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the daemon",
		RunE:  runDaemon,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("pinwatch v0.1.0")
		},
	}

	printStateCmd = &cobra.Command{
		Use:   "print-state",
		Short: "Print current input levels and exit",
		RunE:  printState,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "c", "/etc/pinwatch/settings.yaml", "Settings file path")
	rootCmd.PersistentFlags().StringVar(&board, "board", config.BoardPi, "Board variant (pi, pi-lite)")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(printStateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printState(cmd *cobra.Command, args []string) error {
	store := config.NewFileStore(settingsPath, board)
	settings, err := store.Load()
	if err != nil {
		return err
	}

	pins, err := gpio.NewRealReader()
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pins.Close()

	for i, in := range settings.Inputs {
		if !in.Enabled {
			fmt.Printf("input %d (%s): disabled\n", i, in.Name)
			continue
		}
		if err := pins.ConfigureInput(in.Pin); err != nil {
			return fmt.Errorf("input %d: configure pin %d: %w", i, in.Pin, err)
		}
		level, err := pins.ReadLevel(in.Pin)
		if err != nil {
			return fmt.Errorf("input %d: read pin %d: %w", i, in.Pin, err)
		}
		state := "LOW"
		if level {
			state = "HIGH"
		}
		fmt.Printf("input %d (%s, pin %d): %s\n", i, in.Name, in.Pin, state)
	}
	return nil
}

func runDaemon(cmd *cobra.Command, args []string) error {
	store := config.NewFileStore(settingsPath, board)
	settings, err := store.Load()
	if err != nil {
		return err
	}

	clk := clock.NewSystemClock(settings.Timezone)
	logb := logbuf.New(clk)

	pins, err := gpio.NewRealReader()
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer pins.Close()

	var modem link.Modem
	if settings.Cellular.Enabled {
		sm := link.NewSerialModem(settings.Cellular.SerialPort)
		defer sm.Close()
		modem = sm
	}
	links := link.NewManager(clk, logb, link.NewSupplicantRadio(), modem)

	sensor := enrich.NewSysfsSensor()
	dispatcher := notify.NewDispatcher(settings, clk, logb, links, sensor)
	defer dispatcher.CloseTransports()

	camera := enrich.NewRpicamCamera(settings.Photo.SpoolDir)
	mon := monitor.New(clk, logb, pins, camera, enrich.NullGPS{}, dispatcher, settings)

	d := &daemon{
		settings:   settings,
		store:      store,
		clk:        clk,
		log:        logb,
		queue:      tasks.NewQueue(),
		links:      links,
		monitor:    mon,
		dispatcher: dispatcher,
		tracker:    status.NewTracker(clk.Now(), statusConfig(settings)),
	}
	links.OnWiFiFailed = d.enterSetupMode
	d.resync = clk.Resync

	if err := clk.Resync(settings.NTPServer); err != nil {
		logb.Warning("clock: ntp resync: " + err.Error())
	}

	// Cellular bring-up blocks, but only here at boot. WiFi association
	// is non-blocking and completes from the tick loop.
	if settings.Cellular.Enabled {
		if err := links.BeginCellularConnect(); err != nil {
			logb.Warning("cellular unavailable, continuing without it")
		}
	}
	if settings.WiFi.SSID != "" {
		links.BeginWiFiConnect(settings.WiFi.SSID, settings.WiFi.Password)
	} else {
		d.enterSetupMode()
	}

	mon.ApplyConfig(settings)

	srv := web.New(settings.HTTPAddr, web.Deps{
		Tracker:  d.tracker,
		Log:      logb,
		Tasks:    d.queue,
		Settings: d.currentSettings,
		Apply:    d.applySettings,
		TestSend: dispatcher.TestSend,
	})
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logb.Error("http server: " + err.Error())
		}
	}()
	defer srv.Shutdown(cmd.Context())
	logb.Info("web interface listening on " + settings.HTTPAddr)

	return d.run()
}
