// Command signlight drives a dusk-to-dawn LED sign lamp from computed
// sunrise/sunset times, with a pushbutton override and MQTT telemetry.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/sweeney/signlight/internal/astro"
	"github.com/sweeney/signlight/internal/config"
	"github.com/sweeney/signlight/internal/gpio"
	"github.com/sweeney/signlight/internal/logic"
	"github.com/sweeney/signlight/internal/mqtt"
	"github.com/sweeney/signlight/internal/pwm"
	"github.com/sweeney/signlight/internal/status"
	"github.com/sweeney/signlight/internal/web"
)

func main() {
	var (
		configPath    string
		printSchedule bool
		broker        string
		httpAddr      string
		logLevel      string
	)
	pflag.StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	pflag.BoolVar(&printSchedule, "print-schedule", false, "print today's sunrise and sunset, then exit")
	pflag.StringVar(&broker, "broker", "", "MQTT broker address (overrides config)")
	pflag.StringVar(&httpAddr, "http", "", "HTTP status address (overrides config)")
	pflag.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	pflag.Parse()

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if broker != "" {
		cfg.MQTT.Broker = broker
	}
	if httpAddr != "" {
		cfg.HTTP.Addr = httpAddr
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	setupLogging(cfg.Log.Level, cfg.Log.UseJSON, cfg.Log.Colors)

	if err := run(cfg, printSchedule); err != nil {
		log.Fatal().Err(err).Msg("fatal")
	}
}

func setupLogging(level string, useJSON bool, colors bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if useJSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			NoColor:    !colors,
		})
	}

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func run(cfg *config.Config, printSchedule bool) error {
	loc, err := cfg.Timezone.Location()
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	tz := astro.TimeZone{
		Loc:            loc,
		StdOffsetHours: cfg.Timezone.StdOffsetHours,
		DSTOffsetHours: cfg.Timezone.DSTOffsetHours,
	}
	calc := astro.Calculator{Pos: astro.Position{Lat: cfg.Location.Lat, Lon: cfg.Location.Lon}}

	// Print schedule mode
	if printSchedule {
		sched := calc.ScheduleFor(time.Now(), tz)
		fmt.Printf("Sunrise: %s\nSunset:  %s\n",
			sched.Sunrise.Format("2006-01-02 15:04 MST"),
			sched.Sunset.Format("2006-01-02 15:04 MST"))
		return nil
	}

	// Initialize PWM output
	out, err := pwm.NewRealOutput(cfg.Lamp.PWMChip, cfg.Lamp.PWMChannel, cfg.Lamp.PWMPeriod)
	if err != nil {
		return fmt.Errorf("init pwm: %w", err)
	}
	defer out.Close()

	// Initialize the override button (optional)
	var button <-chan time.Time
	if cfg.Button.Enabled {
		btn, err := gpio.NewRealButton(cfg.Button.Pin)
		if err != nil {
			return fmt.Errorf("init button: %w", err)
		}
		defer btn.Close()
		button = btn.Events()
	}

	// Initialize MQTT (optional). A failed connect budget is fatal; the
	// supervisor restarts the process with fresh network state.
	var publisher mqtt.Publisher
	var mqttConn mqtt.ConnectionStatus
	if cfg.MQTT.Broker != "" {
		pub, err := mqtt.NewRealPublisher(cfg.MQTT.Broker)
		if err != nil {
			return fmt.Errorf("connect mqtt: %w", err)
		}
		defer pub.Close()
		publisher = pub
		mqttConn = pub
	}

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		EvalMs:      cfg.Loop.EvalInterval.Duration().Milliseconds(),
		FadeStepMs:  cfg.Lamp.FadeStep.Duration().Milliseconds(),
		DebounceMs:  cfg.Button.Debounce.Duration().Milliseconds(),
		HeartbeatMs: cfg.Loop.Heartbeat.Duration().Milliseconds(),
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
		WSBroker:    cfg.MQTT.WSBroker,
		Latitude:    cfg.Location.Lat,
		Longitude:   cfg.Location.Lon,
		OnDuty:      cfg.Lamp.OnDuty,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Error().Err(err).Msg("http server error")
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Info().Str("addr", cfg.HTTP.Addr).Msg("http status server listening")
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Sunrise/sunset computation needs a sane wall clock. On boot the Pi may
	// not have NTP yet, so poll until the clock looks synchronized.
	syncTicker := time.NewTicker(time.Second)
	ok := waitForClock(time.Now, syncTicker.C, sigCh)
	syncTicker.Stop()
	if !ok {
		return nil
	}
	tracker.SetSynced(true)

	// Publish startup event with full status snapshot
	if publisher != nil {
		snap := tracker.Snapshot()
		startupEvent := mqtt.SystemEvent{
			Timestamp:  snap.Now,
			Event:      "STARTUP",
			Retained:   true,
			RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
		}
		if err := publisher.PublishSystem(startupEvent); err != nil {
			log.Error().Err(err).Msg("failed to publish startup event")
		} else {
			log.Info().Msg("published startup event")
		}
	}

	log.Info().
		Float64("lat", cfg.Location.Lat).
		Float64("lon", cfg.Location.Lon).
		Str("broker", cfg.MQTT.Broker).
		Dur("eval", cfg.Loop.EvalInterval.Duration()).
		Dur("fade_step", cfg.Lamp.FadeStep.Duration()).
		Int("on_duty", cfg.Lamp.OnDuty).
		Msg("started")

	evalTicker := time.NewTicker(cfg.Loop.EvalInterval.Duration())
	defer evalTicker.Stop()
	fadeTicker := time.NewTicker(cfg.Lamp.FadeStep.Duration())
	defer fadeTicker.Stop()

	deps := loopDeps{
		calc:      calc,
		tz:        tz,
		ctl:       logic.NewController(cfg.Lamp.OnDuty, time.Now()),
		deb:       logic.NewDebouncer(cfg.Button.Debounce.Duration()),
		fader:     logic.NewFader(pwm.MaxDuty),
		out:       out,
		publisher: publisher,
		mqttConn:  mqttConn,
		tracker:   tracker,
		heartbeat: cfg.Loop.Heartbeat.Duration(),
	}
	return runLoop(deps, time.Now, button, evalTicker.C, fadeTicker.C, sigCh)
}

// waitForClock blocks until the wall clock reports a plausible year, polling
// on tick. Returns false if a shutdown signal arrives first.
func waitForClock(now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) bool {
	for {
		t := now()
		if logic.ClockSynchronized(t) {
			return true
		}
		log.Info().Int("year", t.Year()).Msg("waiting for time synchronization")
		select {
		case <-tick:
		case s := <-sig:
			log.Info().Str("signal", s.String()).Msg("shutdown requested before clock sync")
			return false
		}
	}
}

// loopDeps bundles the collaborators of runLoop. publisher and mqttConn may
// be nil when MQTT is disabled; button may be a nil channel.
type loopDeps struct {
	calc      astro.Calculator
	tz        astro.TimeZone
	ctl       *logic.Controller
	deb       *logic.Debouncer
	fader     *logic.Fader
	out       pwm.Output
	publisher mqtt.Publisher
	mqttConn  mqtt.ConnectionStatus
	tracker   *status.Tracker
	heartbeat time.Duration
}

func runLoop(l loopDeps, now func() time.Time, button, evalTick, fadeTick <-chan time.Time, sig <-chan os.Signal) error {
	publish := func(ev logic.Event) {
		if l.publisher == nil {
			return
		}
		if err := l.publisher.Publish(ev); err != nil {
			log.Error().Err(err).Str("event", string(ev.Type)).Msg("publish error")
			// Don't crash on publish failure
		}
	}

	evaluate := func(t time.Time) {
		// The clock can step backwards if NTP resyncs badly; skip the
		// cycle rather than compute a schedule for a bogus date.
		if !logic.ClockSynchronized(t) {
			log.Warn().Int("year", t.Year()).Msg("clock not synchronized, skipping evaluation")
			l.tracker.SetSynced(false)
			return
		}
		l.tracker.SetSynced(true)

		sched := l.calc.ScheduleFor(t, l.tz)
		dark := sched.IsDark(t)
		events := l.ctl.Evaluate(t, dark)
		l.fader.SetTarget(l.ctl.TargetDuty())

		for _, ev := range events {
			log.Info().
				Str("event", string(ev.Type)).
				Str("mode", string(ev.Mode)).
				Bool("dark", ev.Dark).
				Int("target_duty", ev.TargetDuty).
				Msg("lamp state change")
			publish(ev)
		}

		l.tracker.SetSchedule(sched.Sunrise, sched.Sunset)
		l.tracker.Update(l.ctl.Mode(), l.ctl.Dark(), l.ctl.Evaluated(), l.ctl.CountsSnapshot())
		if l.mqttConn != nil {
			l.tracker.SetMQTTConnected(l.mqttConn.IsConnected())
		}

		if hb := l.ctl.CheckHeartbeat(t, l.heartbeat); hb != nil {
			log.Info().
				Dur("uptime", hb.Uptime).
				Int("dark", hb.Counts.Dark).
				Int("daylight", hb.Counts.Daylight).
				Msg("heartbeat")

			// Refresh network info for heartbeat
			if net := readNetworkInfo(); net != nil {
				l.tracker.SetNetwork(net)
			}
			snap := l.tracker.Snapshot()
			hbEvent := mqtt.SystemEvent{
				Timestamp:  hb.Timestamp,
				Event:      "HEARTBEAT",
				RawPayload: status.FormatStatusEvent(snap, "HEARTBEAT", ""),
			}
			if l.publisher != nil {
				if err := l.publisher.PublishSystem(hbEvent); err != nil {
					log.Error().Err(err).Msg("heartbeat publish error")
				}
			}
		}
	}

	evaluate(now())

	for {
		select {
		case s := <-sig:
			name := signalName(s)
			log.Info().Str("signal", name).Msg("shutting down")
			if l.publisher != nil {
				event := mqtt.SystemEvent{
					Timestamp: now(),
					Event:     "SHUTDOWN",
					Reason:    name,
					Retained:  true,
				}
				if l.mqttConn != nil {
					l.tracker.SetMQTTConnected(l.mqttConn.IsConnected())
				}
				snap := l.tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", name)
				if err := l.publisher.PublishSystem(event); err != nil {
					log.Error().Err(err).Msg("failed to publish shutdown event")
				} else {
					log.Info().Msg("published shutdown event")
				}
			}
			return nil

		case t := <-button:
			if !l.deb.Accept(t) {
				log.Debug().Msg("button edge ignored by debounce")
				continue
			}
			ev := l.ctl.ToggleOverride(t)
			l.fader.SetTarget(l.ctl.TargetDuty())
			log.Info().
				Str("event", string(ev.Type)).
				Str("mode", string(ev.Mode)).
				Int("target_duty", ev.TargetDuty).
				Msg("override toggled")
			publish(ev)
			l.tracker.Update(l.ctl.Mode(), l.ctl.Dark(), l.ctl.Evaluated(), l.ctl.CountsSnapshot())

		case <-evalTick:
			evaluate(now())

		case <-fadeTick:
			duty, changed := l.fader.Step()
			if !changed {
				continue
			}
			if err := l.out.SetDuty(duty); err != nil {
				log.Error().Err(err).Int("duty", duty).Msg("pwm write error")
			}
			l.tracker.SetDuty(duty, l.fader.Target())
			if l.fader.Settled() {
				log.Debug().Int("duty", duty).Msg("fade settled")
			}
		}
	}
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
