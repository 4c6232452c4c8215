package internal

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/signlight/internal/astro"
	"github.com/sweeney/signlight/internal/logic"
	"github.com/sweeney/signlight/internal/mqtt"
	"github.com/sweeney/signlight/internal/pwm"
)

const onDuty = 192

func omahaSetup(t *testing.T) (astro.Calculator, astro.TimeZone) {
	t.Helper()
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	calc := astro.Calculator{Pos: astro.Position{Lat: 41.2565, Lon: -95.9345}}
	tz := astro.TimeZone{Loc: loc, StdOffsetHours: -6, DSTOffsetHours: -5}
	return calc, tz
}

// TestIntegrationDuskToDawnCycle walks a full day hour by hour and checks the
// schedule, controller, and publisher together produce exactly the dusk and
// dawn transitions.
func TestIntegrationDuskToDawnCycle(t *testing.T) {
	calc, tz := omahaSetup(t)
	publisher := mqtt.NewFakePublisher()

	start := time.Date(2026, 1, 15, 12, 0, 0, 0, tz.Loc)
	ctl := logic.NewController(onDuty, start)

	// Noon to noon, hourly evaluations.
	for i := 0; i <= 24; i++ {
		now := start.Add(time.Duration(i) * time.Hour)
		sched := calc.ScheduleFor(now, tz)
		for _, event := range ctl.Evaluate(now, sched.IsDark(now)) {
			if err := publisher.Publish(event); err != nil {
				t.Fatalf("hour %d: publish error: %v", i, err)
			}
		}
	}

	// Initial DAYLIGHT, DARK at dusk, DAYLIGHT again after dawn.
	if len(publisher.Events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(publisher.Events))
	}

	wantTypes := []logic.EventType{logic.EventDaylight, logic.EventDark, logic.EventDaylight}
	for i, want := range wantTypes {
		if publisher.Events[i].Type != want {
			t.Errorf("event %d: expected %s, got %s", i, want, publisher.Events[i].Type)
		}
	}

	// Dusk in Omaha in mid-January falls between 17:00 and 18:00 local,
	// dawn between 07:00 and 08:00.
	dusk := publisher.Events[1].Timestamp.In(tz.Loc)
	if dusk.Hour() != 18 {
		t.Errorf("first dark evaluation at hour %d, want 18", dusk.Hour())
	}
	dawn := publisher.Events[2].Timestamp.In(tz.Loc)
	if dawn.Hour() != 8 {
		t.Errorf("first daylight evaluation at hour %d, want 8", dawn.Hour())
	}

	if publisher.Events[1].TargetDuty != onDuty {
		t.Errorf("dark target duty: got %d, want %d", publisher.Events[1].TargetDuty, onDuty)
	}
	if publisher.Events[2].TargetDuty != 0 {
		t.Errorf("daylight target duty: got %d, want 0", publisher.Events[2].TargetDuty)
	}

	// All payloads are well-formed JSON with the lamp envelope.
	for i, payload := range publisher.Payloads {
		var parsed mqtt.Payload
		if err := json.Unmarshal(payload, &parsed); err != nil {
			t.Errorf("payload %d: invalid JSON: %v", i, err)
		}
		if parsed.Lamp.Timestamp == "" || parsed.Lamp.Event == "" {
			t.Errorf("payload %d: missing fields: %s", i, payload)
		}
	}
}

// TestIntegrationFadePipeline drives the fader into a fake PWM output and
// verifies the ramp is gap-free in both directions.
func TestIntegrationFadePipeline(t *testing.T) {
	out := pwm.NewFakeOutput()
	fader := logic.NewFader(pwm.MaxDuty)

	fader.SetTarget(onDuty)
	for {
		duty, changed := fader.Step()
		if !changed {
			break
		}
		if err := out.SetDuty(duty); err != nil {
			t.Fatalf("pwm write: %v", err)
		}
	}

	if len(out.Writes) != onDuty {
		t.Fatalf("fade up: expected %d writes, got %d", onDuty, len(out.Writes))
	}
	for i, w := range out.Writes {
		if w != i+1 {
			t.Fatalf("fade up write %d: got %d, want %d", i, w, i+1)
		}
	}

	out.Reset()
	fader.SetTarget(0)
	for {
		duty, changed := fader.Step()
		if !changed {
			break
		}
		if err := out.SetDuty(duty); err != nil {
			t.Fatalf("pwm write: %v", err)
		}
	}

	if len(out.Writes) != onDuty {
		t.Fatalf("fade down: expected %d writes, got %d", onDuty, len(out.Writes))
	}
	if out.Last() != 0 {
		t.Errorf("fade down final duty: got %d, want 0", out.Last())
	}
}

// TestIntegrationOverrideLifecycle exercises debounce, override toggling,
// and fading as one pipeline during daylight.
func TestIntegrationOverrideLifecycle(t *testing.T) {
	calc, tz := omahaSetup(t)
	publisher := mqtt.NewFakePublisher()
	out := pwm.NewFakeOutput()

	noon := time.Date(2026, 6, 15, 12, 0, 0, 0, tz.Loc)
	ctl := logic.NewController(onDuty, noon)
	deb := logic.NewDebouncer(200 * time.Millisecond)
	fader := logic.NewFader(pwm.MaxDuty)

	sched := calc.ScheduleFor(noon, tz)
	for _, event := range ctl.Evaluate(noon, sched.IsDark(noon)) {
		publisher.Publish(event)
	}
	fader.SetTarget(ctl.TargetDuty())

	// A press with two contact bounces: exactly one toggle.
	presses := []time.Time{
		noon.Add(time.Second),
		noon.Add(time.Second + 30*time.Millisecond),
		noon.Add(time.Second + 70*time.Millisecond),
	}
	for _, p := range presses {
		if !deb.Accept(p) {
			continue
		}
		publisher.Publish(ctl.ToggleOverride(p))
		fader.SetTarget(ctl.TargetDuty())
	}

	if ctl.Mode() != logic.ModeOverrideOn {
		t.Fatalf("mode after press: got %s, want %s", ctl.Mode(), logic.ModeOverrideOn)
	}

	for {
		duty, changed := fader.Step()
		if !changed {
			break
		}
		out.SetDuty(duty)
	}
	if out.Last() != onDuty {
		t.Errorf("lamp duty under override: got %d, want %d", out.Last(), onDuty)
	}

	// Second distinct press clears the override; daylight pulls the lamp
	// back off.
	clear := noon.Add(time.Minute)
	if !deb.Accept(clear) {
		t.Fatal("expected press to be accepted after debounce gap")
	}
	publisher.Publish(ctl.ToggleOverride(clear))
	fader.SetTarget(ctl.TargetDuty())

	for {
		duty, changed := fader.Step()
		if !changed {
			break
		}
		out.SetDuty(duty)
	}
	if out.Last() != 0 {
		t.Errorf("lamp duty after clear: got %d, want 0", out.Last())
	}

	wantTypes := []logic.EventType{logic.EventDaylight, logic.EventOverrideOn, logic.EventOverrideClear}
	if len(publisher.Events) != len(wantTypes) {
		t.Fatalf("expected %d events, got %d", len(wantTypes), len(publisher.Events))
	}
	for i, want := range wantTypes {
		if publisher.Events[i].Type != want {
			t.Errorf("event %d: expected %s, got %s", i, want, publisher.Events[i].Type)
		}
	}
}

// TestIntegrationPayloadFormat verifies the exact JSON structure on the wire.
func TestIntegrationPayloadFormat(t *testing.T) {
	event := logic.Event{
		Timestamp:  time.Date(2026, 1, 15, 23, 0, 0, 0, time.UTC),
		Type:       logic.EventDark,
		Mode:       logic.ModeAuto,
		Dark:       true,
		TargetDuty: onDuty,
	}

	publisher := mqtt.NewFakePublisher()
	publisher.Publish(event)

	expected := `{"lamp":{"timestamp":"2026-01-15T23:00:00Z","event":"DARK","mode":"AUTO","dark":true,"target_duty":192}}`
	if string(publisher.Payloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", publisher.Payloads[0], expected)
	}
}

// TestIntegrationShutdownPayloadFormat verifies the exact JSON structure for
// plain system events.
func TestIntegrationShutdownPayloadFormat(t *testing.T) {
	publisher := mqtt.NewFakePublisher()

	event := mqtt.SystemEvent{
		Timestamp: time.Date(2026, 2, 3, 10, 30, 45, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	}
	publisher.PublishSystem(event)

	expected := `{"system":{"timestamp":"2026-02-03T10:30:45Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(publisher.SystemPayloads[0]) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", publisher.SystemPayloads[0], expected)
	}
}

// TestIntegrationOverrideSurvivesSchedule verifies darkness changes during an
// override only take effect once the override is cleared.
func TestIntegrationOverrideSurvivesSchedule(t *testing.T) {
	calc, tz := omahaSetup(t)

	afternoon := time.Date(2026, 1, 15, 15, 0, 0, 0, tz.Loc)
	ctl := logic.NewController(onDuty, afternoon)

	sched := calc.ScheduleFor(afternoon, tz)
	ctl.Evaluate(afternoon, sched.IsDark(afternoon))
	if ctl.TargetDuty() != 0 {
		t.Fatalf("expected lamp off in the afternoon")
	}

	// Force on, then let the sun set underneath the override.
	ctl.ToggleOverride(afternoon.Add(time.Minute))
	if ctl.TargetDuty() != onDuty {
		t.Fatalf("expected lamp on under override")
	}

	evening := time.Date(2026, 1, 15, 19, 0, 0, 0, tz.Loc)
	sched = calc.ScheduleFor(evening, tz)
	events := ctl.Evaluate(evening, sched.IsDark(evening))
	if len(events) != 1 || events[0].Type != logic.EventDark {
		t.Fatalf("expected DARK event while overridden, got %+v", events)
	}
	if ctl.TargetDuty() != onDuty {
		t.Errorf("override target changed by schedule: got %d", ctl.TargetDuty())
	}

	// Clearing returns to automatic, which is now dark, so the lamp stays on.
	ctl.ToggleOverride(evening.Add(time.Minute))
	if ctl.Mode() != logic.ModeAuto {
		t.Errorf("mode after clear: got %s", ctl.Mode())
	}
	if ctl.TargetDuty() != onDuty {
		t.Errorf("expected lamp to stay on after clear at night, got %d", ctl.TargetDuty())
	}
}
