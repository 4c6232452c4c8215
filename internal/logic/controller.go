package logic

import "time"

// Controller resolves the effective target duty from the current darkness
// classification and the override mode. It is owned by the control loop;
// button edges reach it only as already-debounced ToggleOverride calls.
type Controller struct {
	onDuty        int
	mode          Mode
	dark          bool
	evaluated     bool
	startTime     time.Time
	counts        EventCounts
	lastHeartbeat time.Time
}

// NewController creates a controller with the given full-on duty cycle.
// The startTime is used for calculating uptime in heartbeat events.
func NewController(onDuty int, startTime time.Time) *Controller {
	return &Controller{
		onDuty:        onDuty,
		mode:          ModeAuto,
		startTime:     startTime,
		lastHeartbeat: startTime,
	}
}

// Evaluate records the darkness classification for this cycle and returns
// any events that should be emitted. The first evaluation always emits an
// event so consumers learn the initial state. Darkness is tracked even while
// an override is active.
func (c *Controller) Evaluate(now time.Time, dark bool) []Event {
	if c.evaluated && dark == c.dark {
		return nil
	}
	c.dark = dark
	c.evaluated = true

	typ := EventDaylight
	if dark {
		typ = EventDark
		c.counts.Dark++
	} else {
		c.counts.Daylight++
	}

	return []Event{{
		Timestamp:  now,
		Type:       typ,
		Mode:       c.mode,
		Dark:       dark,
		TargetDuty: c.TargetDuty(),
	}}
}

// ToggleOverride consumes one accepted button press. In automatic mode it
// enters the override forcing the opposite of the current scheduled target;
// in either override mode it returns to automatic.
func (c *Controller) ToggleOverride(now time.Time) Event {
	var typ EventType

	switch c.mode {
	case ModeAuto:
		if c.TargetDuty() > 0 {
			c.mode = ModeOverrideOff
			typ = EventOverrideOff
			c.counts.OverrideOff++
		} else {
			c.mode = ModeOverrideOn
			typ = EventOverrideOn
			c.counts.OverrideOn++
		}
	default:
		c.mode = ModeAuto
		typ = EventOverrideClear
		c.counts.OverrideClear++
	}

	return Event{
		Timestamp:  now,
		Type:       typ,
		Mode:       c.mode,
		Dark:       c.dark,
		TargetDuty: c.TargetDuty(),
	}
}

// TargetDuty returns the duty cycle the output should fade toward.
func (c *Controller) TargetDuty() int {
	switch c.mode {
	case ModeOverrideOn:
		return c.onDuty
	case ModeOverrideOff:
		return 0
	default:
		if c.dark {
			return c.onDuty
		}
		return 0
	}
}

// Mode returns the current control mode.
func (c *Controller) Mode() Mode {
	return c.mode
}

// Dark returns the last recorded darkness classification.
func (c *Controller) Dark() bool {
	return c.dark
}

// Evaluated reports whether at least one evaluation has happened.
func (c *Controller) Evaluated() bool {
	return c.evaluated
}

// CountsSnapshot returns a copy of the event counters.
func (c *Controller) CountsSnapshot() EventCounts {
	return c.counts
}

// CheckHeartbeat returns heartbeat data if the interval has elapsed since
// the last heartbeat (or startup). Returns nil before the first evaluation,
// if the interval has not elapsed, or if interval is <= 0 (disabled).
func (c *Controller) CheckHeartbeat(now time.Time, interval time.Duration) *HeartbeatData {
	if interval <= 0 {
		return nil
	}
	if !c.evaluated {
		return nil
	}
	if now.Sub(c.lastHeartbeat) < interval {
		return nil
	}

	c.lastHeartbeat = now
	return &HeartbeatData{
		Timestamp: now,
		Uptime:    now.Sub(c.startTime),
		Counts:    c.counts,
	}
}
