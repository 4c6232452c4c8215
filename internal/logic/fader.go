package logic

// Fader owns the current and target duty cycle and moves current toward
// target one unit at a time. The control loop calls Step on a fixed tick
// and writes the result to the output, so a full-range transition takes
// max * stepDelay (255 steps at 20ms is about 5.1s) and the duty never
// jumps. The fader's current value is the single source of truth for what
// is on the wire.
type Fader struct {
	current int
	target  int
	max     int
}

// NewFader creates a fader with the given maximum duty. Current and target
// start at zero (output off).
func NewFader(max int) *Fader {
	return &Fader{max: max}
}

// SetTarget records the desired duty, clamped to [0, max]. The current
// duty is untouched; a superseded target simply redirects the fade.
func (f *Fader) SetTarget(duty int) {
	if duty < 0 {
		duty = 0
	}
	if duty > f.max {
		duty = f.max
	}
	f.target = duty
}

// Step moves the current duty one unit toward the target. It returns the
// new duty and whether it changed; equal current and target is a no-op.
func (f *Fader) Step() (duty int, changed bool) {
	switch {
	case f.current < f.target:
		f.current++
	case f.current > f.target:
		f.current--
	default:
		return f.current, false
	}
	return f.current, true
}

// Current returns the duty currently on the output.
func (f *Fader) Current() int {
	return f.current
}

// Target returns the duty being faded toward.
func (f *Fader) Target() int {
	return f.target
}

// Settled reports whether the fade has reached its target.
func (f *Fader) Settled() bool {
	return f.current == f.target
}
