// Package pwm provides the LED duty-cycle output with hardware abstraction.
// The real implementation drives the kernel sysfs PWM interface; the fake
// records writes for tests.
package pwm

// MaxDuty is the full-scale duty value. Duty cycles are integers in
// [0, MaxDuty], matching an 8-bit PWM range.
const MaxDuty = 255

// Output is the write-only duty-cycle sink driving the MOSFET gate.
// There is no read-back; the caller owns the current value.
type Output interface {
	// SetDuty sets the output duty cycle (0..MaxDuty).
	SetDuty(duty int) error

	// Close turns the output off and releases resources.
	Close() error
}

// Defaults for the Raspberry Pi hardware PWM exposed via sysfs.
const (
	DefaultChip     = 0
	DefaultChannel  = 0
	DefaultPeriodNs = 1000000 // 1kHz, well above LED flicker threshold
)
