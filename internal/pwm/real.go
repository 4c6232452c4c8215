//go:build linux

package pwm

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// RealOutput drives a hardware PWM channel through the kernel sysfs
// interface (/sys/class/pwm). No library in use wraps this ABI; it is a
// handful of attribute files.
type RealOutput struct {
	dir      string
	chipDir  string
	channel  int
	periodNs int
}

// NewRealOutput exports the given PWM channel, programs the period and
// starts with the output disabled (duty 0).
func NewRealOutput(chip, channel, periodNs int) (*RealOutput, error) {
	o := &RealOutput{
		chipDir:  fmt.Sprintf("/sys/class/pwm/pwmchip%d", chip),
		channel:  channel,
		periodNs: periodNs,
	}
	o.dir = filepath.Join(o.chipDir, fmt.Sprintf("pwm%d", channel))

	if _, err := os.Stat(o.dir); os.IsNotExist(err) {
		if err := writeAttr(o.chipDir, "export", channel); err != nil {
			return nil, fmt.Errorf("export pwm channel %d: %w", channel, err)
		}
		// The kernel creates the channel directory asynchronously.
		if err := waitForDir(o.dir, time.Second); err != nil {
			return nil, fmt.Errorf("export pwm channel %d: %w", channel, err)
		}
	}

	if err := writeAttr(o.dir, "period", periodNs); err != nil {
		return nil, fmt.Errorf("set pwm period: %w", err)
	}
	if err := writeAttr(o.dir, "duty_cycle", 0); err != nil {
		return nil, fmt.Errorf("zero pwm duty: %w", err)
	}
	if err := writeAttr(o.dir, "enable", 1); err != nil {
		return nil, fmt.Errorf("enable pwm: %w", err)
	}

	return o, nil
}

// SetDuty programs the duty cycle, scaling 0..MaxDuty onto the period.
func (o *RealOutput) SetDuty(duty int) error {
	if duty < 0 || duty > MaxDuty {
		return fmt.Errorf("duty %d out of range 0..%d", duty, MaxDuty)
	}
	ns := o.periodNs / MaxDuty * duty
	if err := writeAttr(o.dir, "duty_cycle", ns); err != nil {
		return fmt.Errorf("set pwm duty: %w", err)
	}
	return nil
}

// Close forces the output off and unexports the channel so the pin is in a
// defined state across restarts.
func (o *RealOutput) Close() error {
	var errs []error

	if err := writeAttr(o.dir, "duty_cycle", 0); err != nil {
		errs = append(errs, fmt.Errorf("zero pwm duty: %w", err))
	}
	if err := writeAttr(o.dir, "enable", 0); err != nil {
		errs = append(errs, fmt.Errorf("disable pwm: %w", err))
	}
	if err := writeAttr(o.chipDir, "unexport", o.channel); err != nil {
		errs = append(errs, fmt.Errorf("unexport pwm channel: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

func writeAttr(dir, name string, value int) error {
	return os.WriteFile(filepath.Join(dir, name), []byte(strconv.Itoa(value)), 0644)
}

func waitForDir(dir string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if _, err := os.Stat(dir); err == nil {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("%s did not appear", dir)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
