//go:build !linux

package pwm

import "errors"

// RealOutput is not available on non-Linux platforms.
type RealOutput struct{}

// NewRealOutput returns an error on non-Linux platforms.
func NewRealOutput(chip, channel, periodNs int) (*RealOutput, error) {
	return nil, errors.New("pwm: not supported on this platform (requires Linux)")
}

// SetDuty is not implemented on non-Linux platforms.
func (o *RealOutput) SetDuty(duty int) error {
	return errors.New("pwm: not supported")
}

// Close is not implemented on non-Linux platforms.
func (o *RealOutput) Close() error {
	return nil
}
