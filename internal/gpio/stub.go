//go:build !linux

package gpio

import (
	"errors"
	"time"
)

// RealButton is not available on non-Linux platforms.
type RealButton struct{}

// NewRealButton returns an error on non-Linux platforms.
func NewRealButton(pin int) (*RealButton, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Events is not implemented on non-Linux platforms.
func (b *RealButton) Events() <-chan time.Time {
	return nil
}

// Close is not implemented on non-Linux platforms.
func (b *RealButton) Close() error {
	return nil
}
