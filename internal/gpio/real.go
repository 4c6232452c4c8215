//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// RealButton reads button edges from actual hardware using the Linux GPIO
// character device.
type RealButton struct {
	chip   *gpiocdev.Chip
	line   *gpiocdev.Line
	events chan time.Time
}

// NewRealButton requests the button line as a pulled-up input reporting
// falling edges (the button shorts the line to ground).
func NewRealButton(pin int) (*RealButton, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	b := &RealButton{
		chip: chip,
		// Small buffer so a burst of bounces never blocks the kernel
		// event path; excess edges are dropped, which debouncing would
		// discard anyway.
		events: make(chan time.Time, 8),
	}

	// The event handler runs on the gpiocdev event goroutine and must not
	// block: it only forwards a timestamp.
	line, err := chip.RequestLine(pin,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithEventHandler(func(gpiocdev.LineEvent) {
			select {
			case b.events <- time.Now():
			default:
			}
		}))
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request button pin %d: %w", pin, err)
	}
	b.line = line

	return b, nil
}

// Events returns the channel of press timestamps.
func (b *RealButton) Events() <-chan time.Time {
	return b.events
}

// Close releases GPIO resources. The line is reconfigured to a plain
// pulled-up input so the pin is in a defined state across restarts.
func (b *RealButton) Close() error {
	var errs []error

	if b.line != nil {
		if err := b.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullUp); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pin: %w", err))
		}
		if err := b.line.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pin: %w", err))
		}
	}
	if b.chip != nil {
		if err := b.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
