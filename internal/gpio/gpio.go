// Package gpio provides the override button input with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

import "time"

// Button delivers debounce-candidate edges from the override pushbutton.
type Button interface {
	// Events returns the channel of press timestamps. The button is wired
	// active-low with a pull-up, so a press is a falling edge. Edges are
	// raw: debouncing is the consumer's job.
	Events() <-chan time.Time

	// Close releases GPIO resources.
	Close() error
}

// DefaultButtonPin is the default BCM pin for the override button.
const DefaultButtonPin = 17
