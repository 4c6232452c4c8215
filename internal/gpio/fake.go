package gpio

import "time"

// FakeButton is a test double that delivers scripted press edges.
type FakeButton struct {
	events chan time.Time

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeButton creates a FakeButton with room for buffered presses.
func NewFakeButton() *FakeButton {
	return &FakeButton{events: make(chan time.Time, 16)}
}

// Press injects a falling edge with the given timestamp.
func (f *FakeButton) Press(t time.Time) {
	f.events <- t
}

// Events returns the channel of press timestamps.
func (f *FakeButton) Events() <-chan time.Time {
	return f.events
}

// Close marks the button as closed.
func (f *FakeButton) Close() error {
	f.Closed = true
	return nil
}
