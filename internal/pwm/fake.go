package pwm

import "fmt"

// FakeOutput records duty-cycle writes for test assertions.
type FakeOutput struct {
	// Writes contains every duty value written, in order.
	Writes []int

	// SetError, if set, will be returned by SetDuty.
	SetError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakeOutput creates a FakeOutput for testing.
func NewFakeOutput() *FakeOutput {
	return &FakeOutput{}
}

// SetDuty records the write.
func (f *FakeOutput) SetDuty(duty int) error {
	if f.SetError != nil {
		return f.SetError
	}
	if duty < 0 || duty > MaxDuty {
		return fmt.Errorf("duty %d out of range 0..%d", duty, MaxDuty)
	}
	f.Writes = append(f.Writes, duty)
	return nil
}

// Close marks the output as closed.
func (f *FakeOutput) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recent write, or 0 if none happened.
func (f *FakeOutput) Last() int {
	if len(f.Writes) == 0 {
		return 0
	}
	return f.Writes[len(f.Writes)-1]
}

// Reset clears recorded writes.
func (f *FakeOutput) Reset() {
	f.Writes = nil
	f.Closed = false
	f.SetError = nil
}
