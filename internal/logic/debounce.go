package logic

import "time"

// Debouncer suppresses spurious rapid edges from a mechanical switch.
// An edge is accepted only if at least minGap has passed since the last
// accepted edge. Comparisons use the monotonic reading carried by
// time.Time, so clock steps cannot wrap the gap calculation.
type Debouncer struct {
	minGap time.Duration
	last   time.Time
	seen   bool
}

// NewDebouncer creates a debouncer with the given minimum gap.
func NewDebouncer(minGap time.Duration) *Debouncer {
	return &Debouncer{minGap: minGap}
}

// Accept reports whether the edge at now should be acted on. Rejected
// edges do not extend the gap window.
func (d *Debouncer) Accept(now time.Time) bool {
	if d.seen && now.Sub(d.last) < d.minGap {
		return false
	}
	d.last = now
	d.seen = true
	return true
}
