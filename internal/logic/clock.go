package logic

import "time"

// MinValidYear is the earliest wall-clock year accepted as a synchronized
// clock. Fresh boots report an epoch near 1970 until NTP completes; any
// reading before this year defers all scheduling.
const MinValidYear = 2020

// ClockSynchronized reports whether the wall clock looks plausible enough
// to compute a schedule from.
func ClockSynchronized(now time.Time) bool {
	return now.Year() >= MinValidYear
}
