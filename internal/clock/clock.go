// Package clock abstracts wall-clock time and timers so timer-driven
// components (debounce windows, probe intervals) can be tested
// deterministically without sleeping.
package clock

import "time"

// Clock provides the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules fn to run after d. The returned Timer can be
	// stopped or reset before it fires.
	AfterFunc(d time.Duration, fn func()) Timer
}

// Timer is a one-shot timer created by [Clock.AfterFunc].
type Timer interface {
	// Stop prevents the timer from firing. Reports whether it was still
	// pending.
	Stop() bool
	// Reset re-arms the timer to fire after d. Reports whether it was
	// still pending.
	Reset(d time.Duration) bool
}

// System returns a Clock backed by the time package.
func System() Clock {
	return systemClock{}
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) AfterFunc(d time.Duration, fn func()) Timer {
	return systemTimer{t: time.AfterFunc(d, fn)}
}

type systemTimer struct {
	t *time.Timer
}

func (s systemTimer) Stop() bool {
	return s.t.Stop()
}

func (s systemTimer) Reset(d time.Duration) bool {
	return s.t.Reset(d)
}
