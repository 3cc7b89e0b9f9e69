// Package timeutil provides a clock abstraction so timer-driven behavior
// can be tested without real wall-clock waits.
package timeutil

import "time"

// Clock abstracts wall-clock reads and timer creation.
type Clock interface {
	Now() time.Time
	// AfterFunc waits for the duration to elapse and then calls f in its
	// own goroutine. The returned Timer can be stopped or reset.
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable, rearmable timer handle.
type Timer interface {
	Stop() bool
	Reset(d time.Duration) bool
}

type realClock struct{}

// NewClock returns a Clock backed by the time package.
func NewClock() Clock {
	return realClock{}
}

func (realClock) Now() time.Time {
	return time.Now()
}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{timer: time.AfterFunc(d, f)}
}

type realTimer struct {
	timer *time.Timer
}

func (t realTimer) Stop() bool {
	return t.timer.Stop()
}

func (t realTimer) Reset(d time.Duration) bool {
	return t.timer.Reset(d)
}
