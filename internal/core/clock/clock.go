// Package clock abstracts wall time and interval timers so the scheduler can be
// driven by a real ticker in production and stepped by hand in tests.
package clock

import (
	"sync"
	"time"
)

// Timer is a cancellable interval timer.
type Timer interface {
	Stop()
}

// Clock provides the current time and interval timers.
type Clock interface {
	Now() time.Time
	Every(interval time.Duration, fn func()) Timer
}

// Real is a Clock backed by time.Ticker. Every tick is handed to post, which
// lets callers funnel callbacks into a single event loop.
type Real struct {
	post func(func())
}

// NewReal creates a real clock. A nil post runs callbacks on the ticker goroutine.
func NewReal(post func(func())) *Real {
	if post == nil {
		post = func(fn func()) { fn() }
	}
	return &Real{post: post}
}

// Now returns the wall time.
func (clock *Real) Now() time.Time {
	return time.Now()
}

// Every starts a ticker that posts fn once per interval until stopped.
func (clock *Real) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		interval = time.Second
	}
	timer := &realTimer{stopCh: make(chan struct{})}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-timer.stopCh:
				return
			case <-ticker.C:
				clock.post(fn)
			}
		}
	}()
	return timer
}

type realTimer struct {
	once   sync.Once
	stopCh chan struct{}
}

func (timer *realTimer) Stop() {
	timer.once.Do(func() {
		close(timer.stopCh)
	})
}
