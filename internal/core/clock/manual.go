package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called. Timer callbacks run
// synchronously on the goroutine calling Advance.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    int
	timers []*manualTimer
}

type manualTimer struct {
	clock    *Manual
	seq      int
	interval time.Duration
	next     time.Time
	fn       func()
	stopped  bool
}

// NewManual returns a manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the manual time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// Every registers fn to fire each interval of manual time.
func (clock *Manual) Every(interval time.Duration, fn func()) Timer {
	if interval <= 0 {
		interval = time.Second
	}
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.seq++
	timer := &manualTimer{
		clock:    clock,
		seq:      clock.seq,
		interval: interval,
		next:     clock.now.Add(interval),
		fn:       fn,
	}
	clock.timers = append(clock.timers, timer)
	return timer
}

// Advance moves time forward by delta, firing every due timer in time order.
func (clock *Manual) Advance(delta time.Duration) {
	clock.mu.Lock()
	target := clock.now.Add(delta)
	clock.mu.Unlock()

	for {
		clock.mu.Lock()
		due := clock.nextDueLocked(target)
		if due == nil {
			clock.now = target
			clock.mu.Unlock()
			return
		}
		clock.now = due.next
		due.next = due.next.Add(due.interval)
		fn := due.fn
		clock.mu.Unlock()

		fn()
	}
}

// Active reports how many timers are still running.
func (clock *Manual) Active() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

func (clock *Manual) nextDueLocked(target time.Time) *manualTimer {
	sort.SliceStable(clock.timers, func(i, j int) bool {
		if clock.timers[i].next.Equal(clock.timers[j].next) {
			return clock.timers[i].seq < clock.timers[j].seq
		}
		return clock.timers[i].next.Before(clock.timers[j].next)
	})
	if len(clock.timers) == 0 || clock.timers[0].next.After(target) {
		return nil
	}
	return clock.timers[0]
}

func (timer *manualTimer) Stop() {
	clock := timer.clock
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if timer.stopped {
		return
	}
	timer.stopped = true
	for index, candidate := range clock.timers {
		if candidate == timer {
			clock.timers = append(clock.timers[:index], clock.timers[index+1:]...)
			break
		}
	}
}
