package card

import (
	"context"
	"sync"
)

// Loop is a single-consumer FIFO task queue. Every state change of a card runs
// as a task on its loop, so tasks never interleave.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	runMu  sync.Mutex
	closed bool
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post appends fn to the queue. It never blocks and may be called from inside
// a running task; fn then runs after the current task. Posts after Run has
// returned are dropped.
func (loop *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	loop.mu.Lock()
	if loop.closed {
		loop.mu.Unlock()
		return
	}
	loop.queue = append(loop.queue, fn)
	loop.mu.Unlock()

	select {
	case loop.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of queued tasks.
func (loop *Loop) Pending() int {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	return len(loop.queue)
}

// Drain runs queued tasks, including the ones they post, until the queue is
// empty. It returns the number of tasks run.
func (loop *Loop) Drain() int {
	loop.runMu.Lock()
	defer loop.runMu.Unlock()

	count := 0
	for {
		fn, ok := loop.next()
		if !ok {
			return count
		}
		fn()
		count++
	}
}

// Run drains the queue whenever tasks arrive until ctx is done. Pending tasks
// are discarded on exit.
func (loop *Loop) Run(ctx context.Context) {
	defer func() {
		loop.mu.Lock()
		loop.closed = true
		loop.queue = nil
		loop.mu.Unlock()
	}()

	loop.Drain()
	for {
		select {
		case <-ctx.Done():
			return
		case <-loop.wake:
			loop.Drain()
		}
	}
}

func (loop *Loop) next() (func(), bool) {
	loop.mu.Lock()
	defer loop.mu.Unlock()
	if len(loop.queue) == 0 {
		return nil, false
	}
	fn := loop.queue[0]
	loop.queue[0] = nil
	loop.queue = loop.queue[1:]
	return fn, true
}
