package navigation

import (
	"log/slog"
	"sync"
)

// maxRedirectHops bounds redirect chains so a cyclic rule set cannot spin.
const maxRedirectHops = 8

// MemoryHost is an in-process Host backed by a history stack.
type MemoryHost struct {
	mu          sync.Mutex
	history     []string
	index       int
	redirects   map[string]string
	subscribers map[int]func()
	nextID      int
	logger      *slog.Logger
}

// NewMemoryHost creates a host whose history starts at start.
func NewMemoryHost(start string, logger *slog.Logger) *MemoryHost {
	if logger == nil {
		logger = slog.Default()
	}
	return &MemoryHost{
		history:     []string{start},
		redirects:   make(map[string]string),
		subscribers: make(map[int]func()),
		logger:      logger,
	}
}

// CurrentPath returns the active history entry.
func (host *MemoryHost) CurrentPath() string {
	host.mu.Lock()
	defer host.mu.Unlock()
	return host.history[host.index]
}

// History returns a copy of the history stack and the active index.
func (host *MemoryHost) History() ([]string, int) {
	host.mu.Lock()
	defer host.mu.Unlock()
	return append([]string(nil), host.history...), host.index
}

// SetRedirect makes every arrival at from immediately push to. An empty to
// removes the rule.
func (host *MemoryHost) SetRedirect(from, to string) {
	host.mu.Lock()
	defer host.mu.Unlock()
	if to == "" {
		delete(host.redirects, from)
		return
	}
	host.redirects[from] = to
}

// Push drops forward history, appends path and broadcasts the change.
func (host *MemoryHost) Push(path string) {
	host.mu.Lock()
	host.pushLocked(path)
	host.mu.Unlock()

	host.settle(0)
}

// Navigate is a location change made by something other than the card.
func (host *MemoryHost) Navigate(path string) {
	host.Push(path)
}

// Back moves one entry back. At the first entry it does nothing and returns false.
func (host *MemoryHost) Back() bool {
	host.mu.Lock()
	if host.index == 0 {
		host.mu.Unlock()
		host.logger.Debug("history back ignored at root")
		return false
	}
	host.index--
	host.mu.Unlock()

	host.settle(0)
	return true
}

// Subscribe registers a change listener.
func (host *MemoryHost) Subscribe(fn func()) func() {
	host.mu.Lock()
	id := host.nextID
	host.nextID++
	host.subscribers[id] = fn
	host.mu.Unlock()

	return func() {
		host.mu.Lock()
		delete(host.subscribers, id)
		host.mu.Unlock()
	}
}

func (host *MemoryHost) pushLocked(path string) {
	host.history = append(host.history[:host.index+1], path)
	host.index = len(host.history) - 1
}

// settle broadcasts the current change and then follows a redirect rule for
// the new location, if any.
func (host *MemoryHost) settle(hops int) {
	host.notify()

	host.mu.Lock()
	current := host.history[host.index]
	target, ok := host.redirects[current]
	if !ok || target == current || hops >= maxRedirectHops {
		host.mu.Unlock()
		return
	}
	host.pushLocked(target)
	host.mu.Unlock()

	host.logger.Debug("redirect", "from", current, "to", target)
	host.settle(hops + 1)
}

func (host *MemoryHost) notify() {
	host.mu.Lock()
	listeners := make([]func(), 0, len(host.subscribers))
	for id := 0; id < host.nextID; id++ {
		if fn, ok := host.subscribers[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	host.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
