package platform

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// ErrIdleUnsupported indicates idle detection is not available on this system.
var ErrIdleUnsupported = errors.New("idle detection unsupported")

// DefaultPollInterval is how often the desktop idle time is sampled.
const DefaultPollInterval = time.Second

// IdleProvider returns the duration since last user input.
type IdleProvider interface {
	IdleDuration() (time.Duration, error)
}

// NewIdleProvider returns a platform-specific idle provider.
func NewIdleProvider() IdleProvider {
	return newIdleProvider()
}

// ActivityPoller samples the desktop idle time and calls notify whenever it
// drops, which means the user touched the machine since the last sample.
type ActivityPoller struct {
	provider IdleProvider
	interval time.Duration
	notify   func()
	logger   *slog.Logger
	last     time.Duration
	primed   bool
}

// NewActivityPoller creates a poller. An interval <= 0 uses DefaultPollInterval.
func NewActivityPoller(provider IdleProvider, interval time.Duration, notify func(), logger *slog.Logger) *ActivityPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityPoller{
		provider: provider,
		interval: interval,
		notify:   notify,
		logger:   logger,
	}
}

// Check takes one sample and reports whether activity was seen.
func (poller *ActivityPoller) Check() (bool, error) {
	idle, err := poller.provider.IdleDuration()
	if err != nil {
		return false, err
	}
	active := poller.primed && idle < poller.last
	poller.last = idle
	poller.primed = true
	if active && poller.notify != nil {
		poller.notify()
	}
	return active, nil
}

// Run samples until ctx is done. It returns ErrIdleUnsupported right away when
// the platform cannot report idle time; other sampling errors are logged.
func (poller *ActivityPoller) Run(ctx context.Context) error {
	if _, err := poller.Check(); errors.Is(err, ErrIdleUnsupported) {
		return err
	}

	ticker := time.NewTicker(poller.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := poller.Check(); err != nil {
				poller.logger.Debug("idle sample failed", "err", err)
			}
		}
	}
}
