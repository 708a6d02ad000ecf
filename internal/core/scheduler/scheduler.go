// Package scheduler is the idle/navigation state machine of the card: an idle
// countdown followed by a navigation countdown, with pause and forced stops.
//
// A Scheduler is not safe for concurrent use. All calls, including timer
// callbacks, must arrive from one goroutine (see card.Loop).
package scheduler

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"autonav/internal/core/clock"
	"autonav/internal/core/model"
	"autonav/internal/core/navigation"
)

// Diagnostic stop reasons set by the scheduler itself.
const (
	ReasonNotStarted          = "not started"
	ReasonPaused              = "paused by user"
	ReasonStopAfterNavigation = "stopped after navigation"
	ReasonShutdown            = "shut down"
)

// Navigator performs the navigation when the countdown expires.
type Navigator interface {
	Navigate(config model.Config) navigation.Decision
}

// Options contains runtime options for the Scheduler.
type Options struct {
	TickInterval time.Duration
	Logger       *slog.Logger
}

// Scheduler drives the Idle → Counting → navigate cycle.
type Scheduler struct {
	config    model.Config
	options   Options
	clock     clock.Clock
	navigator Navigator
	logger    *slog.Logger
	started   bool

	phase        Phase
	idleElapsed  int
	navElapsed   int
	navRemaining int
	navTotal     int
	progress     float64
	stopReason   string

	idleTimer  clock.Timer
	navTimer   clock.Timer
	generation uint64

	listeners []func(Event)

	mu     sync.Mutex
	events []chan Event
}

// New creates a Scheduler. It stays Stopped until Start is called.
func New(config model.Config, clk clock.Clock, navigator Navigator, options Options) *Scheduler {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}
	return &Scheduler{
		config:     config.Sanitized(),
		options:    options,
		clock:      clk,
		navigator:  navigator,
		logger:     options.Logger,
		phase:      PhaseStopped,
		stopReason: ReasonNotStarted,
	}
}

// Subscribe registers a new observer channel. Sends never block; a full
// channel misses events.
func (s *Scheduler) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	s.mu.Lock()
	s.events = append(s.events, ch)
	s.mu.Unlock()
	return ch
}

// AddListener registers fn to be called synchronously for every event.
func (s *Scheduler) AddListener(fn func(Event)) {
	s.listeners = append(s.listeners, fn)
}

// Start applies the current mode: mode none stops, anything else resets.
func (s *Scheduler) Start() {
	s.started = true
	s.applyMode()
}

// Shutdown cancels timers and closes observer channels.
func (s *Scheduler) Shutdown() {
	s.clearTimers()
	s.started = false
	s.phase = PhaseStopped
	s.zeroCounters()
	s.stopReason = ReasonShutdown

	s.mu.Lock()
	events := s.events
	s.events = nil
	s.mu.Unlock()
	for _, ch := range events {
		close(ch)
	}
}

// SetConfig replaces the configuration and, once started, re-applies the mode.
func (s *Scheduler) SetConfig(config model.Config) {
	s.config = config.Sanitized()
	if s.started {
		s.applyMode()
	}
}

// Config returns the active configuration.
func (s *Scheduler) Config() model.Config {
	return s.config
}

// Phase returns the current phase.
func (s *Scheduler) Phase() Phase {
	return s.phase
}

// Mode returns the configured navigation mode.
func (s *Scheduler) Mode() model.NavigationMode {
	return s.config.NavigationMode
}

// Reset cancels timers, zeroes counters and restarts from Idle (or Counting
// when idle detection is off). In mode none it stops instead. Before Start and
// after Shutdown it does nothing.
func (s *Scheduler) Reset() {
	if !s.started {
		return
	}
	if s.config.NavigationMode == model.ModeNone {
		s.Disable(navigation.ReasonModeNone)
		return
	}

	s.clearTimers()
	s.zeroCounters()
	s.stopReason = ""

	if s.config.IdleEnabled {
		s.phase = PhaseIdle
		s.startIdleTimer()
		s.emit(EventReset, "")
		return
	}
	s.phase = PhaseCounting
	s.emit(EventReset, "")
	s.startCountdown()
}

// Disable cancels timers, zeroes counters and enters Stopped with reason.
func (s *Scheduler) Disable(reason string) {
	s.clearTimers()
	s.zeroCounters()
	s.phase = PhaseStopped
	s.stopReason = reason
	s.logger.Info("scheduler stopped", "reason", reason)
	s.emit(EventStateChange, reason)
}

// TogglePause pauses a running cycle or resumes a paused one.
func (s *Scheduler) TogglePause() {
	if s.phase == PhasePaused {
		s.Resume()
		return
	}
	s.Pause()
}

// Pause freezes both timers and keeps the counters.
func (s *Scheduler) Pause() {
	if !s.started || s.config.NavigationMode == model.ModeNone || s.phase == PhasePaused {
		return
	}
	s.clearTimers()
	s.phase = PhasePaused
	s.stopReason = ReasonPaused
	s.emit(EventStateChange, ReasonPaused)
}

// Resume discards the paused counters and starts a fresh cycle.
func (s *Scheduler) Resume() {
	if s.phase != PhasePaused {
		return
	}
	s.Reset()
}

// Snapshot returns a copy of the current state. Progress is only reported
// while Counting.
func (s *Scheduler) Snapshot() Snapshot {
	progress := 0.0
	if s.phase == PhaseCounting {
		progress = s.progress
	}
	return Snapshot{
		Phase:                  s.phase,
		ProgressFraction:       progress,
		IdleElapsedSeconds:     s.idleElapsed,
		NavElapsedSeconds:      s.navElapsed,
		NavRemainingSeconds:    s.navRemaining,
		StopReason:             s.stopReason,
		Mode:                   s.config.NavigationMode,
		NavigationPath:         s.config.Target(),
		NavigationDelaySeconds: s.config.NavigationDelaySeconds,
		IdleTimeoutSeconds:     s.config.IdleTimeoutSeconds,
	}
}

func (s *Scheduler) applyMode() {
	if s.config.NavigationMode == model.ModeNone {
		s.Disable(navigation.ReasonModeNone)
		return
	}
	s.Reset()
}

func (s *Scheduler) startIdleTimer() {
	generation := s.generation
	s.idleTimer = s.clock.Every(s.options.TickInterval, func() {
		s.idleTick(generation)
	})
}

func (s *Scheduler) idleTick(generation uint64) {
	if generation != s.generation || s.phase != PhaseIdle {
		return
	}

	s.idleElapsed++
	if s.idleElapsed >= s.config.IdleTimeoutSeconds {
		s.clearTimers()
		s.startCountdown()
		return
	}
	s.emit(EventProgress, "")
}

func (s *Scheduler) startCountdown() {
	total := s.config.NavigationDelaySeconds
	s.phase = PhaseCounting
	s.navTotal = total
	s.navRemaining = total
	s.emit(EventStateChange, "countdown started")

	if total <= 0 {
		s.progress = 1
		s.navigate()
		return
	}

	generation := s.generation
	s.navTimer = s.clock.Every(s.options.TickInterval, func() {
		s.navTick(generation)
	})
}

func (s *Scheduler) navTick(generation uint64) {
	if generation != s.generation || s.phase != PhaseCounting {
		return
	}

	s.navRemaining--
	s.navElapsed++
	s.progress = s.countdownProgress()
	if s.navRemaining <= 0 {
		s.navRemaining = 0
		s.clearTimers()
		s.emit(EventProgress, "")
		s.navigate()
		return
	}
	s.emit(EventProgress, "")
}

func (s *Scheduler) navigate() {
	if s.phase == PhasePaused || s.navigator == nil {
		return
	}

	generation := s.generation
	decision := s.navigator.Navigate(s.config)
	if decision.Stop {
		s.Disable(decision.Reason)
		return
	}

	message := string(decision.Kind)
	if decision.Target != "" {
		message = fmt.Sprintf("%s %s", decision.Kind, decision.Target)
	}
	s.emit(EventNavigate, message)

	// The navigation may already have caused a reset or a forced stop.
	if generation != s.generation {
		return
	}
	if s.config.StopAfterNavigation {
		s.Disable(ReasonStopAfterNavigation)
	}
}

func (s *Scheduler) countdownProgress() float64 {
	if s.navTotal <= 0 {
		return 1
	}
	progress := 1 - float64(s.navRemaining)/float64(s.navTotal)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

func (s *Scheduler) clearTimers() {
	if s.idleTimer != nil {
		s.idleTimer.Stop()
		s.idleTimer = nil
	}
	if s.navTimer != nil {
		s.navTimer.Stop()
		s.navTimer = nil
	}
	s.generation++
}

func (s *Scheduler) zeroCounters() {
	s.idleElapsed = 0
	s.navElapsed = 0
	s.navRemaining = 0
	s.navTotal = 0
	s.progress = 0
}

func (s *Scheduler) emit(eventType EventType, message string) {
	event := Event{
		Type:     eventType,
		Snapshot: s.Snapshot(),
		Message:  message,
		At:       s.clock.Now(),
	}
	if eventType != EventProgress {
		s.logger.Debug("scheduler event", "type", eventType, "state", event.Snapshot, "message", message)
	}

	for _, fn := range s.listeners {
		fn(event)
	}

	s.mu.Lock()
	events := append([]chan Event(nil), s.events...)
	s.mu.Unlock()
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
