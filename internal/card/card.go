// Package card wires the scheduler, navigation and input handling of one
// auto-navigate card onto a single event loop.
package card

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"autonav/internal/core/clock"
	"autonav/internal/core/input"
	"autonav/internal/core/model"
	"autonav/internal/core/navigation"
	"autonav/internal/core/scheduler"
)

// Observer receives every scheduler event of the card, on the loop goroutine.
type Observer interface {
	Observe(event scheduler.Event)
}

// Options configures a Card. Host is required; everything else has a default.
type Options struct {
	Clock         clock.Clock
	Host          navigation.Host
	Loop          *Loop
	Logger        *slog.Logger
	Observers     []Observer
	Detector      navigation.DetectorConfig
	DragThreshold float64
	TickInterval  time.Duration
}

// Card is one auto-navigate card. Its methods may be called from any
// goroutine; they post work to the card loop.
type Card struct {
	id     string
	loop   *Loop
	host   navigation.Host
	logger *slog.Logger

	scheduler *scheduler.Scheduler
	detector  *navigation.LoopDetector
	activity  *input.ActivityDetector
	pause     *input.PauseController

	unsubscribe func()
	closed      bool
	snapshot    atomic.Pointer[scheduler.Snapshot]
	config      atomic.Pointer[model.Config]
}

type disableFunc func(reason string)

func (fn disableFunc) Disable(reason string) { fn(reason) }

// New builds a card for config. Nothing runs until Start is called and the
// loop is drained.
func New(config model.Config, options Options) *Card {
	if options.Loop == nil {
		options.Loop = NewLoop()
	}
	if options.Clock == nil {
		options.Clock = clock.NewReal(options.Loop.Post)
	}
	if options.Logger == nil {
		options.Logger = slog.Default()
	}

	id := uuid.NewString()
	logger := options.Logger.With("card", id)
	card := &Card{
		id:     id,
		loop:   options.Loop,
		host:   options.Host,
		logger: logger,
	}

	card.detector = navigation.NewLoopDetector(
		options.Detector,
		options.Host.CurrentPath(),
		options.Clock.Now,
		disableFunc(func(reason string) { card.scheduler.Disable(reason) }),
		logger,
	)
	executor := navigation.NewExecutor(options.Host, card.detector, logger)
	card.scheduler = scheduler.New(config, options.Clock, executor, scheduler.Options{
		TickInterval: options.TickInterval,
		Logger:       logger,
	})
	card.activity = input.NewActivityDetector(card.scheduler, logger)
	card.pause = input.NewPauseController(card.scheduler, options.DragThreshold)

	card.scheduler.AddListener(card.publish)
	for _, observer := range options.Observers {
		card.scheduler.AddListener(observer.Observe)
	}
	card.storeConfig(card.scheduler.Config())
	snapshot := card.scheduler.Snapshot()
	card.snapshot.Store(&snapshot)
	return card
}

// ID returns the card instance ID used in logs.
func (card *Card) ID() string {
	return card.id
}

// Loop returns the card's event loop.
func (card *Card) Loop() *Loop {
	return card.loop
}

// Run drains the card loop until ctx is done, then closes the card. Tasks still
// queued at that point are dropped, but the close always happens.
func (card *Card) Run(ctx context.Context) {
	card.loop.Run(ctx)
	card.close()
}

// Start attaches to the host's location changes and starts the scheduler.
func (card *Card) Start() {
	card.loop.Post(func() {
		if card.unsubscribe == nil {
			card.unsubscribe = card.host.Subscribe(func() {
				// The broadcast has no payload; read the location before a
				// redirect can replace it.
				path := card.host.CurrentPath()
				card.loop.Post(func() { card.onLocationChanged(path) })
			})
		}
		card.logger.Info("card started", "path", card.host.CurrentPath(), "mode", card.scheduler.Mode())
		card.scheduler.Start()
	})
}

// Close detaches from the host and shuts the scheduler down.
func (card *Card) Close() {
	card.loop.Post(card.close)
}

func (card *Card) close() {
	if card.closed {
		return
	}
	card.closed = true
	if card.unsubscribe != nil {
		card.unsubscribe()
		card.unsubscribe = nil
	}
	card.scheduler.Shutdown()
	snapshot := card.scheduler.Snapshot()
	card.snapshot.Store(&snapshot)
	card.logger.Info("card closed")
}

// Subscribe returns a channel of scheduler events. It is closed by Close.
func (card *Card) Subscribe(buffer int) <-chan scheduler.Event {
	return card.scheduler.Subscribe(buffer)
}

// Snapshot returns the latest published scheduler state.
func (card *Card) Snapshot() scheduler.Snapshot {
	return *card.snapshot.Load()
}

// Config returns the active configuration.
func (card *Card) Config() model.Config {
	return *card.config.Load()
}

// ApplyConfig replaces the configuration and restarts the cycle.
func (card *Card) ApplyConfig(config model.Config) {
	card.loop.Post(func() {
		card.scheduler.SetConfig(config)
		card.storeConfig(card.scheduler.Config())
		card.logger.Debug("configuration applied", "mode", config.NavigationMode)
	})
}

// SetMode switches the navigation mode, keeping the rest of the configuration.
func (card *Card) SetMode(mode model.NavigationMode) {
	card.loop.Post(func() {
		config := card.scheduler.Config()
		config.NavigationMode = mode
		card.scheduler.SetConfig(config)
		card.storeConfig(card.scheduler.Config())
	})
}

// Activity reports a user input signal.
func (card *Card) Activity(signal input.Signal) {
	card.loop.Post(func() {
		card.activity.Signal(signal)
	})
}

// PointerDown starts a tap-to-pause gesture at x, y.
func (card *Card) PointerDown(x, y float64) {
	card.loop.Post(func() {
		card.pause.Press(x, y)
	})
}

// PointerMove tracks a gesture in progress.
func (card *Card) PointerMove(x, y float64) {
	card.loop.Post(func() {
		card.pause.Move(x, y)
	})
}

// PointerUp ends a gesture; a tap toggles pause.
func (card *Card) PointerUp(x, y float64) {
	card.loop.Post(func() {
		card.pause.Release(x, y)
	})
}

// PointerCancel abandons a gesture, for example when a touch is interrupted.
func (card *Card) PointerCancel() {
	card.loop.Post(card.pause.Cancel)
}

// TogglePause toggles pause directly, as the tray menu does.
func (card *Card) TogglePause() {
	card.loop.Post(card.scheduler.TogglePause)
}

// Reset restarts the cycle from zero.
func (card *Card) Reset() {
	card.loop.Post(card.scheduler.Reset)
}

// SetEditMode disables tap-to-pause while the card is being edited.
func (card *Card) SetEditMode(enabled bool) {
	card.loop.Post(func() {
		card.pause.SetEditMode(enabled)
	})
}

func (card *Card) onLocationChanged(path string) {
	observation := card.detector.Observe(path)
	if observation != navigation.ObserveChanged {
		return
	}
	card.logger.Debug("location changed", "path", path)
	if card.scheduler.Config().ResetOnViewChange {
		card.activity.ResetIfActive()
	}
}

func (card *Card) publish(event scheduler.Event) {
	snapshot := event.Snapshot
	card.snapshot.Store(&snapshot)
}

func (card *Card) storeConfig(config model.Config) {
	card.config.Store(&config)
}
