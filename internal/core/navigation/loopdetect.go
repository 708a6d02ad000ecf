package navigation

import (
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultLoopWindow is how long a card-initiated back stays eligible for
	// bounce detection.
	DefaultLoopWindow = 6 * time.Second
	// DefaultHistorySize is the number of distinct recent locations kept.
	DefaultHistorySize = 3
)

// DetectorConfig tunes the back-loop detector.
type DetectorConfig struct {
	Window      time.Duration
	HistorySize int
}

// DefaultDetectorConfig returns the stock window and history size.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		Window:      DefaultLoopWindow,
		HistorySize: DefaultHistorySize,
	}
}

// Disabler is force-stopped when a bounce is detected.
type Disabler interface {
	Disable(reason string)
}

// SelfNavigation marks a navigation the card itself started. Landed is set
// once the location change produced by that navigation has been observed.
type SelfNavigation struct {
	Kind   Kind
	At     time.Time
	Landed bool
}

// Observation is the outcome of LoopDetector.Observe.
type Observation int

const (
	// ObserveIgnored means the location did not change.
	ObserveIgnored Observation = iota
	// ObserveChanged means a new location was recorded.
	ObserveChanged
	// ObserveArrived means the location changed because a card-initiated
	// navigation landed.
	ObserveArrived
	// ObserveBounce means a back-loop was detected and the target disabled.
	ObserveBounce
)

// LoopDetector keeps the last few distinct locations and disables its target
// when a card-initiated back lands on a page that immediately bounces back.
type LoopDetector struct {
	config  DetectorConfig
	now     func() time.Time
	target  Disabler
	logger  *slog.Logger
	current string
	recent  []string
	pending *SelfNavigation
}

// NewLoopDetector creates a detector whose history starts at initialPath.
func NewLoopDetector(config DetectorConfig, initialPath string, now func() time.Time, target Disabler, logger *slog.Logger) *LoopDetector {
	if config.Window <= 0 {
		config.Window = DefaultLoopWindow
	}
	if config.HistorySize < DefaultHistorySize {
		config.HistorySize = DefaultHistorySize
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	detector := &LoopDetector{
		config:  config,
		now:     now,
		target:  target,
		logger:  logger,
		current: initialPath,
	}
	if initialPath != "" {
		detector.recent = []string{initialPath}
	}
	return detector
}

// Record notes a card-initiated navigation of the given kind at the current time.
func (detector *LoopDetector) Record(kind Kind) {
	detector.pending = &SelfNavigation{Kind: kind, At: detector.now()}
}

// Discard drops the outstanding self-navigation record, for a navigation that
// left the location unchanged.
func (detector *LoopDetector) Discard() {
	detector.pending = nil
}

// Pending returns the outstanding self-navigation record, if any.
func (detector *LoopDetector) Pending() (SelfNavigation, bool) {
	if detector.pending == nil {
		return SelfNavigation{}, false
	}
	return *detector.pending, true
}

// Recent returns the distinct recent locations, oldest first.
func (detector *LoopDetector) Recent() []string {
	return append([]string(nil), detector.recent...)
}

// Current returns the last observed location.
func (detector *LoopDetector) Current() string {
	return detector.current
}

// Observe handles a location change broadcast for path.
func (detector *LoopDetector) Observe(path string) Observation {
	if path == "" || path == detector.current {
		return ObserveIgnored
	}
	detector.current = path

	if len(detector.recent) == 0 || detector.recent[len(detector.recent)-1] != path {
		detector.recent = append(detector.recent, path)
		if overflow := len(detector.recent) - detector.config.HistorySize; overflow > 0 {
			detector.recent = append([]string(nil), detector.recent[overflow:]...)
		}
	}

	now := detector.now()
	pending := detector.pending
	if pending != nil && !pending.Landed {
		// The first change after a self-navigation is its own arrival; only a
		// later change can bounce away from it.
		pending.Landed = true
		if now.Sub(pending.At) <= detector.config.Window {
			return ObserveArrived
		}
	}
	if pending != nil && pending.Kind == KindBack && now.Sub(pending.At) <= detector.config.Window {
		if from, via, ok := detector.bounce(); ok {
			detector.pending = nil
			reason := fmt.Sprintf("back loop detected (%s ↔ %s)", from, via)
			detector.logger.Warn("back loop detected", "from", from, "via", via)
			if detector.target != nil {
				detector.target.Disable(reason)
			}
			return ObserveBounce
		}
	}

	if pending != nil && now.Sub(pending.At) > detector.config.Window {
		detector.pending = nil
	}
	return ObserveChanged
}

// bounce reports whether the last three locations form a round trip a → b → a.
func (detector *LoopDetector) bounce() (string, string, bool) {
	count := len(detector.recent)
	if count < 3 {
		return "", "", false
	}
	a, b, c := detector.recent[count-3], detector.recent[count-2], detector.recent[count-1]
	if a == c && a != b {
		return a, b, true
	}
	return "", "", false
}
