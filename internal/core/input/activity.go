// Package input turns raw user input into scheduler resets and pause toggles.
package input

import (
	"log/slog"

	"autonav/internal/core/model"
	"autonav/internal/core/scheduler"
)

// Signal is a kind of user input that counts as activity.
type Signal string

const (
	SignalMouseMove  Signal = "mousemove"
	SignalMouseDown  Signal = "mousedown"
	SignalKeyDown    Signal = "keydown"
	SignalTouchStart Signal = "touchstart"
	SignalWheel      Signal = "wheel"
	// SignalSystem is reported by the OS idle poller when the desktop saw input
	// outside the card.
	SignalSystem Signal = "system"
)

// Signals lists every accepted activity signal.
func Signals() []Signal {
	return []Signal{SignalMouseMove, SignalMouseDown, SignalKeyDown, SignalTouchStart, SignalWheel, SignalSystem}
}

// Valid reports whether the signal is one of the accepted kinds.
func (signal Signal) Valid() bool {
	for _, candidate := range Signals() {
		if signal == candidate {
			return true
		}
	}
	return false
}

// Target is the part of the scheduler the activity detector drives.
type Target interface {
	Phase() scheduler.Phase
	Mode() model.NavigationMode
	Reset()
}

// ActivityDetector resets its target on user activity.
type ActivityDetector struct {
	target Target
	logger *slog.Logger
}

// NewActivityDetector creates an activity detector for target.
func NewActivityDetector(target Target, logger *slog.Logger) *ActivityDetector {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActivityDetector{target: target, logger: logger}
}

// Signal handles one input signal and reports whether it caused a reset.
// Unknown signals are ignored.
func (detector *ActivityDetector) Signal(signal Signal) bool {
	if !signal.Valid() {
		detector.logger.Debug("ignoring unknown input signal", "signal", signal)
		return false
	}
	return detector.ResetIfActive()
}

// ResetIfActive resets the target unless it is in mode none, paused or stopped.
// A paused or stopped card never resumes from ambient input.
func (detector *ActivityDetector) ResetIfActive() bool {
	if detector.target.Mode() == model.ModeNone {
		return false
	}
	switch detector.target.Phase() {
	case scheduler.PhasePaused, scheduler.PhaseStopped:
		return false
	}
	detector.target.Reset()
	return true
}
