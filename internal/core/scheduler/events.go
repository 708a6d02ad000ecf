package scheduler

import (
	"log/slog"
	"time"

	"autonav/internal/core/model"
)

// Phase represents the current scheduler mode.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhaseCounting Phase = "counting"
	PhasePaused   Phase = "paused"
	PhaseStopped  Phase = "stopped"
)

// EventType defines the type of scheduler event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventProgress    EventType = "progress"
	EventNavigate    EventType = "navigate"
	EventReset       EventType = "reset"
)

// Snapshot is a read-only copy of the scheduler state for presentation.
type Snapshot struct {
	Phase               Phase
	ProgressFraction    float64
	IdleElapsedSeconds  int
	NavElapsedSeconds   int
	NavRemainingSeconds int
	StopReason          string

	Mode                   model.NavigationMode
	NavigationPath         string
	NavigationDelaySeconds int
	IdleTimeoutSeconds     int
}

// Event represents a scheduler update for observers.
type Event struct {
	Type     EventType
	Snapshot Snapshot
	Message  string
	At       time.Time
}

// LogValue implements slog.LogValuer.
func (snapshot Snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("phase", string(snapshot.Phase)),
		slog.Int("idle", snapshot.IdleElapsedSeconds),
		slog.Int("remaining", snapshot.NavRemainingSeconds),
		slog.Float64("progress", snapshot.ProgressFraction),
		slog.String("reason", snapshot.StopReason),
	)
}
