package navigation

import (
	"log/slog"

	"autonav/internal/core/model"
)

// Stop reasons returned by the executor.
const (
	ReasonModeNone  = "mode none"
	ReasonEmptyPath = "empty path"
	ReasonSamePath  = "same path"
)

// Decision tells the scheduler whether to stop after a navigation attempt.
type Decision struct {
	Stop   bool
	Reason string
	Kind   Kind
	Target string
}

// Recorder receives card-initiated navigation marks.
type Recorder interface {
	Record(kind Kind)
	Discard()
}

// Executor performs the configured navigation against a Host.
type Executor struct {
	host     Host
	recorder Recorder
	logger   *slog.Logger
}

// NewExecutor creates an executor. recorder may be nil.
func NewExecutor(host Host, recorder Recorder, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{host: host, recorder: recorder, logger: logger}
}

// Navigate runs the navigation described by config.
func (executor *Executor) Navigate(config model.Config) Decision {
	switch config.NavigationMode {
	case model.ModeBack:
		executor.record(KindBack)
		executor.logger.Info("navigating back", "from", executor.host.CurrentPath())
		if !executor.host.Back() {
			executor.discard()
		}
		return Decision{Kind: KindBack}

	case model.ModePath:
		target := config.Target()
		if target == "" {
			return Decision{Stop: true, Reason: ReasonEmptyPath, Kind: KindPath}
		}
		if target == executor.host.CurrentPath() {
			return Decision{Stop: true, Reason: ReasonSamePath, Kind: KindPath, Target: target}
		}
		executor.record(KindPath)
		executor.logger.Info("navigating", "from", executor.host.CurrentPath(), "to", target)
		executor.host.Push(target)
		return Decision{Kind: KindPath, Target: target}
	}

	return Decision{Stop: true, Reason: ReasonModeNone}
}

func (executor *Executor) record(kind Kind) {
	if executor.recorder != nil {
		executor.recorder.Record(kind)
	}
}

func (executor *Executor) discard() {
	if executor.recorder != nil {
		executor.recorder.Discard()
	}
}
