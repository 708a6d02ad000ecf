package input

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autonav/internal/core/model"
	"autonav/internal/core/scheduler"
)

type fakeTarget struct {
	phase   scheduler.Phase
	mode    model.NavigationMode
	resets  int
	toggles int
}

func (target *fakeTarget) Phase() scheduler.Phase     { return target.phase }
func (target *fakeTarget) Mode() model.NavigationMode { return target.mode }
func (target *fakeTarget) Reset()                     { target.resets++ }
func (target *fakeTarget) TogglePause()               { target.toggles++ }

func TestActivityResetsOnlyWhileRunning(t *testing.T) {
	cases := []struct {
		name  string
		phase scheduler.Phase
		mode  model.NavigationMode
		reset bool
	}{
		{"idle", scheduler.PhaseIdle, model.ModePath, true},
		{"counting back", scheduler.PhaseCounting, model.ModeBack, true},
		{"paused", scheduler.PhasePaused, model.ModePath, false},
		{"stopped", scheduler.PhaseStopped, model.ModePath, false},
		{"mode none", scheduler.PhaseIdle, model.ModeNone, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := &fakeTarget{phase: tc.phase, mode: tc.mode}
			detector := NewActivityDetector(target, nil)
			for _, signal := range Signals() {
				assert.Equal(t, tc.reset, detector.Signal(signal), signal)
			}
			if tc.reset {
				assert.Equal(t, len(Signals()), target.resets)
			} else {
				assert.Zero(t, target.resets)
			}
		})
	}
}

func TestActivityIgnoresUnknownSignal(t *testing.T) {
	target := &fakeTarget{phase: scheduler.PhaseIdle, mode: model.ModePath}
	detector := NewActivityDetector(target, nil)
	assert.False(t, detector.Signal("scroll"))
	assert.Zero(t, target.resets)
}

func TestTapTogglesPause(t *testing.T) {
	target := &fakeTarget{mode: model.ModePath}
	controller := NewPauseController(target, 0)

	controller.Press(10, 10)
	controller.Move(13, 14)
	assert.True(t, controller.Release(14, 14))
	assert.Equal(t, 1, target.toggles)
}

func TestDragDoesNotToggle(t *testing.T) {
	target := &fakeTarget{mode: model.ModePath}
	controller := NewPauseController(target, 0)

	controller.Press(0, 0)
	controller.Move(5, 5)
	controller.Move(0, 0)
	assert.False(t, controller.Release(0, 0), "travel beyond the threshold stays a drag")
	assert.Zero(t, target.toggles)

	controller.Press(0, 0)
	assert.False(t, controller.Release(7, 0))
	assert.Zero(t, target.toggles)
}

func TestReleaseWithoutPressIsIgnored(t *testing.T) {
	target := &fakeTarget{mode: model.ModePath}
	controller := NewPauseController(target, 0)
	assert.False(t, controller.Release(0, 0))
	assert.Zero(t, target.toggles)
}

func TestCancelAbandonsGesture(t *testing.T) {
	target := &fakeTarget{mode: model.ModePath}
	controller := NewPauseController(target, 0)
	controller.Press(1, 1)
	controller.Cancel()
	assert.False(t, controller.Release(1, 1))
	assert.Zero(t, target.toggles)
}

func TestPauseDisabledInEditModeAndModeNone(t *testing.T) {
	target := &fakeTarget{mode: model.ModePath}
	controller := NewPauseController(target, 0)

	controller.SetEditMode(true)
	controller.Press(0, 0)
	assert.False(t, controller.Release(0, 0))

	controller.Press(0, 0)
	controller.SetEditMode(true)
	controller.SetEditMode(false)
	assert.False(t, controller.Release(0, 0), "entering edit mode cancels the gesture")

	target.mode = model.ModeNone
	controller.Press(0, 0)
	assert.False(t, controller.Release(0, 0))
	assert.Zero(t, target.toggles)
}
