package tray

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autonav/internal/core/model"
	"autonav/internal/core/scheduler"
	"autonav/resources"
)

func TestStatusText(t *testing.T) {
	assert.Equal(t, "idle 4/30s", StatusText(scheduler.Snapshot{Phase: scheduler.PhaseIdle, IdleElapsedSeconds: 4, IdleTimeoutSeconds: 30}))
	assert.Equal(t, "navigating in 7s", StatusText(scheduler.Snapshot{Phase: scheduler.PhaseCounting, NavRemainingSeconds: 7}))
	assert.Equal(t, "navigated", StatusText(scheduler.Snapshot{Phase: scheduler.PhaseCounting, ProgressFraction: 1}))
	assert.Equal(t, "paused", StatusText(scheduler.Snapshot{Phase: scheduler.PhasePaused}))
	assert.Equal(t, "stopped (mode none)", StatusText(scheduler.Snapshot{Phase: scheduler.PhaseStopped, StopReason: "mode none"}))
}

func TestMenuTracksSnapshot(t *testing.T) {
	test.NewTempApp(t)
	var toggled, opened int
	var chosen model.NavigationMode
	manager := New(nil, Callbacks{
		OnSettings:    func() { opened++ },
		OnTogglePause: func() { toggled++ },
		OnMode:        func(mode model.NavigationMode) { chosen = mode },
	})

	manager.Update(scheduler.Snapshot{Phase: scheduler.PhasePaused, Mode: model.ModeBack})
	assert.Equal(t, "Resume", manager.pauseItem.Label)
	assert.Equal(t, "Status: paused", manager.statusItem.Label)
	assert.True(t, manager.modeItems[model.ModeBack].Checked)
	assert.False(t, manager.modeItems[model.ModePath].Checked)

	manager.pauseItem.Action()
	assert.Equal(t, 1, toggled)

	for _, item := range manager.Menu().Items {
		if item.Label == "Settings..." {
			item.Action()
		}
	}
	assert.Equal(t, 1, opened)

	require.NotNil(t, manager.modeItems[model.ModeNone].Action)
	manager.modeItems[model.ModeNone].Action()
	assert.Equal(t, model.ModeNone, chosen)

	manager.Update(scheduler.Snapshot{Phase: scheduler.PhaseStopped, Mode: model.ModeNone})
	assert.Equal(t, "Pause", manager.pauseItem.Label)
	assert.True(t, manager.pauseItem.Disabled)
	assert.Equal(t, resources.IconStopped, manager.icon)
}

func TestIconFor(t *testing.T) {
	assert.Equal(t, resources.IconRunning, IconFor(scheduler.Snapshot{Phase: scheduler.PhaseIdle}))
	assert.Equal(t, resources.IconRunning, IconFor(scheduler.Snapshot{Phase: scheduler.PhaseCounting}))
	assert.Equal(t, resources.IconPaused, IconFor(scheduler.Snapshot{Phase: scheduler.PhasePaused}))
	assert.Equal(t, resources.IconStopped, IconFor(scheduler.Snapshot{Phase: scheduler.PhaseStopped}))
}
