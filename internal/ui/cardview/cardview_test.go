package cardview

import (
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autonav/internal/core/input"
	"autonav/internal/core/model"
	"autonav/internal/core/navigation"
	"autonav/internal/core/scheduler"
)

func pathConfig() model.Config {
	config := model.DefaultConfig()
	config.NavigationPath = " /lovelace/home "
	config.ShowStatus = true
	return config
}

func TestStatusLabel(t *testing.T) {
	cases := map[scheduler.Phase]string{
		scheduler.PhasePaused:   "Paused",
		scheduler.PhaseStopped:  "Stopped",
		scheduler.PhaseIdle:     "Idle",
		scheduler.PhaseCounting: "Running",
	}
	for phase, want := range cases {
		assert.Equal(t, want, StatusLabel(scheduler.Snapshot{Phase: phase}))
	}
}

func TestOverlayText(t *testing.T) {
	config := pathConfig()
	assert.Equal(t, "Running • Navigating to /lovelace/home", OverlayText(config, scheduler.Snapshot{Phase: scheduler.PhaseCounting}))
	assert.Equal(t, "Idle", OverlayText(config, scheduler.Snapshot{Phase: scheduler.PhaseIdle}))

	config.NavigationMode = model.ModeBack
	assert.Equal(t, "Running • Navigate back…", OverlayText(config, scheduler.Snapshot{Phase: scheduler.PhaseCounting}))

	config.NavigationMode = model.ModeNone
	assert.Empty(t, OverlayText(config, scheduler.Snapshot{Phase: scheduler.PhaseStopped}))
}

func TestPresentHidesProgressInModeNone(t *testing.T) {
	config := pathConfig()
	config.NavigationMode = model.ModeNone
	state := Present(config, scheduler.Snapshot{Phase: scheduler.PhaseStopped}, Palette{})
	assert.False(t, state.ShowProgress)
	assert.False(t, state.ShowOverlay)

	config = pathConfig()
	config.HideProgress = true
	state = Present(config, scheduler.Snapshot{Phase: scheduler.PhaseCounting}, Palette{})
	assert.False(t, state.ShowProgress)
}

func TestPresentColors(t *testing.T) {
	palette := Palette{Primary: color.White, Divider: color.Black}
	config := pathConfig()

	state := Present(config, scheduler.Snapshot{Phase: scheduler.PhaseCounting}, palette)
	assert.Equal(t, color.White, state.Foreground)

	config.UseThemeColors = false
	config.ProgressForeground = "#ff0000"
	state = Present(config, scheduler.Snapshot{Phase: scheduler.PhaseCounting}, palette)
	assert.Equal(t, color.NRGBA{R: 255, A: 255}, state.Foreground)
	assert.Equal(t, color.NRGBA{R: 12, G: 12, B: 12, A: 64}, state.Background)

	state = Present(config, scheduler.Snapshot{Phase: scheduler.PhasePaused}, palette)
	assert.Equal(t, PausedForeground, state.Foreground)
	assert.Equal(t, PausedBackground, state.Background)
}

func TestDebugLines(t *testing.T) {
	config := pathConfig()
	config.Debug = true
	snapshot := scheduler.Snapshot{
		Phase:               scheduler.PhaseStopped,
		IdleElapsedSeconds:  0,
		NavRemainingSeconds: 0,
		StopReason:          navigation.ReasonSamePath,
	}
	state := Present(config, snapshot, Palette{})
	assert.Equal(t, []string{
		"Status: Stopped",
		"Mode: path",
		"Idle: 0/30s",
		"Remaining: 0/30s",
		"Reason: same path",
	}, state.Debug)

	config.Debug = false
	assert.Empty(t, Present(config, snapshot, Palette{}).Debug)
}

func TestParseColor(t *testing.T) {
	parsed, err := ParseColor("rgba(8,8,8,.25)")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 8, G: 8, B: 8, A: 64}, parsed)

	parsed, err = ParseColor(" RGB(1, 2, 3) ")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{R: 1, G: 2, B: 3, A: 255}, parsed)

	parsed, err = ParseColor("#0f0")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, parsed)

	for _, bad := range []string{"", "red", "rgba(1,2,3)", "rgb(1,2,300)", "rgba(1,2,3,2)", "#12345"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

type fakeController struct {
	signals []input.Signal
	downs   int
	ups     int
	cancels int
}

func (controller *fakeController) Activity(signal input.Signal) {
	controller.signals = append(controller.signals, signal)
}
func (controller *fakeController) PointerDown(float64, float64) { controller.downs++ }
func (controller *fakeController) PointerMove(float64, float64) {}
func (controller *fakeController) PointerUp(float64, float64)   { controller.ups++ }
func (controller *fakeController) PointerCancel()               { controller.cancels++ }

func TestViewForwardsInput(t *testing.T) {
	test.NewTempApp(t)
	controller := &fakeController{}
	view := NewView(controller)

	event := &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(4, 4)}}
	view.MouseMoved(event)
	view.MouseDown(event)
	view.MouseUp(event)
	view.Scrolled(&fyne.ScrollEvent{})

	assert.Equal(t, []input.Signal{input.SignalMouseMove, input.SignalMouseDown, input.SignalWheel}, controller.signals)
	assert.Equal(t, 1, controller.downs)
	assert.Equal(t, 1, controller.ups)
}

func TestViewRender(t *testing.T) {
	test.NewTempApp(t)
	view := NewView(&fakeController{})
	window := test.NewWindow(view)
	defer window.Close()

	config := pathConfig()
	view.Render(Present(config, scheduler.Snapshot{Phase: scheduler.PhaseCounting, ProgressFraction: 1.5}, Palette{}))
	assert.Equal(t, "Running • Navigating to /lovelace/home", view.OverlayText())
	assert.Equal(t, 1.0, view.Fraction())

	view.Render(Present(config, scheduler.Snapshot{Phase: scheduler.PhasePaused}, Palette{}))
	assert.Equal(t, "Paused", view.OverlayText())
	assert.Zero(t, view.Fraction())
}

func TestAddressBarNavigates(t *testing.T) {
	test.NewTempApp(t)
	host := navigation.NewMemoryHost("/home", nil)
	bar := NewAddressBar(host)
	defer bar.Close()

	assert.Equal(t, "/home", bar.Path())
	bar.submit("  settings ")
	assert.Equal(t, "/settings", host.CurrentPath())
	bar.submit("   ")
	assert.Equal(t, "/settings", host.CurrentPath())
}
