package main

import (
	"bytes"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autonav/internal/core/model"
	"autonav/internal/core/navigation"
	"autonav/internal/core/scheduler"
	"autonav/internal/storage"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func simulationConfig(path string, delay int) model.Config {
	config := model.DefaultConfig()
	config.NavigationPath = path
	config.NavigationDelaySeconds = delay
	config.IdleEnabled = false
	return config
}

func TestSimulationNavigatesThenStopsOnTarget(t *testing.T) {
	var out bytes.Buffer
	// Arriving does not restart the countdown; the activity at 3s does.
	sim := simulation{startPath: "/b", seconds: 5, activity: []int{3}, metrics: true}

	final, path := sim.run(&out, simulationConfig("/a", 2), quietLogger())

	assert.Equal(t, "/a", path)
	assert.Equal(t, scheduler.PhaseStopped, final.Phase)
	assert.Equal(t, navigation.ReasonSamePath, final.StopReason)
	assert.Contains(t, out.String(), "navigate")
	assert.Contains(t, out.String(), "t=2s")
	assert.Contains(t, out.String(), "t=5s")
	assert.Contains(t, out.String(), `autonav_navigations_total{mode="path"} 1`)
	assert.Contains(t, out.String(), `autonav_stops_total{reason="same_path"} 1`)
}

func TestSimulationArrivalEndsCycle(t *testing.T) {
	var out bytes.Buffer
	sim := simulation{startPath: "/b", seconds: 6}

	final, path := sim.run(&out, simulationConfig("/a", 2), quietLogger())

	assert.Equal(t, "/a", path)
	assert.Equal(t, scheduler.PhaseCounting, final.Phase)
	assert.Equal(t, 1.0, final.ProgressFraction)
	assert.Empty(t, final.StopReason)
}

func TestSimulationActivityRestartsCountdown(t *testing.T) {
	var out bytes.Buffer
	sim := simulation{startPath: "/b", seconds: 2, activity: []int{1}}

	final, path := sim.run(&out, simulationConfig("/a", 2), quietLogger())

	assert.Equal(t, "/b", path)
	assert.Equal(t, scheduler.PhaseCounting, final.Phase)
	assert.Equal(t, 1, final.NavRemainingSeconds)
}

func TestSimulationTapPauses(t *testing.T) {
	var out bytes.Buffer
	sim := simulation{startPath: "/b", seconds: 4, taps: []int{1}}

	final, path := sim.run(&out, simulationConfig("/a", 2), quietLogger())

	assert.Equal(t, "/b", path)
	assert.Equal(t, scheduler.PhasePaused, final.Phase)
}

func TestSimulationBackLoopThroughRedirect(t *testing.T) {
	var out bytes.Buffer
	sim := simulation{
		startPath: "/kiosk",
		history:   []string{"/card"},
		redirects: map[string]string{"/kiosk": "/card"},
		seconds:   3,
	}
	config := simulationConfig("", 1)
	config.NavigationMode = model.ModeBack

	final, _ := sim.run(&out, config, quietLogger())

	assert.Equal(t, scheduler.PhaseStopped, final.Phase)
	assert.Contains(t, final.StopReason, "back loop detected")
}

func TestInitConfigWritesStub(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init-config", "--config", path})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), path)

	config, err := storage.LoadConfig(path, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, model.StubConfig(), config)

	rootCmd.SetArgs([]string{"init-config", "--config", path})
	assert.ErrorIs(t, rootCmd.Execute(), storage.ErrConfigExists)
}
