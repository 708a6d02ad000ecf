// Package cardview renders an auto-navigate card with fyne and feeds pointer,
// key and wheel input back into it.
package cardview

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"autonav/internal/core/model"
	"autonav/internal/core/scheduler"
)

// Dimmed amber used for the progress bar while paused.
var (
	PausedForeground = color.NRGBA{R: 255, G: 193, B: 7, A: 166}
	PausedBackground = color.NRGBA{R: 255, G: 193, B: 7, A: 56}
)

// Palette holds the theme colours used when use_theme_colors is on.
type Palette struct {
	Primary color.Color
	Divider color.Color
}

// State is everything the view draws, derived from config and a snapshot.
type State struct {
	Title        string
	ShowProgress bool
	Progress     float64
	ShowOverlay  bool
	OverlayText  string
	Foreground   color.Color
	Background   color.Color
	Debug        []string
}

// Present derives the view state.
func Present(config model.Config, snapshot scheduler.Snapshot, palette Palette) State {
	modeNone := config.NavigationMode == model.ModeNone
	state := State{
		Title:        strings.TrimSpace(config.Title),
		ShowProgress: !modeNone && !config.HideProgress,
		Progress:     snapshot.ProgressFraction,
	}
	state.ShowOverlay = state.ShowProgress && config.ShowStatus
	if state.ShowOverlay {
		state.OverlayText = OverlayText(config, snapshot)
	}

	state.Foreground, state.Background = progressColors(config, palette)
	if snapshot.Phase == scheduler.PhasePaused {
		state.Foreground, state.Background = PausedForeground, PausedBackground
	}

	if config.Debug {
		state.Debug = DebugLines(config, snapshot)
	}
	return state
}

// StatusLabel names the phase the way the card shows it.
func StatusLabel(snapshot scheduler.Snapshot) string {
	switch snapshot.Phase {
	case scheduler.PhasePaused:
		return "Paused"
	case scheduler.PhaseStopped:
		return "Stopped"
	case scheduler.PhaseIdle:
		return "Idle"
	default:
		return "Running"
	}
}

// ModeLabel describes what the card will do when the countdown ends.
func ModeLabel(config model.Config) string {
	switch config.NavigationMode {
	case model.ModeBack:
		return "Navigate back…"
	case model.ModePath:
		return "Navigating to " + config.Target()
	default:
		return ""
	}
}

// OverlayText is the label drawn on top of the progress bar.
func OverlayText(config model.Config, snapshot scheduler.Snapshot) string {
	if config.NavigationMode == model.ModeNone {
		return ""
	}
	status := StatusLabel(snapshot)
	if snapshot.Phase != scheduler.PhaseCounting {
		return status
	}
	if mode := ModeLabel(config); mode != "" {
		return status + " • " + mode
	}
	return status
}

// DebugLines lists the scheduler counters for the debug panel.
func DebugLines(config model.Config, snapshot scheduler.Snapshot) []string {
	lines := []string{
		"Status: " + StatusLabel(snapshot),
		"Mode: " + string(config.NavigationMode),
		fmt.Sprintf("Idle: %d/%ds", snapshot.IdleElapsedSeconds, config.IdleTimeoutSeconds),
		fmt.Sprintf("Remaining: %d/%ds", snapshot.NavRemainingSeconds, config.NavigationDelaySeconds),
	}
	if snapshot.StopReason != "" {
		lines = append(lines, "Reason: "+snapshot.StopReason)
	}
	return lines
}

func progressColors(config model.Config, palette Palette) (color.Color, color.Color) {
	if config.UseThemeColors && palette.Primary != nil && palette.Divider != nil {
		return palette.Primary, palette.Divider
	}
	foreground, err := ParseColor(config.ProgressForeground)
	if err != nil {
		foreground, _ = ParseColor(model.DefaultProgressForeground)
	}
	background, err := ParseColor(config.ProgressBackground)
	if err != nil {
		background, _ = ParseColor(model.DefaultProgressBackground)
	}
	return foreground, background
}

// ParseColor reads the CSS colour forms used in card configs: #rgb, #rrggbb,
// rgb(r,g,b) and rgba(r,g,b,a) with alpha in [0,1].
func ParseColor(value string) (color.NRGBA, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.HasPrefix(value, "#"):
		return parseHex(value[1:])
	case strings.HasPrefix(value, "rgba(") && strings.HasSuffix(value, ")"):
		return parseFunctional(value[len("rgba("):len(value)-1], true)
	case strings.HasPrefix(value, "rgb(") && strings.HasSuffix(value, ")"):
		return parseFunctional(value[len("rgb("):len(value)-1], false)
	}
	return color.NRGBA{}, fmt.Errorf("unsupported colour %q", value)
}

func parseHex(digits string) (color.NRGBA, error) {
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	if len(digits) != 6 {
		return color.NRGBA{}, fmt.Errorf("unsupported hex colour %q", digits)
	}
	parsed, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse hex colour: %w", err)
	}
	return color.NRGBA{R: uint8(parsed >> 16), G: uint8(parsed >> 8), B: uint8(parsed), A: 255}, nil
}

func parseFunctional(body string, withAlpha bool) (color.NRGBA, error) {
	parts := strings.Split(body, ",")
	want := 3
	if withAlpha {
		want = 4
	}
	if len(parts) != want {
		return color.NRGBA{}, fmt.Errorf("expected %d colour components, got %d", want, len(parts))
	}

	var channels [3]uint8
	for i := 0; i < 3; i++ {
		channel, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || channel < 0 || channel > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid colour component %q", parts[i])
		}
		channels[i] = uint8(channel)
	}

	alpha := uint8(255)
	if withAlpha {
		value, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || value < 0 || value > 1 {
			return color.NRGBA{}, fmt.Errorf("invalid alpha %q", parts[3])
		}
		alpha = uint8(value*255 + 0.5)
	}
	return color.NRGBA{R: channels[0], G: channels[1], B: channels[2], A: alpha}, nil
}
