package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Configuration keys accepted by ParseConfig.
const (
	KeyTitle               = "title"
	KeyHideTitle           = "hide_title"
	KeyNavigationMode      = "navigation_mode"
	KeyNavigationPath      = "navigation_path"
	KeyNavigationDelay     = "navigation_delay_time"
	KeyStopAfterNavigation = "stop_after_navigation"
	KeyEnableIdle          = "enable_idle"
	KeyIdleTimeout         = "idle_timeout"
	KeyResetOnViewChange   = "reset_on_view_change"
	KeyHideProgress        = "hide_progress"
	KeyShowStatus          = "show_status"
	KeyUseThemeColors      = "use_theme_colors"
	KeyProgressForeground  = "progress_foreground"
	KeyProgressBackground  = "progress_background"
	KeyDebug               = "debug"
)

// ParseConfig merges raw over DefaultConfig. Absent keys keep their default,
// present numeric keys that are null, negative, non-finite or unparsable become 0.
func ParseConfig(raw map[string]any) (Config, error) {
	if raw == nil {
		return Config{}, ErrInvalidConfig
	}

	values := make(map[string]any, len(raw))
	for key, value := range raw {
		values[key] = value
	}

	// hide_title: true is the pre-release spelling of an empty title.
	if hide, ok := values[KeyHideTitle]; ok {
		if _, hasTitle := values[KeyTitle]; !hasTitle && toBool(hide) {
			values[KeyTitle] = ""
		}
		delete(values, KeyHideTitle)
	}

	config := DefaultConfig()
	for key, value := range values {
		switch key {
		case KeyTitle:
			config.Title = toString(value)
		case KeyNavigationMode:
			config.NavigationMode = NavigationMode(strings.TrimSpace(toString(value)))
		case KeyNavigationPath:
			config.NavigationPath = toString(value)
		case KeyNavigationDelay:
			config.NavigationDelaySeconds = toSeconds(value)
		case KeyStopAfterNavigation:
			config.StopAfterNavigation = toBool(value)
		case KeyEnableIdle:
			config.IdleEnabled = toBool(value)
		case KeyIdleTimeout:
			config.IdleTimeoutSeconds = toSeconds(value)
		case KeyResetOnViewChange:
			config.ResetOnViewChange = toBool(value)
		case KeyHideProgress:
			config.HideProgress = toBool(value)
		case KeyShowStatus:
			config.ShowStatus = toBool(value)
		case KeyUseThemeColors:
			config.UseThemeColors = toBool(value)
		case KeyProgressForeground:
			config.ProgressForeground = toString(value)
		case KeyProgressBackground:
			config.ProgressBackground = toString(value)
		case KeyDebug:
			config.Debug = toBool(value)
		}
	}

	return config.Sanitized(), nil
}

// LegacyKeys lists deprecated keys present in raw.
func LegacyKeys(raw map[string]any) []string {
	var keys []string
	if _, ok := raw[KeyHideTitle]; ok {
		keys = append(keys, KeyHideTitle)
	}
	return keys
}

// Map renders config back into the mapping form ParseConfig accepts.
func (config Config) Map() map[string]any {
	raw := map[string]any{
		KeyTitle:               config.Title,
		KeyNavigationMode:      string(config.NavigationMode),
		KeyNavigationDelay:     config.NavigationDelaySeconds,
		KeyStopAfterNavigation: config.StopAfterNavigation,
		KeyEnableIdle:          config.IdleEnabled,
		KeyIdleTimeout:         config.IdleTimeoutSeconds,
		KeyResetOnViewChange:   config.ResetOnViewChange,
		KeyHideProgress:        config.HideProgress,
		KeyShowStatus:          config.ShowStatus,
		KeyUseThemeColors:      config.UseThemeColors,
		KeyProgressForeground:  config.ProgressForeground,
		KeyProgressBackground:  config.ProgressBackground,
		KeyDebug:               config.Debug,
	}
	if config.NavigationMode == ModePath {
		raw[KeyNavigationPath] = config.NavigationPath
	}
	return raw
}

func toSeconds(value any) int {
	var seconds float64
	switch typed := value.(type) {
	case int:
		seconds = float64(typed)
	case int64:
		seconds = float64(typed)
	case int32:
		seconds = float64(typed)
	case uint:
		seconds = float64(typed)
	case uint64:
		seconds = float64(typed)
	case float64:
		seconds = typed
	case float32:
		seconds = float64(typed)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		if err != nil {
			return 0
		}
		seconds = parsed
	default:
		return 0
	}
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds <= 0 {
		return 0
	}
	if seconds > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Ceil(seconds))
}

func toBool(value any) bool {
	switch typed := value.(type) {
	case bool:
		return typed
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		return err == nil && parsed
	case int:
		return typed != 0
	case float64:
		return typed != 0
	}
	return false
}

func toString(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	}
	return fmt.Sprint(value)
}
