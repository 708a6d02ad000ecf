package model

import (
	"errors"
	"strings"
)

// ErrInvalidConfig is returned when no configuration mapping is supplied at all.
var ErrInvalidConfig = errors.New("invalid configuration")

// NavigationMode selects what happens when the countdown expires.
type NavigationMode string

const (
	ModeNone NavigationMode = "none"
	ModeBack NavigationMode = "back"
	ModePath NavigationMode = "path"
)

// Valid reports whether mode is one of the known modes.
func (mode NavigationMode) Valid() bool {
	switch mode {
	case ModeNone, ModeBack, ModePath:
		return true
	}
	return false
}

const (
	DefaultNavigationMode         = ModePath
	DefaultNavigationDelaySeconds = 30
	DefaultIdleTimeoutSeconds     = 30
	DefaultProgressForeground     = "rgba(8,8,8,.25)"
	DefaultProgressBackground     = "rgba(12,12,12,.25)"
)

// Config holds sanitized card settings. Numbers are whole non-negative seconds.
type Config struct {
	Title string

	NavigationMode         NavigationMode
	NavigationPath         string
	NavigationDelaySeconds int
	StopAfterNavigation    bool

	IdleEnabled        bool
	IdleTimeoutSeconds int

	ResetOnViewChange bool

	HideProgress       bool
	ShowStatus         bool
	UseThemeColors     bool
	ProgressForeground string
	ProgressBackground string
	Debug              bool
}

// DefaultConfig returns the settings used when a key is absent.
func DefaultConfig() Config {
	return Config{
		NavigationMode:         DefaultNavigationMode,
		NavigationDelaySeconds: DefaultNavigationDelaySeconds,
		IdleEnabled:            true,
		IdleTimeoutSeconds:     DefaultIdleTimeoutSeconds,
		ResetOnViewChange:      true,
		UseThemeColors:         true,
		ProgressForeground:     DefaultProgressForeground,
		ProgressBackground:     DefaultProgressBackground,
	}
}

// StubConfig returns the starter configuration written by init-config.
func StubConfig() Config {
	config := DefaultConfig()
	config.NavigationDelaySeconds = 15
	config.IdleTimeoutSeconds = 5
	config.ShowStatus = true
	return config
}

// Target returns the configured path with surrounding whitespace removed.
func (config Config) Target() string {
	return strings.TrimSpace(config.NavigationPath)
}

// Sanitized clamps negative numbers and unknown modes the same way ParseConfig does.
func (config Config) Sanitized() Config {
	if !config.NavigationMode.Valid() {
		config.NavigationMode = DefaultNavigationMode
	}
	if config.NavigationDelaySeconds < 0 {
		config.NavigationDelaySeconds = 0
	}
	if config.IdleTimeoutSeconds < 0 {
		config.IdleTimeoutSeconds = 0
	}
	return config
}
