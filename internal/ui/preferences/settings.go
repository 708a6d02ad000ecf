package preferences

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"autonav/internal/core/model"
	"autonav/internal/ui/cardview"
)

var (
	ErrPathNotAbsolute = errors.New("path must start with \"/\" (example: /lovelace/0)")
	ErrNegative        = errors.New("must be 0 or greater")
	ErrNotNumber       = errors.New("must be a number")
)

// Draft holds the raw values of the settings form.
type Draft struct {
	Title               string
	Mode                model.NavigationMode
	Path                string
	Delay               string
	StopAfterNavigation bool
	IdleEnabled         bool
	IdleTimeout         string
	ResetOnViewChange   bool
	ShowStatus          bool
	HideProgress        bool
	UseThemeColors      bool
	Foreground          string
	Background          string
	Debug               bool
}

// DraftFrom fills a form from config.
func DraftFrom(config model.Config) Draft {
	return Draft{
		Title:               config.Title,
		Mode:                config.NavigationMode,
		Path:                config.NavigationPath,
		Delay:               strconv.Itoa(config.NavigationDelaySeconds),
		StopAfterNavigation: config.StopAfterNavigation,
		IdleEnabled:         config.IdleEnabled,
		IdleTimeout:         strconv.Itoa(config.IdleTimeoutSeconds),
		ResetOnViewChange:   config.ResetOnViewChange,
		ShowStatus:          config.ShowStatus,
		HideProgress:        config.HideProgress,
		UseThemeColors:      config.UseThemeColors,
		Foreground:          config.ProgressForeground,
		Background:          config.ProgressBackground,
		Debug:               config.Debug,
	}
}

// Config validates the draft and converts it. Empty fields take their
// defaults; the path is dropped unless the mode is path.
func (draft Draft) Config() (model.Config, error) {
	config := model.DefaultConfig()
	config.Title = draft.Title
	if draft.Mode.Valid() {
		config.NavigationMode = draft.Mode
	}

	var errs []error
	if config.NavigationMode == model.ModePath {
		if err := ValidatePath(draft.Path); err != nil {
			errs = append(errs, fmt.Errorf("navigation path: %w", err))
		}
		config.NavigationPath = strings.TrimSpace(draft.Path)
	}

	delay, err := parseSeconds(draft.Delay, model.DefaultNavigationDelaySeconds)
	if err != nil {
		errs = append(errs, fmt.Errorf("navigation delay: %w", err))
	}
	config.NavigationDelaySeconds = delay
	config.StopAfterNavigation = draft.StopAfterNavigation

	config.IdleEnabled = draft.IdleEnabled
	if draft.IdleEnabled {
		timeout, err := parseSeconds(draft.IdleTimeout, model.DefaultIdleTimeoutSeconds)
		if err != nil {
			errs = append(errs, fmt.Errorf("idle timeout: %w", err))
		}
		config.IdleTimeoutSeconds = timeout
	}
	config.ResetOnViewChange = draft.ResetOnViewChange

	config.ShowStatus = draft.ShowStatus
	config.HideProgress = draft.HideProgress
	config.UseThemeColors = draft.UseThemeColors
	config.Debug = draft.Debug
	if !draft.UseThemeColors {
		config.ProgressForeground = colorOrDefault(draft.Foreground, model.DefaultProgressForeground, "progress foreground", &errs)
		config.ProgressBackground = colorOrDefault(draft.Background, model.DefaultProgressBackground, "progress background", &errs)
	}

	if len(errs) > 0 {
		return model.Config{}, errors.Join(errs...)
	}
	return config.Sanitized(), nil
}

// ValidatePath accepts an empty path or one starting with "/".
func ValidatePath(path string) error {
	path = strings.TrimSpace(path)
	if path != "" && !strings.HasPrefix(path, "/") {
		return ErrPathNotAbsolute
	}
	return nil
}

func parseSeconds(text string, fallback int) (int, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, ErrNotNumber
	}
	if value < 0 {
		return 0, ErrNegative
	}
	return int(math.Ceil(value)), nil
}

func colorOrDefault(text, fallback, label string, errs *[]error) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	if _, err := cardview.ParseColor(text); err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", label, err))
	}
	return text
}
