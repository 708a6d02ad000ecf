package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"autonav/internal/core/model"
	"autonav/internal/core/scheduler"
	"autonav/resources"
)

const menuTitle = "Auto Navigate"

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowCard    func()
	OnSettings    func()
	OnTogglePause func()
	OnReset       func()
	OnMode        func(model.NavigationMode)
	OnQuit        func()
}

// Manager keeps the tray menu in step with the card.
type Manager struct {
	app        desktop.App
	callbacks  Callbacks
	menu       *fyne.Menu
	statusItem *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	modeItems  map[model.NavigationMode]*fyne.MenuItem
	icon       string
}

// New creates a tray manager. A nil app builds the menu without installing it.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
		modeItems: make(map[model.NavigationMode]*fyne.MenuItem),
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	show := fyne.NewMenuItem("Show card", func() { call(manager.callbacks.OnShowCard) })
	settings := fyne.NewMenuItem("Settings...", func() { call(manager.callbacks.OnSettings) })
	manager.pauseItem = fyne.NewMenuItem("Pause", func() { call(manager.callbacks.OnTogglePause) })
	reset := fyne.NewMenuItem("Reset countdown", func() { call(manager.callbacks.OnReset) })

	modes := fyne.NewMenuItem("Navigation mode", nil)
	var modeChildren []*fyne.MenuItem
	for _, mode := range []model.NavigationMode{model.ModePath, model.ModeBack, model.ModeNone} {
		mode := mode
		item := fyne.NewMenuItem(modeTitle(mode), func() {
			if manager.callbacks.OnMode != nil {
				manager.callbacks.OnMode(mode)
			}
		})
		manager.modeItems[mode] = item
		modeChildren = append(modeChildren, item)
	}
	modes.ChildMenu = fyne.NewMenu("", modeChildren...)

	quit := fyne.NewMenuItem("Quit", func() { call(manager.callbacks.OnQuit) })
	quit.IsQuit = true

	manager.menu = fyne.NewMenu(menuTitle,
		manager.statusItem,
		show,
		settings,
		fyne.NewMenuItemSeparator(),
		manager.pauseItem,
		reset,
		modes,
		fyne.NewMenuItemSeparator(),
		quit,
	)
	if app != nil {
		app.SetSystemTrayMenu(manager.menu)
	}
	manager.setIcon(resources.IconStopped)
	return manager
}

// Update reflects the snapshot in the menu. It must run on the fyne goroutine.
func (manager *Manager) Update(snapshot scheduler.Snapshot) {
	manager.statusItem.Label = "Status: " + StatusText(snapshot)

	paused := snapshot.Phase == scheduler.PhasePaused
	if paused {
		manager.pauseItem.Label = "Resume"
	} else {
		manager.pauseItem.Label = "Pause"
	}
	manager.pauseItem.Disabled = snapshot.Mode == model.ModeNone
	for mode, item := range manager.modeItems {
		item.Checked = mode == snapshot.Mode
	}

	manager.setIcon(IconFor(snapshot))
	manager.menu.Refresh()
}

// IconFor picks the tray icon for a snapshot.
func IconFor(snapshot scheduler.Snapshot) string {
	switch snapshot.Phase {
	case scheduler.PhasePaused:
		return resources.IconPaused
	case scheduler.PhaseStopped:
		return resources.IconStopped
	default:
		return resources.IconRunning
	}
}

func (manager *Manager) setIcon(name string) {
	if name == manager.icon {
		return
	}
	manager.icon = name
	if manager.app != nil {
		manager.app.SetSystemTrayIcon(resources.MustIcon(name))
	}
}

// Menu returns the tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// StatusText is the one-line status shown at the top of the menu.
func StatusText(snapshot scheduler.Snapshot) string {
	switch snapshot.Phase {
	case scheduler.PhaseIdle:
		return fmt.Sprintf("idle %d/%ds", snapshot.IdleElapsedSeconds, snapshot.IdleTimeoutSeconds)
	case scheduler.PhaseCounting:
		if snapshot.NavRemainingSeconds == 0 && snapshot.ProgressFraction >= 1 {
			return "navigated"
		}
		return fmt.Sprintf("navigating in %ds", snapshot.NavRemainingSeconds)
	case scheduler.PhasePaused:
		return "paused"
	default:
		if snapshot.StopReason != "" {
			return "stopped (" + snapshot.StopReason + ")"
		}
		return "stopped"
	}
}

func modeTitle(mode model.NavigationMode) string {
	switch mode {
	case model.ModeBack:
		return "Go back"
	case model.ModePath:
		return "Go to path"
	default:
		return "Off"
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
