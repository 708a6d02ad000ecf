package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/spf13/cobra"

	"autonav/internal/card"
	"autonav/internal/core/input"
	"autonav/internal/core/model"
	"autonav/internal/core/navigation"
	"autonav/internal/metrics"
	"autonav/internal/platform"
	"autonav/internal/storage"
	"autonav/internal/ui/cardview"
	"autonav/internal/ui/preferences"
	"autonav/internal/ui/tray"
	"autonav/resources"
)

var runOptions struct {
	startPath    string
	metricsAddr  string
	systemIdle   bool
	pollInterval time.Duration
	editMode     bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Show the card in a desktop window",
	Args:  cobra.NoArgs,
	RunE:  runCard,
}

func init() {
	addRunFlags(runCmd)
}

func addRunFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&runOptions.startPath, "start-path", "/", "initial location of the host")
	flags.StringVar(&runOptions.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address")
	flags.BoolVar(&runOptions.systemIdle, "system-idle", false, "treat OS input activity as card activity")
	flags.DurationVar(&runOptions.pollInterval, "idle-poll", platform.DefaultPollInterval, "how often to poll OS idle time")
	flags.BoolVar(&runOptions.editMode, "edit", false, "start in edit mode (tap-to-pause disabled)")
}

func runCard(cmd *cobra.Command, args []string) error {
	lock, err := platform.AcquireInstanceLock(appName)
	if err != nil {
		return err
	}
	defer func() {
		_ = lock.Release()
	}()

	config, err := storage.LoadConfig(configPath, logger)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	host := navigation.NewMemoryHost(runOptions.startPath, logger)
	collector := metrics.NewCollector()
	navCard := card.New(config, card.Options{
		Host:      host,
		Logger:    logger,
		Observers: []card.Observer{collector},
	})
	cardDone := make(chan struct{})
	go func() {
		defer close(cardDone)
		navCard.Run(ctx)
	}()

	if runOptions.metricsAddr != "" {
		go func() {
			if err := collector.Serve(ctx, runOptions.metricsAddr, logger); err != nil {
				logger.Error("metrics server stopped", "err", err)
			}
		}()
	}
	if runOptions.systemIdle {
		poller := platform.NewActivityPoller(platform.NewIdleProvider(), runOptions.pollInterval, func() {
			navCard.Activity(input.SignalSystem)
		}, logger)
		go func() {
			if err := poller.Run(ctx); err != nil {
				logger.Warn("system idle detection unavailable", "err", err)
			}
		}()
	}

	fyneApp := app.NewWithID(appID)
	fyneApp.SetIcon(resources.MustIcon(resources.IconRunning))
	window := fyneApp.NewWindow(windowTitle(config))
	view := cardview.NewView(navCard)
	address := cardview.NewAddressBar(host)
	defer address.Close()
	window.SetContent(container.NewBorder(address.Content(), nil, nil, nil, view))
	window.Resize(fyne.NewSize(420, 180))
	view.AttachKeys(window)

	settings := preferences.New(fyneApp, config, func(updated model.Config) {
		navCard.ApplyConfig(updated)
		window.SetTitle(windowTitle(updated))
		if err := storage.SaveConfig(configPath, updated); err != nil {
			logger.Warn("save settings", "path", configPath, "err", err)
		}
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowCard: window.Show,
			OnSettings: func() {
				settings.Update(navCard.Config())
				settings.Show()
			},
			OnTogglePause: navCard.TogglePause,
			OnReset:       navCard.Reset,
			OnMode: func(mode model.NavigationMode) {
				navCard.SetMode(mode)
				updated := navCard.Config()
				updated.NavigationMode = mode
				if err := storage.SaveConfig(configPath, updated); err != nil {
					logger.Warn("save settings", "path", configPath, "err", err)
				}
			},
			OnQuit: fyneApp.Quit,
		})
		window.SetCloseIntercept(window.Hide)
	} else {
		logger.Info("system tray unsupported on this platform")
	}

	palette := cardview.Palette{
		Primary: theme.Color(theme.ColorNamePrimary),
		Divider: theme.Color(theme.ColorNameSeparator),
	}
	events := navCard.Subscribe(16)
	go func() {
		for range events {
			// Events can be dropped when the UI falls behind; render the latest state.
			snapshot := navCard.Snapshot()
			state := cardview.Present(navCard.Config(), snapshot, palette)
			fyne.Do(func() {
				view.Render(state)
				if trayManager != nil {
					trayManager.Update(snapshot)
				}
			})
		}
	}()
	go func() {
		<-ctx.Done()
		fyne.Do(fyneApp.Quit)
	}()

	navCard.SetEditMode(runOptions.editMode)
	navCard.Start()
	window.ShowAndRun()

	logger.Info("shutting down")
	cancel()
	<-cardDone
	return nil
}

func windowTitle(config model.Config) string {
	if config.Title != "" {
		return config.Title
	}
	return "Auto navigate"
}
