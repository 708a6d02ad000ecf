package main

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"autonav/internal/card"
	"autonav/internal/core/clock"
	"autonav/internal/core/input"
	"autonav/internal/core/model"
	"autonav/internal/core/navigation"
	"autonav/internal/core/scheduler"
	"autonav/internal/metrics"
	"autonav/internal/storage"
)

type simulation struct {
	startPath string
	history   []string
	redirects map[string]string
	seconds   int
	activity  []int
	taps      []int
	visits    map[string]string
	metrics   bool
}

var (
	simulateOptions simulation
	simulateMode    string
	simulatePath    string
	simulateDelay   int
	simulateIdle    int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the card headless against an in-memory host on a simulated clock",
	Long: `simulate drives the card one simulated second at a time and prints every
scheduler event. Settings come from --config and can be overridden by flags.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		config, err := storage.LoadConfig(configPath, logger)
		if err != nil {
			return fmt.Errorf("load settings: %w", err)
		}
		flags := cmd.Flags()
		if flags.Changed("mode") {
			config.NavigationMode = model.NavigationMode(simulateMode)
		}
		if flags.Changed("path") {
			config.NavigationPath = simulatePath
		}
		if flags.Changed("delay") {
			config.NavigationDelaySeconds = simulateDelay
		}
		if flags.Changed("idle") {
			config.IdleEnabled = simulateIdle > 0
			config.IdleTimeoutSeconds = simulateIdle
		}
		config = config.Sanitized()

		final, path := simulateOptions.run(cmd.OutOrStdout(), config, logger)
		fmt.Fprintf(cmd.OutOrStdout(), "final phase=%s path=%s", final.Phase, path)
		if final.StopReason != "" {
			fmt.Fprintf(cmd.OutOrStdout(), " reason=%q", final.StopReason)
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	flags := simulateCmd.Flags()
	flags.StringVar(&simulateOptions.startPath, "start-path", "/", "initial location of the host")
	flags.StringSliceVar(&simulateOptions.history, "history", nil, "paths pushed after the start path")
	flags.StringToStringVar(&simulateOptions.redirects, "redirect", nil, "host redirects, from=to")
	flags.IntVar(&simulateOptions.seconds, "seconds", 60, "simulated seconds to run")
	flags.IntSliceVar(&simulateOptions.activity, "activity-at", nil, "seconds at which the user moves the mouse")
	flags.IntSliceVar(&simulateOptions.taps, "tap-at", nil, "seconds at which the user taps the card")
	flags.StringToStringVar(&simulateOptions.visits, "visit", nil, "second=path, the user navigates the host")
	flags.BoolVar(&simulateOptions.metrics, "metrics", false, "print prometheus metrics after the run")
	flags.StringVar(&simulateMode, "mode", "", "override navigation_mode (none, back, path)")
	flags.StringVar(&simulatePath, "path", "", "override navigation_path")
	flags.IntVar(&simulateDelay, "delay", 0, "override navigation_delay in seconds")
	flags.IntVar(&simulateIdle, "idle", 0, "override idle_timeout in seconds, 0 disables idle")
}

// run drives a card for the configured number of seconds and returns its last
// state together with the host location.
func (sim simulation) run(out io.Writer, config model.Config, logger *slog.Logger) (scheduler.Snapshot, string) {
	start := time.Unix(0, 0).UTC()
	manual := clock.NewManual(start)
	host := navigation.NewMemoryHost(sim.startPath, logger)
	for _, path := range sim.history {
		host.Push(path)
	}
	for from, to := range sim.redirects {
		host.SetRedirect(from, to)
	}

	printer := &eventPrinter{out: out, start: start}
	collector := metrics.NewCollector()
	navCard := card.New(config, card.Options{
		Clock:     manual,
		Host:      host,
		Logger:    logger,
		Observers: []card.Observer{printer, collector},
	})
	loop := navCard.Loop()

	activity := secondsSet(sim.activity)
	taps := secondsSet(sim.taps)
	visits := make(map[int]string, len(sim.visits))
	for second, path := range sim.visits {
		at, err := strconv.Atoi(second)
		if err != nil {
			logger.Warn("ignoring visit", "second", second, "err", err)
			continue
		}
		visits[at] = path
	}

	navCard.Start()
	loop.Drain()
	for second := 1; second <= sim.seconds; second++ {
		manual.Advance(time.Second)
		loop.Drain()
		if path, ok := visits[second]; ok {
			host.Navigate(path)
		}
		if activity[second] {
			navCard.Activity(input.SignalMouseMove)
		}
		if taps[second] {
			navCard.PointerDown(0, 0)
			navCard.PointerUp(0, 0)
		}
		loop.Drain()
	}
	final := navCard.Snapshot()
	navCard.Close()
	loop.Drain()
	if sim.metrics {
		if err := collector.WriteText(out); err != nil {
			logger.Warn("write metrics", "err", err)
		}
	}
	return final, host.CurrentPath()
}

type eventPrinter struct {
	out   io.Writer
	start time.Time
}

func (printer *eventPrinter) Observe(event scheduler.Event) {
	snapshot := event.Snapshot
	fmt.Fprintf(printer.out, "t=%-4s %-12s phase=%-8s idle=%d remaining=%d progress=%.2f",
		event.At.Sub(printer.start).String(), event.Type, snapshot.Phase,
		snapshot.IdleElapsedSeconds, snapshot.NavRemainingSeconds, snapshot.ProgressFraction)
	if event.Message != "" {
		fmt.Fprintf(printer.out, " %q", event.Message)
	}
	fmt.Fprintln(printer.out)
}

func secondsSet(seconds []int) map[int]bool {
	set := make(map[int]bool, len(seconds))
	for _, second := range seconds {
		set[second] = true
	}
	return set
}
