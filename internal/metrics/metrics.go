// Package metrics exports card scheduler activity as prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"

	"autonav/internal/core/navigation"
	"autonav/internal/core/scheduler"
)

// Stop reason categories used as the reason label.
const (
	StopModeNone        = "mode_none"
	StopEmptyPath       = "empty_path"
	StopSamePath        = "same_path"
	StopAfterNavigation = "after_navigation"
	StopBackLoop        = "back_loop"
	StopOther           = "other"
)

const (
	backLoopReasonPrefix = "back loop detected"
	shutdownTimeout      = 5 * time.Second
)

var phases = []scheduler.Phase{
	scheduler.PhaseIdle,
	scheduler.PhaseCounting,
	scheduler.PhasePaused,
	scheduler.PhaseStopped,
}

// Collector counts scheduler events. Each collector owns its registry so
// several cards or tests never share counters.
type Collector struct {
	registry *prometheus.Registry

	navigations *prometheus.CounterVec
	stops       *prometheus.CounterVec
	resets      prometheus.Counter
	pauses      prometheus.Counter
	backLoops   prometheus.Counter
	phase       *prometheus.GaugeVec
}

// NewCollector creates a collector with a fresh registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Collector{
		registry: registry,
		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autonav_navigations_total",
			Help: "Navigations performed by the card, by mode",
		}, []string{"mode"}),
		stops: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "autonav_stops_total",
			Help: "Transitions into the stopped phase, by reason",
		}, []string{"reason"}),
		resets: factory.NewCounter(prometheus.CounterOpts{
			Name: "autonav_resets_total",
			Help: "Full scheduler resets",
		}),
		pauses: factory.NewCounter(prometheus.CounterOpts{
			Name: "autonav_pauses_total",
			Help: "Times the card was paused by the user",
		}),
		backLoops: factory.NewCounter(prometheus.CounterOpts{
			Name: "autonav_back_loops_total",
			Help: "Back-navigation bounce loops detected",
		}),
		phase: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "autonav_phase",
			Help: "1 for the current scheduler phase, 0 otherwise",
		}, []string{"phase"}),
	}
}

// WriteText writes the current metrics in the prometheus text format.
func (collector *Collector) WriteText(w io.Writer) error {
	families, err := collector.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

// Observe records one scheduler event.
func (collector *Collector) Observe(event scheduler.Event) {
	snapshot := event.Snapshot
	switch event.Type {
	case scheduler.EventReset:
		collector.resets.Inc()
	case scheduler.EventNavigate:
		collector.navigations.WithLabelValues(string(snapshot.Mode)).Inc()
	case scheduler.EventStateChange:
		switch snapshot.Phase {
		case scheduler.PhasePaused:
			collector.pauses.Inc()
		case scheduler.PhaseStopped:
			reason := ReasonCategory(snapshot.StopReason)
			collector.stops.WithLabelValues(reason).Inc()
			if reason == StopBackLoop {
				collector.backLoops.Inc()
			}
		}
	}

	for _, phase := range phases {
		value := 0.0
		if phase == snapshot.Phase {
			value = 1
		}
		collector.phase.WithLabelValues(string(phase)).Set(value)
	}
}

// ReasonCategory maps a free-form stop reason onto a bounded label value.
func ReasonCategory(reason string) string {
	switch {
	case reason == navigation.ReasonModeNone:
		return StopModeNone
	case reason == navigation.ReasonEmptyPath:
		return StopEmptyPath
	case reason == navigation.ReasonSamePath:
		return StopSamePath
	case reason == scheduler.ReasonStopAfterNavigation:
		return StopAfterNavigation
	case strings.HasPrefix(reason, backLoopReasonPrefix):
		return StopBackLoop
	default:
		return StopOther
	}
}

// Handler serves the collector's registry.
func (collector *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(collector.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is done.
func (collector *Collector) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	logger.Info("starting metrics server", "addr", addr, "path", "/metrics")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
