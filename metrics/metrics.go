// Package metrics exports Prometheus metrics for a game loop session.
//
// All recording methods are safe to call on a nil *Metrics, so the session can
// record unconditionally whether or not metrics were configured.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gameloop"

// Metrics holds the session collectors.
type Metrics struct {
	Frames            *prometheus.CounterVec
	DeviceCreations   prometheus.Counter
	SurfaceCreations  prometheus.Counter
	DeviceRecoveries  prometheus.Counter
	FatalErrors       *prometheus.CounterVec
	TickDuration      prometheus.Histogram
	OutputWidth       prometheus.Gauge
	OutputHeight      prometheus.Gauge
	FeatureLevelGauge prometheus.Gauge
}

// New creates the session metrics and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Total number of ticks, by frame outcome.",
		}, []string{"outcome"}),
		DeviceCreations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_creations_total",
			Help:      "Total number of graphics devices created.",
		}),
		SurfaceCreations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "surface_creations_total",
			Help:      "Total number of presentation surfaces created.",
		}),
		DeviceRecoveries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "device_recoveries_total",
			Help:      "Total number of device-loss recoveries.",
		}),
		FatalErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fatal_errors_total",
			Help:      "Total number of fatal session errors, by stage.",
		}, []string{"stage"}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Wall time of one Tick, including the vsync wait.",
			Buckets:   []float64{.001, .002, .004, .008, .016, .033, .05, .1, .25, 1},
		}),
		OutputWidth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_width_pixels",
			Help:      "Current output width in pixels.",
		}),
		OutputHeight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "output_height_pixels",
			Help:      "Current output height in pixels.",
		}),
		FeatureLevelGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feature_level",
			Help:      "Negotiated feature level as major*10+minor (e.g. 111 for 11.1).",
		}),
	}

	reg.MustRegister(
		m.Frames,
		m.DeviceCreations,
		m.SurfaceCreations,
		m.DeviceRecoveries,
		m.FatalErrors,
		m.TickDuration,
		m.OutputWidth,
		m.OutputHeight,
		m.FeatureLevelGauge,
	)
	return m
}

// NewRegistry creates a Prometheus registry with Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return reg
}

// Handler returns an http.Handler that serves the metrics in reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// ObserveFrame counts one tick with the given outcome label and duration.
func (m *Metrics) ObserveFrame(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Frames.WithLabelValues(outcome).Inc()
	m.TickDuration.Observe(d.Seconds())
}

// DeviceCreated records a device creation and its feature level.
func (m *Metrics) DeviceCreated(major, minor int) {
	if m == nil {
		return
	}
	m.DeviceCreations.Inc()
	m.FeatureLevelGauge.Set(float64(major*10 + minor))
}

// SurfaceCreated records a surface creation and the output size.
func (m *Metrics) SurfaceCreated(width, height int) {
	if m == nil {
		return
	}
	m.SurfaceCreations.Inc()
	m.OutputWidth.Set(float64(width))
	m.OutputHeight.Set(float64(height))
}

// DeviceRecovered records a completed device-loss recovery.
func (m *Metrics) DeviceRecovered() {
	if m == nil {
		return
	}
	m.DeviceRecoveries.Inc()
}

// Fatal records a fatal error at stage.
func (m *Metrics) Fatal(stage string) {
	if m == nil {
		return
	}
	m.FatalErrors.WithLabelValues(stage).Inc()
}
