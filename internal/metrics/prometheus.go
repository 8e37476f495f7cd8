package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors exposed by a validation run.
type Metrics struct {
	// System metrics.
	SystemInfo *prometheus.GaugeVec
	UpTime     prometheus.Gauge

	// Pattern universe metrics.
	UniversePatternsGenerated *prometheus.GaugeVec
	UniverseDedupDropped      *prometheus.CounterVec
	UniverseGenerationSeconds *prometheus.HistogramVec

	// Bootstrap metrics.
	BootstrapReplicateSeconds prometheus.Histogram
	BootstrapIntervalWidth    *prometheus.GaugeVec

	// Multiple-testing correction metrics.
	CorrectionSurvivors   *prometheus.GaugeVec
	PermutationRunSeconds *prometheus.HistogramVec

	// Analysis database metrics.
	AnalysisDBConsistencyWarnings prometheus.Counter
	AnalysisDBPatternCount        prometheus.Gauge

	registry *prometheus.Registry
}

// New creates a new metrics instance with a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,

		SystemInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "palvalidator_system_info",
				Help: "Build information for the running validator",
			},
			[]string{"version", "go_version"},
		),
		UpTime: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "palvalidator_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),

		UniversePatternsGenerated: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pal_universe_patterns_generated",
				Help: "Number of pattern templates produced by the most recent universe generation run",
			},
			[]string{"search_mode"},
		),
		UniverseDedupDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pal_universe_dedup_dropped_total",
				Help: "Total number of candidate templates dropped as canonical-hash duplicates",
			},
			[]string{"search_mode"},
		),
		UniverseGenerationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pal_universe_generation_seconds",
				Help:    "Wall-clock time spent generating a pattern universe",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 15),
			},
			[]string{"search_mode"},
		),

		BootstrapReplicateSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pal_bootstrap_replicate_seconds",
				Help:    "Time spent computing a single bootstrap replicate statistic",
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
			},
		),
		BootstrapIntervalWidth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pal_bootstrap_interval_width",
				Help: "Width of the most recent BCa confidence interval",
			},
			[]string{"strategy"},
		),

		CorrectionSurvivors: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "pal_correction_survivors",
				Help: "Number of strategies surviving multiple-testing correction",
			},
			[]string{"search_mode", "method"},
		),
		PermutationRunSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pal_permutation_run_seconds",
				Help:    "Wall-clock time spent running a full Masters Monte Carlo validation pass",
				Buckets: []float64{1, 5, 10, 30, 60, 300, 600, 1800, 3600},
			},
			[]string{"search_mode"},
		),

		AnalysisDBConsistencyWarnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "pal_analysisdb_consistency_warnings_total",
				Help: "Total number of consistency warnings raised while reopening or appending to the analysis database",
			},
		),
		AnalysisDBPatternCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "pal_analysisdb_pattern_count",
				Help: "Number of patterns currently tracked in the analysis database",
			},
		),
	}

	registry.MustRegister(
		m.SystemInfo,
		m.UpTime,
		m.UniversePatternsGenerated,
		m.UniverseDedupDropped,
		m.UniverseGenerationSeconds,
		m.BootstrapReplicateSeconds,
		m.BootstrapIntervalWidth,
		m.CorrectionSurvivors,
		m.PermutationRunSeconds,
		m.AnalysisDBConsistencyWarnings,
		m.AnalysisDBPatternCount,
	)

	m.SystemInfo.WithLabelValues("0.1.0", "1.22").Set(1)
	m.UpTime.SetToCurrentTime()

	return m
}

// GetRegistry returns the Prometheus registry backing these metrics.
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.registry
}

// Start serves the metrics registry over HTTP until ctx is cancelled.
func (m *Metrics) Start(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))

	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		server.Shutdown(ctx)
	}()

	return server.ListenAndServe()
}

func (m *Metrics) RecordUniverseGenerated(searchMode string, count int) {
	m.UniversePatternsGenerated.WithLabelValues(searchMode).Set(float64(count))
}

func (m *Metrics) RecordUniverseDedupDropped(searchMode string, dropped int) {
	m.UniverseDedupDropped.WithLabelValues(searchMode).Add(float64(dropped))
}

func (m *Metrics) RecordUniverseGenerationDuration(searchMode string, d time.Duration) {
	m.UniverseGenerationSeconds.WithLabelValues(searchMode).Observe(d.Seconds())
}

func (m *Metrics) RecordBootstrapReplicateDuration(d time.Duration) {
	m.BootstrapReplicateSeconds.Observe(d.Seconds())
}

func (m *Metrics) RecordBootstrapIntervalWidth(strategy string, width float64) {
	m.BootstrapIntervalWidth.WithLabelValues(strategy).Set(width)
}

func (m *Metrics) RecordCorrectionSurvivors(searchMode, method string, survivors int) {
	m.CorrectionSurvivors.WithLabelValues(searchMode, method).Set(float64(survivors))
}

func (m *Metrics) RecordPermutationRunDuration(searchMode string, d time.Duration) {
	m.PermutationRunSeconds.WithLabelValues(searchMode).Observe(d.Seconds())
}

func (m *Metrics) RecordConsistencyWarning() {
	m.AnalysisDBConsistencyWarnings.Inc()
}

func (m *Metrics) RecordAnalysisDBPatternCount(count int) {
	m.AnalysisDBPatternCount.Set(float64(count))
}
