package prerender

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup result label values.
const (
	lookupHit   = "hit"
	lookupMiss  = "miss"
	lookupError = "error"
)

// MetricsConfig configures prerender cache metrics collection.
type MetricsConfig struct {
	// Namespace for all metrics (default: "statica")
	Namespace string

	// Subsystem for all metrics (default: "prerender")
	Subsystem string

	// ConstLabels are applied to every metric.
	ConstLabels prometheus.Labels

	// Registry to register metrics with (default: prometheus.DefaultRegisterer)
	Registry prometheus.Registerer
}

// MetricsOption configures metrics collection.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets a custom prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Namespace: "statica",
		Subsystem: "prerender",
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the prerender cache's prometheus collectors. A nil *Metrics
// is valid and records nothing, so metrics stay opt-in.
type Metrics struct {
	lookups       *prometheus.CounterVec
	coalesced     prometheus.Counter
	artifactReads prometheus.Counter
	evictions     prometheus.Counter
	entries       prometheus.Gauge
}

// NewMetrics creates and registers prerender cache metrics. Each call
// registers fresh collectors, so use WithRegistry when building more than one
// instrumented cache in a process.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(config)
	}

	factory := promauto.With(config.Registry)

	return &Metrics{
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "cache_lookups_total",
				Help:        "Total prerender cache lookups by result.",
				ConstLabels: config.ConstLabels,
			},
			[]string{"result"},
		),
		coalesced: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "cache_coalesced_lookups_total",
				Help:        "Lookups served by a backing read shared with concurrent callers.",
				ConstLabels: config.ConstLabels,
			},
		),
		artifactReads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "artifact_reads_total",
				Help:        "Reads issued to the backing artifact store.",
				ConstLabels: config.ConstLabels,
			},
		),
		evictions: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "cache_evictions_total",
				Help:        "Entries evicted by capacity or TTL expiry.",
				ConstLabels: config.ConstLabels,
			},
		),
		entries: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace:   config.Namespace,
				Subsystem:   config.Subsystem,
				Name:        "cache_entries",
				Help:        "Current number of cached entries.",
				ConstLabels: config.ConstLabels,
			},
		),
	}
}

func (m *Metrics) recordLookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) recordCoalesced() {
	if m == nil {
		return
	}
	m.coalesced.Inc()
}

func (m *Metrics) recordArtifactRead() {
	if m == nil {
		return
	}
	m.artifactReads.Inc()
}

func (m *Metrics) recordEviction() {
	if m == nil {
		return
	}
	m.evictions.Inc()
}

func (m *Metrics) setEntries(n int) {
	if m == nil {
		return
	}
	m.entries.Set(float64(n))
}
