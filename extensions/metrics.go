package extensions

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	lazy "github.com/lazy-fn/lazy-go"
)

// MetricsConfig configures the Prometheus metrics extension.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lazy").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for compute duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics extension.
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

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "lazy",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// MetricsExtension exports attribute cache metrics: user-function
// invocations and durations, variable writes, slot expirations, and
// fingerprint cache hits, misses and evictions, labelled by schema and
// attribute.
type MetricsExtension struct {
	lazy.BaseExtension

	computes        *prometheus.CounterVec
	computeErrors   *prometheus.CounterVec
	computeDuration *prometheus.HistogramVec
	writes          *prometheus.CounterVec
	expirations     *prometheus.CounterVec
	cacheEvents     *prometheus.CounterVec
}

// NewMetricsExtension creates a metrics extension.
func NewMetricsExtension(opts ...MetricsOption) *MetricsExtension {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &MetricsExtension{
		BaseExtension: lazy.NewBaseExtension("metrics"),

		computes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "computes_total",
			Help:        "Total number of property user-function invocations",
			ConstLabels: config.ConstLabels,
		}, []string{"schema", "attr"}),

		computeErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compute_errors_total",
			Help:        "Total number of failed property computations",
			ConstLabels: config.ConstLabels,
		}, []string{"schema", "attr"}),

		computeDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "compute_duration_seconds",
			Help:        "Property computation duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"schema", "attr"}),

		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "writes_total",
			Help:        "Total number of effective variable writes",
			ConstLabels: config.ConstLabels,
		}, []string{"schema", "attr"}),

		expirations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "expirations_total",
			Help:        "Total number of property slot expirations",
			ConstLabels: config.ConstLabels,
		}, []string{"schema", "attr"}),

		cacheEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "cache_events_total",
			Help:        "Fingerprint cache hits, misses and evictions",
			ConstLabels: config.ConstLabels,
		}, []string{"schema", "attr", "kind"}),
	}
}

func (e *MetricsExtension) Wrap(next func() (any, error), op *lazy.Operation) (any, error) {
	switch op.Kind {
	case lazy.OpCompute:
		start := time.Now()
		result, err := next()
		e.computeDuration.WithLabelValues(op.Schema.Name(), op.Attr).Observe(time.Since(start).Seconds())
		e.computes.WithLabelValues(op.Schema.Name(), op.Attr).Inc()
		return result, err
	case lazy.OpWrite:
		result, err := next()
		if err == nil {
			e.writes.WithLabelValues(op.Schema.Name(), op.Attr).Inc()
		}
		return result, err
	default:
		return next()
	}
}

func (e *MetricsExtension) OnError(err error, op *lazy.Operation) {
	if op.Kind == lazy.OpCompute {
		e.computeErrors.WithLabelValues(op.Schema.Name(), op.Attr).Inc()
	}
}

func (e *MetricsExtension) OnExpire(op *lazy.Operation) {
	e.expirations.WithLabelValues(op.Schema.Name(), op.Attr).Inc()
}

func (e *MetricsExtension) OnCacheEvent(kind lazy.CacheEventKind, op *lazy.Operation) {
	e.cacheEvents.WithLabelValues(op.Schema.Name(), op.Attr, string(kind)).Inc()
}
