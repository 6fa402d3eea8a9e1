package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/vstore/pkg/store"
)

// Config configures a Collector.
type Config struct {
	// Namespace is the metrics namespace (default: "vstore").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for update duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// Option configures a Collector.
type Option func(*Config)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(c *Config) {
		if namespace != "" {
			c.Namespace = namespace
		}
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) Option {
	return func(c *Config) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(c *Config) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the update duration buckets.
func WithBuckets(buckets []float64) Option {
	return func(c *Config) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) Option {
	return func(c *Config) {
		c.Registry = registry
	}
}

func defaultConfig() Config {
	return Config{
		Namespace: "vstore",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Collector records metrics. It is safe for concurrent use.
type Collector struct {
	updatesTotal      *prometheus.CounterVec
	updateDuration    *prometheus.HistogramVec
	updateSubscribers *prometheus.HistogramVec
	containersActive  *prometheus.GaugeVec
	containersCreated *prometheus.CounterVec
	sessionsActive    prometheus.Gauge
	rendersTotal      prometheus.Counter
	wsErrors          *prometheus.CounterVec
}

var _ store.Observer = (*Collector)(nil)

// New registers the metrics with the configured registry. Registering
// twice on the same registry panics, as with promauto.
func New(opts ...Option) *Collector {
	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Collector{
		updatesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "updates_total",
			Help:        "Total number of store updates",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		updateDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_duration_seconds",
			Help:        "Time spent merging and broadcasting an update",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		updateSubscribers: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "update_subscribers",
			Help:        "Subscribers notified per update",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"store"}),

		containersActive: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "containers_active",
			Help:        "Number of mounted store containers",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		containersCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "containers_created_total",
			Help:        "Total number of store containers created",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),

		sessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_active",
			Help:        "Number of open dev server sessions",
			ConstLabels: config.ConstLabels,
		}),

		rendersTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of trees rendered by the dev server",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// ContainerCreated implements store.Observer.
func (c *Collector) ContainerCreated(name string) {
	c.containersCreated.WithLabelValues(name).Inc()
	c.containersActive.WithLabelValues(name).Inc()
}

// ContainerDisposed implements store.Observer.
func (c *Collector) ContainerDisposed(name string) {
	c.containersActive.WithLabelValues(name).Dec()
}

// Updated implements store.Observer.
func (c *Collector) Updated(name string, _ []string, subscribers int, elapsed time.Duration) {
	c.updatesTotal.WithLabelValues(name).Inc()
	c.updateDuration.WithLabelValues(name).Observe(elapsed.Seconds())
	c.updateSubscribers.WithLabelValues(name).Observe(float64(subscribers))
}

// RecordSessionOpen records a new dev server session.
func (c *Collector) RecordSessionOpen() {
	c.sessionsActive.Inc()
}

// RecordSessionClose records a closed dev server session.
func (c *Collector) RecordSessionClose() {
	c.sessionsActive.Dec()
}

// RecordRender records a rendered tree.
func (c *Collector) RecordRender() {
	c.rendersTotal.Inc()
}

// RecordWebSocketError records a WebSocket error. errorType should have low
// cardinality, e.g. "read", "write", "decode".
func (c *Collector) RecordWebSocketError(errorType string) {
	c.wsErrors.WithLabelValues(errorType).Inc()
}
