package store

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vango-dev/vstore/pkg/store"

// Observer receives container lifecycle and update events. Implementations
// must be safe for concurrent use.
type Observer interface {
	// ContainerCreated is called when a Provider mount or the fallback
	// creates a container.
	ContainerCreated(store string)

	// ContainerDisposed is called when a Provider unmounts.
	ContainerDisposed(store string)

	// Updated is called after each committed update.
	Updated(store string, keys []string, subscribers int, elapsed time.Duration)
}

type nopObserver struct{}

func (nopObserver) ContainerCreated(string)                      {}
func (nopObserver) ContainerDisposed(string)                     {}
func (nopObserver) Updated(string, []string, int, time.Duration) {}

// Option configures a Store or Container. Options never change what the
// store holds.
type Option func(*options)

type options struct {
	name     string
	logger   *slog.Logger
	observer Observer
	tracer   trace.Tracer
}

// WithName labels the store in logs, spans and metrics.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. Updates are logged at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver registers an Observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithTracer sets the tracer used for update spans. The global tracer
// provider is used otherwise.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{name: "store"}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	o.logger = o.logger.With("component", "store", "store", o.name)
	if o.observer == nil {
		o.observer = nopObserver{}
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	return o
}
