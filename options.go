package contactgo

import (
	"log/slog"

	"github.com/hupe1980/contactgo/codec"
	"github.com/hupe1980/contactgo/persistence"
	"github.com/hupe1980/contactgo/resource"
)

type options struct {
	codec            codec.Codec
	compression      persistence.CompressionType
	metricsCollector MetricsCollector
	logger           *Logger
	controller       *resource.Controller
	tileRows         int
	parallelism      int
}

// Option configures ContactMap behavior.
type Option func(*options)

// WithCodec configures the codec used for snapshot headers.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the compression applied to snapshot payloads.
func WithCompression(ct persistence.CompressionType) Option {
	return func(o *options) {
		o.compression = ct
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &contactgo.BasicMetricsCollector{}
//	cm, _ := contactgo.FromMolecules(a, b).Radius(6).Option(contactgo.WithMetricsCollector(metrics)).Build()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceController shares a resource controller across contact maps.
// The controller bounds concurrent distance-field tiles, accounts result
// matrix memory, and throttles snapshot IO.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithTileRows sets the number of residue rows per distance-field work unit.
func WithTileRows(rows int) Option {
	return func(o *options) {
		o.tileRows = rows
	}
}

// WithParallelism caps the number of concurrent distance-field tiles.
// Defaults to GOMAXPROCS.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            nil,
		compression:      persistence.CompressionNone,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
