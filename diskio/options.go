package diskio

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	defaultMaxIOSize      = 1 << 20
	defaultReadRetries    = 2
	defaultWriteRetries   = 2
	defaultThreadPoolSize = 4
	defaultQueueDepth     = 4096
	defaultSectorSize     = 512
)

type options struct {
	maxIOSize      uint64
	readRetries    uint32
	writeRetries   uint32
	threadPoolSize int
	queueDepth     int
	logger         *slog.Logger
	registerer     prometheus.Registerer
}

// Option configures a Reader at Open time.
type Option func(*options)

// WithMaxIOSize caps the size of a single read. Default 1 MiB.
func WithMaxIOSize(size uint64) Option {
	return func(o *options) {
		if size > 0 {
			o.maxIOSize = size
		}
	}
}

// WithReadRetries records the read retry budget advertised to callers.
// The reader itself never retries; index layers apply their own policy.
// Default 2.
func WithReadRetries(retries uint32) Option {
	return func(o *options) {
		o.readRetries = retries
	}
}

// WithWriteRetries records the write retry budget advertised to callers.
// Default 2.
func WithWriteRetries(retries uint32) Option {
	return func(o *options) {
		o.writeRetries = retries
	}
}

// WithThreadPoolSize sets the number of completion workers. Default 4.
func WithThreadPoolSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.threadPoolSize = n
		}
	}
}

// WithQueueDepth sets the submission queue capacity. Submissions beyond it
// fail rather than block. Default 4096.
func WithQueueDepth(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueDepth = n
		}
	}
}

// WithLogger sets the logger. If nil is passed, slog.Default() is used.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.Default()
		}
		o.logger = l
	}
}

// WithMetricsRegisterer registers the reader's Prometheus collectors with
// reg. With a nil registerer the collectors still count but are not
// exported anywhere.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		maxIOSize:      defaultMaxIOSize,
		readRetries:    defaultReadRetries,
		writeRetries:   defaultWriteRetries,
		threadPoolSize: defaultThreadPoolSize,
		queueDepth:     defaultQueueDepth,
		logger:         slog.Default(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
