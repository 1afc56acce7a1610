package diskio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// readerMetrics holds the reader's Prometheus collectors. A nil registerer
// leaves them unregistered but still functional.
type readerMetrics struct {
	readsSubmitted prometheus.Counter
	readsCompleted prometheus.Counter
	readFailures   prometheus.Counter
	submitFailures prometheus.Counter
	poolHits       prometheus.Counter
	poolMisses     prometheus.Counter
}

func newReaderMetrics(reg prometheus.Registerer, pool *resourcePool) *readerMetrics {
	factory := promauto.With(reg)

	m := &readerMetrics{
		readsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "diskio_reads_submitted_total",
			Help: "Async read submissions accepted",
		}),
		readsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "diskio_reads_completed_total",
			Help: "Read completions delivered with ok=true",
		}),
		readFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "diskio_read_failures_total",
			Help: "Read completions delivered with ok=false",
		}),
		submitFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "diskio_submit_failures_total",
			Help: "Submissions rejected before reaching the completion mechanism",
		}),
		poolHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "diskio_resource_pool_hits_total",
			Help: "Request resources served from the pool",
		}),
		poolMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "diskio_resource_pool_misses_total",
			Help: "Request resources allocated on pool miss",
		}),
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "diskio_resource_pool_size",
		Help: "Resources currently held by the pool",
	}, func() float64 {
		return float64(pool.size.Load())
	})

	return m
}
