package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts accessor outcomes per key family.
type Metrics struct {
	Hits          *prometheus.CounterVec
	Misses        *prometheus.CounterVec
	StoreErrors   *prometheus.CounterVec
	Invalidations prometheus.Counter
}

// NewMetrics registers the cache metrics with reg. A nil registerer leaves
// them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Hits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peoplehub_cache_hits_total",
			Help: "Cache reads served from the store",
		}, []string{"family"}),
		Misses: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peoplehub_cache_misses_total",
			Help: "Cache reads that fell through to the loader",
		}, []string{"family"}),
		StoreErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "peoplehub_cache_store_errors_total",
			Help: "Cache store failures by operation",
		}, []string{"op"}),
		Invalidations: factory.NewCounter(prometheus.CounterOpts{
			Name: "peoplehub_cache_invalidated_keys_total",
			Help: "Keys deleted by invalidation",
		}),
	}
}
