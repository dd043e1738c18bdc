package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"akao-hq/akao/pkg/config"
)

// CacheMetrics tracks the component loader cache.
//
// Metrics:
//   - akao_cache_hits_total: cache hits by cache name
//   - akao_cache_misses_total: cache misses by cache name
//   - akao_cache_entries: current entries by cache name
//   - akao_cache_hot_reloads_total: hot reloads by cache name
//   - akao_cache_evictions_total: TTL evictions by cache name
type CacheMetrics struct {
	hitsTotal       *prometheus.CounterVec
	missesTotal     *prometheus.CounterVec
	entries         *prometheus.GaugeVec
	hotReloadsTotal *prometheus.CounterVec
	evictionsTotal  *prometheus.CounterVec
}

// NewCacheMetrics creates and registers cache metrics with the provided
// registry.
func NewCacheMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits",
			},
			[]string{"cache"},
		),

		missesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses",
			},
			[]string{"cache"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Current number of entries in cache",
			},
			[]string{"cache"},
		),

		hotReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_hot_reloads_total",
				Help:      "Total number of hot reloads after source changes",
			},
			[]string{"cache"},
		),

		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_evictions_total",
				Help:      "Total number of TTL cache evictions",
			},
			[]string{"cache"},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.entries,
		cm.hotReloadsTotal,
		cm.evictionsTotal,
	)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit(cacheName string) {
	cm.hitsTotal.WithLabelValues(cacheName).Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss(cacheName string) {
	cm.missesTotal.WithLabelValues(cacheName).Inc()
}

// UpdateSize updates the current size of a cache.
func (cm *CacheMetrics) UpdateSize(cacheName string, size int) {
	cm.entries.WithLabelValues(cacheName).Set(float64(size))
}

// RecordHotReload records a hot reload triggered by a source change.
func (cm *CacheMetrics) RecordHotReload(cacheName string) {
	cm.hotReloadsTotal.WithLabelValues(cacheName).Inc()
}

// RecordEviction records a TTL eviction.
func (cm *CacheMetrics) RecordEviction(cacheName string) {
	cm.evictionsTotal.WithLabelValues(cacheName).Inc()
}
