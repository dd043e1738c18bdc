package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"akao-hq/akao/pkg/config"
)

// Collector owns the Prometheus registry and the engine's metric
// families.
type Collector struct {
	registry *prometheus.Registry

	Validation *ValidationMetrics
	Cache      *CacheMetrics
}

// NewCollector creates a collector with all metric families registered.
// A nil registry gets a fresh one with the standard Go and process
// collectors.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return &Collector{
		registry:   registry,
		Validation: NewValidationMetrics(cfg, registry),
		Cache:      NewCacheMetrics(cfg, registry),
	}
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
