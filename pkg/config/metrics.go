package config

import (
	"github.com/marmos91/sandboxfs/pkg/metrics"
	promMetrics "github.com/marmos91/sandboxfs/pkg/metrics/prometheus"
)

// MetricsResult contains all metrics-related components created from configuration.
type MetricsResult struct {
	// Server is the HTTP server exposing Prometheus metrics (nil if disabled)
	Server *metrics.Server

	// HTTPMetrics is the collector for the HTTP adapter (never nil, noop if disabled)
	HTTPMetrics metrics.HTTPMetrics

	// StoreMetrics is the collector for the file store (never nil, noop if disabled)
	StoreMetrics metrics.StoreMetrics
}

// InitializeMetrics creates and initializes all metrics components based on configuration.
//
// If metrics are enabled in the configuration:
//   - Initializes the global Prometheus registry
//   - Creates the metrics HTTP server
//   - Creates Prometheus-backed metrics instances for all components
//
// If metrics are disabled:
//   - Returns nil server
//   - Returns no-op metrics implementations (zero overhead)
func InitializeMetrics(cfg *Config) *MetricsResult {
	if !cfg.Server.Metrics.Enabled {
		return &MetricsResult{
			HTTPMetrics:  metrics.NewNoopHTTPMetrics(),
			StoreMetrics: metrics.NewNoopStoreMetrics(),
		}
	}

	metrics.InitRegistry()

	server := metrics.NewServer(metrics.ServerConfig{
		Port: cfg.Server.Metrics.Port,
	})

	return &MetricsResult{
		Server:       server,
		HTTPMetrics:  promMetrics.NewHTTPMetrics(),
		StoreMetrics: promMetrics.NewStoreMetrics(),
	}
}
