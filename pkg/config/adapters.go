package config

import (
	"fmt"

	"github.com/marmos91/sandboxfs/pkg/adapter"
	"github.com/marmos91/sandboxfs/pkg/adapter/mcp"
	"github.com/marmos91/sandboxfs/pkg/adapter/rest"
	"github.com/marmos91/sandboxfs/pkg/metrics"
)

// CreateAdapters creates all enabled protocol adapters from the configuration.
//
// Parameters:
//   - cfg: The complete SandboxFS configuration
//   - httpMetrics: Optional HTTP metrics collector (nil = no metrics)
//   - version: Build version reported in API docs and MCP server info
//
// Returns:
//   - []adapter.Adapter: List of enabled adapters ready to be added to the server
//   - error: Any error during adapter creation
func CreateAdapters(cfg *Config, httpMetrics metrics.HTTPMetrics, version string) ([]adapter.Adapter, error) {
	var adapters []adapter.Adapter

	if cfg.Adapters.HTTP.Enabled {
		adapters = append(adapters, rest.New(cfg.Adapters.HTTP, httpMetrics, version))
	}

	if cfg.Adapters.MCP.Enabled {
		adapters = append(adapters, mcp.New(cfg.Adapters.MCP, version))
	}

	if len(adapters) == 0 {
		return nil, fmt.Errorf("no adapters enabled in configuration")
	}

	return adapters, nil
}
