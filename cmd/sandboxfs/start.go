package main

import (
	"github.com/marmos91/sandboxfs/pkg/config"
	"github.com/spf13/cobra"
)

func newStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the HTTP file API",
		Long: `Start serves the managed directory over the JSON HTTP API (and over MCP
if adapters.mcp.enabled is set). Flags override the config file and the
SANDBOXFS_* environment.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, startOverrides(cmd))
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.IntP("port", "p", 0, "HTTP port (default 5001)")
	flags.StringP("dir", "d", "", "Managed directory (default ./managed_files)")
	flags.Bool("memory", false, "Keep files in memory instead of on disk")
	flags.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	flags.Bool("strict-extensions", false, "Reject creates and updates of non-text extensions")
	flags.Bool("metrics", false, "Expose Prometheus metrics on server.metrics.port")

	return cmd
}

// startOverrides applies only the flags the user actually set.
func startOverrides(cmd *cobra.Command) func(*config.Config) {
	return func(cfg *config.Config) {
		flags := cmd.Flags()
		if flags.Changed("port") {
			cfg.Adapters.HTTP.Port, _ = flags.GetInt("port")
		}
		if flags.Changed("dir") {
			dir, _ := flags.GetString("dir")
			cfg.Store.Type = "filesystem"
			cfg.Store.Filesystem["path"] = dir
		}
		if memory, _ := flags.GetBool("memory"); memory {
			cfg.Store.Type = "memory"
		}
		if flags.Changed("log-level") {
			cfg.Logging.Level, _ = flags.GetString("log-level")
		}
		if flags.Changed("strict-extensions") {
			cfg.Files.StrictExtensions, _ = flags.GetBool("strict-extensions")
		}
		if flags.Changed("metrics") {
			cfg.Server.Metrics.Enabled, _ = flags.GetBool("metrics")
		}
	}
}
