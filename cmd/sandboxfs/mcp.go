package main

import (
	"github.com/marmos91/sandboxfs/pkg/config"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the managed directory as MCP tools over stdio",
		Long: `mcp speaks the Model Context Protocol on stdin/stdout so that an agent
can list, read, create, update and delete managed files. The HTTP adapter is
disabled and logs go to stderr unless logging.output names a file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(cfg *config.Config) {
				cfg.Adapters.MCP.Enabled = true
				cfg.Adapters.HTTP.Enabled = false
				if cfg.Logging.Output == "stdout" {
					cfg.Logging.Output = "stderr"
				}
				if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
					cfg.Store.Type = "filesystem"
					cfg.Store.Filesystem["path"] = dir
				}
			})
			if err != nil {
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringP("dir", "d", "", "Managed directory (default ./managed_files)")

	return cmd
}
