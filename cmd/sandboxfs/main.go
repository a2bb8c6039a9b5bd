// Command sandboxfs serves a single managed directory of text files over a
// JSON HTTP API and, optionally, as MCP tools over stdio.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "sandboxfs",
		Short:         "Sandboxed text file management over HTTP and MCP",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "Path to config file (default $XDG_CONFIG_HOME/sandboxfs/config.yaml)")

	root.AddCommand(
		newStartCmd(),
		newInitCmd(),
		newMCPCmd(),
		newVersionCmd(),
	)

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
