package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/marmos91/sandboxfs/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "sandboxfs dev"), "unexpected output %q", out)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandboxfs.yaml")

	out, err := execute(t, "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	_, err = execute(t, "init", "--config", path)
	require.Error(t, err, "second init without --force should fail")

	_, err = execute(t, "init", "--config", path, "--force")
	require.NoError(t, err)
}

func TestStartOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, config.InitConfigToPath(path, false))

	cmd := newStartCmd()
	cmd.Flags().String("config", "", "")
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path,
		"--port", "7001",
		"--memory",
		"--strict-extensions",
		"--log-level", "debug",
	}))

	cfg, err := loadConfig(cmd, startOverrides(cmd))
	require.NoError(t, err)
	assert.Equal(t, 7001, cfg.Adapters.HTTP.Port)
	assert.Equal(t, "memory", cfg.Store.Type)
	assert.True(t, cfg.Files.StrictExtensions)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
	assert.False(t, cfg.Server.Metrics.Enabled, "unset flags must not override")
}

func TestStartOverrides_Dir(t *testing.T) {
	dir := t.TempDir()

	cmd := newStartCmd()
	cmd.Flags().String("config", filepath.Join(t.TempDir(), "missing.yaml"), "")
	require.NoError(t, cmd.ParseFlags([]string{"--dir", dir}))

	cfg, err := loadConfig(cmd, startOverrides(cmd))
	require.NoError(t, err)
	assert.Equal(t, "filesystem", cfg.Store.Type)
	assert.Equal(t, dir, cfg.Store.Filesystem["path"])
}

func TestLoadConfig_InvalidOverride(t *testing.T) {
	cmd := newStartCmd()
	cmd.Flags().String("config", filepath.Join(t.TempDir(), "missing.yaml"), "")

	_, err := loadConfig(cmd, func(cfg *config.Config) {
		cfg.Adapters.HTTP.Enabled = false
	})
	require.Error(t, err)
}
