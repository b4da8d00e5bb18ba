package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default().BaseDir, cfg.BaseDir)
}

func TestLoad_ParsesYAMLAndAppliesEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plugify.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_dir: /srv/plugify\ndiscovery_paths: [plugins]\n"), 0o644))

	t.Setenv("PLUGIFY_BASE_DIR", "/override/plugify")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/override/plugify", cfg.BaseDir)
	require.Equal(t, []string{"plugins"}, cfg.DiscoveryPaths)
}

func TestConfig_DerivedDirectories(t *testing.T) {
	cfg := Config{BaseDir: "/srv/plugify"}
	require.Equal(t, "/srv/plugify/plugins", cfg.PluginsDir())
	require.Equal(t, "/srv/plugify/modules", cfg.ModulesDir())
	require.Equal(t, "/srv/plugify/logs", cfg.LogsDir())
}
