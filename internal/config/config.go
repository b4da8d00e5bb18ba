// Package config loads the Manager's on-disk configuration
// (plugify.yaml) and applies environment variable overrides, the same
// two-step the teacher's analytics.LoadEnvFile + godotenv pair uses to
// layer a dotenv file under process flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LanguageModule configures one out-of-process language module adapter
// the Manager should start alongside discovery.
type LanguageModule struct {
	Language string   `yaml:"language"`
	Command  string   `yaml:"command"`
	Args     []string `yaml:"args,omitempty"`
}

// Config is the Manager's full on-disk configuration.
type Config struct {
	BaseDir         string           `yaml:"base_dir"`
	DiscoveryPaths  []string         `yaml:"discovery_paths,omitempty"`
	UpdateInterval  time.Duration    `yaml:"update_interval,omitempty"`
	LanguageModules []LanguageModule `yaml:"language_modules,omitempty"`
	DisableMetrics  bool             `yaml:"disable_metrics,omitempty"`

	// PackageRegistryURL is the base URL a pkgmanager.Installer resolves
	// Packages against; empty disables package installation entirely.
	PackageRegistryURL string `yaml:"package_registry_url,omitempty"`
	// Packages names "category/bundle" specs to fetch and extract as
	// extra discovery roots before Initialize scans PluginsDir/ModulesDir.
	Packages []string `yaml:"packages,omitempty"`
}

// Default returns a Config with the teacher's conventional layout:
// plugins/modules discovered directly under BaseDir.
func Default() Config {
	return Config{
		BaseDir:        "./plugify",
		DiscoveryPaths: []string{"plugins", "modules"},
		UpdateInterval: 0,
	}
}

// Load reads a plugify.yaml at path (if it exists; a missing file is not
// an error, Default() is returned instead), then applies a sibling
// .env file and process environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// no file on disk: keep defaults
		case err != nil:
			return Config{}, fmt.Errorf("config: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %q: %w", path, err)
			}
		}
	}

	loadDotEnv(path)
	applyEnvOverrides(&cfg)

	return cfg, nil
}

func loadDotEnv(configPath string) {
	dir := "."
	if configPath != "" {
		dir = filepath.Dir(configPath)
	}
	_ = godotenv.Load(filepath.Join(dir, ".env"))
}

// applyEnvOverrides layers PLUGIFY_-prefixed environment variables over
// cfg, the same override points the teacher exposes through cobra flags
// plus a .env file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLUGIFY_BASE_DIR"); v != "" {
		cfg.BaseDir = v
	}
	if v := os.Getenv("PLUGIFY_UPDATE_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.UpdateInterval = d
		}
	}
	if v := os.Getenv("PLUGIFY_DISABLE_METRICS"); v == "1" || v == "true" {
		cfg.DisableMetrics = true
	}
}

// PluginsDir and ModulesDir are the conventional discovery
// subdirectories relative to BaseDir, per spec §6's discovery layout.
func (c Config) PluginsDir() string { return filepath.Join(c.BaseDir, "plugins") }
func (c Config) ModulesDir() string { return filepath.Join(c.BaseDir, "modules") }
func (c Config) ConfigsDir() string { return filepath.Join(c.BaseDir, "configs") }
func (c Config) DataDir() string    { return filepath.Join(c.BaseDir, "data") }
func (c Config) LogsDir() string    { return filepath.Join(c.BaseDir, "logs") }

// PackageCacheDir is where a pkgmanager.Installer extracts and caches
// downloaded package bundles.
func (c Config) PackageCacheDir() string { return filepath.Join(c.BaseDir, "cache") }
