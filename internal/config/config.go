// Package config holds the editor's persisted settings.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds redzone configuration.
type Config struct {
	Timeline TimelineConfig `toml:"timeline"`
	Remote   RemoteConfig   `toml:"remote"`
	Serve    ServeConfig    `toml:"serve"`
	Style    StyleConfig    `toml:"style"`
}

// TimelineConfig controls the vertical scale.
type TimelineConfig struct {
	// Start is the timeline epoch (YYYY-MM-DD). Events dated before it
	// clamp to the top.
	Start string `toml:"start"`

	// Zoom is the default pixels-per-day factor (0.5–5.0).
	Zoom float64 `toml:"zoom"`

	// Category is the tab shown on startup.
	Category string `toml:"category"`
}

// RemoteConfig points at the published document.
type RemoteConfig struct {
	// URL of the static JSON document fetched at startup. Empty disables
	// the remote and starts from the local cache.
	URL string `toml:"url"`
}

// ServeConfig controls the editor server.
type ServeConfig struct {
	Listen string `toml:"listen"`
}

// StyleConfig points at an optional render-style override file.
type StyleConfig struct {
	Path string `toml:"path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Timeline: TimelineConfig{
			Start:    "1990-01-01",
			Zoom:     1.0,
			Category: "technique",
		},
		Serve: ServeConfig{Listen: "127.0.0.1:8572"},
	}
}

// ConfigDir returns the redzone config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "redzone")
}

func configPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, falling back to defaults if it doesn't
// exist or doesn't parse.
func Load() *Config {
	cfg := Default()

	data, err := os.ReadFile(configPath())
	if err != nil {
		return cfg
	}

	_ = toml.Unmarshal(data, cfg)
	return cfg
}

// Save writes the config to disk.
func Save(cfg *Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(configPath()); err == nil {
		return nil // already exists
	}
	return Save(Default())
}
