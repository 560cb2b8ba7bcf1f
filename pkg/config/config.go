// Package config loads the application configuration from a TOML file.
//
// Every field has a working default, so a missing config file is not an
// error: the CLI and server run out of the box and the file only overrides
// what it names.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// DefaultFilename is the config file looked up in the working directory and
// under the user config dir.
const DefaultFilename = "symbolscape.toml"

// Config is the application configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Cache  CacheConfig  `toml:"cache"`
	Layout LayoutConfig `toml:"layout"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Addr string `toml:"addr"`

	// SessionLimit bounds the number of live interaction sessions.
	SessionLimit int `toml:"session_limit"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file cache directory; empty means a per-user default.
	Dir string `toml:"dir"`

	Redis RedisConfig `toml:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LayoutConfig sets pipeline defaults overridable per request.
type LayoutConfig struct {
	Orientation  string `toml:"orientation"`
	GroupingMode string `toml:"grouping_mode"`
	BundleEdges  bool   `toml:"bundle_edges"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of "debug", "info", "warn", "error".
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:         ":8080",
			SessionLimit: 256,
		},
		Cache: CacheConfig{
			Backend: "file",
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Layout: LayoutConfig{
			Orientation:  "horizontal",
			GroupingMode: "none",
			BundleEdges:  true,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads a TOML config file, layering it over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault loads the config file at path, falling back to the standard
// locations, and finally to the built-in defaults when no file exists.
func LoadOrDefault(path string) (Config, error) {
	if path != "" {
		return Load(path)
	}
	for _, candidate := range searchPaths() {
		if _, err := os.Stat(candidate); err == nil {
			return Load(candidate)
		}
	}
	return Default(), nil
}

func searchPaths() []string {
	paths := []string{DefaultFilename}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "symbolscape", DefaultFilename))
	}
	return paths
}

// CacheDir resolves the file cache directory, defaulting to a per-user
// cache path.
func (c CacheConfig) CacheDir() (string, error) {
	if c.Dir != "" {
		return c.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(dir, "symbolscape"), nil
}
