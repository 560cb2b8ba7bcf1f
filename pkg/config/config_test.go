package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Addr != ":8080" || cfg.Server.SessionLimit != 256 {
		t.Errorf("server defaults = %+v", cfg.Server)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.Redis.Addr != "localhost:6379" {
		t.Errorf("cache defaults = %+v", cfg.Cache)
	}
	if cfg.Layout.Orientation != "horizontal" || cfg.Layout.GroupingMode != "none" || !cfg.Layout.BundleEdges {
		t.Errorf("layout defaults = %+v", cfg.Layout)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log defaults = %+v", cfg.Log)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "symbolscape.toml")
	content := `
[server]
addr = ":9090"

[layout]
orientation = "vertical"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Named fields override.
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Layout.Orientation != "vertical" {
		t.Errorf("Orientation = %q", cfg.Layout.Orientation)
	}

	// Unnamed fields keep their defaults.
	if cfg.Server.SessionLimit != 256 {
		t.Errorf("SessionLimit = %d, want default", cfg.Server.SessionLimit)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Backend = %q, want default", cfg.Cache.Backend)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing file should error")
	}

	bad := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(bad, []byte("not [valid toml"), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("invalid TOML should error")
	}
}

func TestLoadOrDefault(t *testing.T) {
	// Explicit path wins.
	path := filepath.Join(t.TempDir(), "custom.toml")
	if err := os.WriteFile(path, []byte(`[log]`+"\n"+`level = "debug"`), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadOrDefault(path)
	if err != nil {
		t.Fatalf("LoadOrDefault error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Level = %q", cfg.Log.Level)
	}

	// Explicit but missing path is an error, not a silent default.
	if _, err := LoadOrDefault(filepath.Join(t.TempDir(), "gone.toml")); err == nil {
		t.Error("explicit missing path should error")
	}
}

func TestCacheDir(t *testing.T) {
	// Explicit dir wins.
	c := CacheConfig{Dir: "/tmp/custom-cache"}
	dir, err := c.CacheDir()
	if err != nil || dir != "/tmp/custom-cache" {
		t.Errorf("CacheDir = %q, %v", dir, err)
	}

	// Empty dir resolves under the user cache path.
	dir, err = CacheConfig{}.CacheDir()
	if err != nil {
		t.Fatalf("CacheDir error: %v", err)
	}
	if filepath.Base(dir) != "symbolscape" {
		t.Errorf("default cache dir = %q", dir)
	}
}
