package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/factlens/origintrace/pkg/errors"
	"github.com/factlens/origintrace/pkg/layout"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "origintrace.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}
	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Backend = %q, want %q", cfg.Cache.Backend, BackendFile)
	}
	if cfg.Layout != layout.DefaultConfig() {
		t.Errorf("Layout = %+v, want defaults", cfg.Layout)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v, want nil", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want Default()", cfg)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
addr = ":9090"
write_timeout = "2m"

[cache]
backend = "redis"

[cache.redis]
addr = "redis:6379"
db = 3

[layout]
frame_width = 3840.0
passes = 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q, want :9090", cfg.Server.Addr)
	}
	if cfg.Server.WriteTimeout.Duration != 2*time.Minute {
		t.Errorf("WriteTimeout = %v, want 2m", cfg.Server.WriteTimeout.Duration)
	}
	if cfg.Server.ReadTimeout.Duration != DefaultReadTimeout {
		t.Errorf("ReadTimeout = %v, want default %v", cfg.Server.ReadTimeout.Duration, DefaultReadTimeout)
	}

	if cfg.Cache.Backend != BackendRedis {
		t.Errorf("Backend = %q, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.Redis.Addr != "redis:6379" {
		t.Errorf("Redis.Addr = %q, want redis:6379", cfg.Cache.Redis.Addr)
	}
	if cfg.Cache.Redis.DB != 3 {
		t.Errorf("Redis.DB = %d, want 3", cfg.Cache.Redis.DB)
	}

	if cfg.Layout.FrameWidth != 3840 {
		t.Errorf("FrameWidth = %v, want 3840", cfg.Layout.FrameWidth)
	}
	if cfg.Layout.Passes != 8 {
		t.Errorf("Passes = %d, want 8", cfg.Layout.Passes)
	}
	if cfg.Layout.FrameHeight != layout.DefaultFrameHeight {
		t.Errorf("FrameHeight = %v, want default %v", cfg.Layout.FrameHeight, layout.DefaultFrameHeight)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[server\naddr = :::")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want parse error")
	}
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidConfig)
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, `
[server]
read_timeout = "soon"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() error = nil, want duration error")
	}
	if !errs.Is(err, errs.ErrCodeInvalidConfig) {
		t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidConfig)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"none backend", func(c *Config) { c.Cache.Backend = BackendNone }, false},
		{"zero layout fields", func(c *Config) { c.Layout = layout.Config{} }, false},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, true},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeout.Duration = -time.Second }, true},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }, true},
		{"redis without addr", func(c *Config) {
			c.Cache.Backend = BackendRedis
			c.Cache.Redis.Addr = ""
		}, true},
		{"negative frame", func(c *Config) { c.Layout.FrameWidth = -1 }, true},
		{"negative passes", func(c *Config) { c.Layout.Passes = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errs.Is(err, errs.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", errs.GetCode(err), errs.ErrCodeInvalidConfig)
			}
		})
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText(90s) error = %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 90s", d.Duration)
	}

	text, err := d.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText() error = %v", err)
	}
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q, want 1m30s", text)
	}

	if err := d.UnmarshalText([]byte("soon")); err == nil {
		t.Error("UnmarshalText(soon) error = nil, want parse error")
	}
}
