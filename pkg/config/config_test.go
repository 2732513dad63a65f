package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	o, err := cfg.LayoutOptions()
	if err != nil {
		t.Fatal(err)
	}
	if o != layout.DefaultOptions() {
		t.Errorf("LayoutOptions = %+v, want defaults", o)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
profile = "commercial"

[layout]
strategy = "top-clearance"
head_clearance = 9.0

[cache]
backend = "none"

[session]
backend = "memory"
ttl = "48h"

[server]
addr = ":9090"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Profile != "commercial" {
		t.Errorf("Profile = %q", cfg.Profile)
	}
	if cfg.Session.TTL != 48*time.Hour {
		t.Errorf("TTL = %v, want 48h", cfg.Session.TTL)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	o, err := cfg.LayoutOptions()
	if err != nil {
		t.Fatal(err)
	}
	if o.Strategy != layout.StrategyTopClearance || o.HeadClearance != 9.0 {
		t.Errorf("layout = %+v", o)
	}
	// Unset keys keep their defaults.
	if o.TreadThickness != layout.DefaultTreadThickness {
		t.Errorf("TreadThickness = %v, want default", o.TreadThickness)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `profile = `},
		{"unknown key", `colour = "red"`},
		{"cache backend", "[cache]\nbackend = \"memcached\""},
		{"session backend", "[session]\nbackend = \"sqlite\""},
		{"mongo without uri", "[session]\nbackend = \"mongo\""},
		{"strategy", "[layout]\nstrategy = \"sideways\""},
		{"negative thickness", "[layout]\ntread_thickness = -1.0"},
		{"full turn top landing", "[layout]\ntop_landing_sweep_deg = 360.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.toml)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := Load(""); err != nil {
		t.Errorf("Load(\"\") with no default file = %v", err)
	}
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("profile = \"commercial\"\n[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("SPIRALSTAIR_PROFILE", "residential")
	t.Setenv("SPIRALSTAIR_RISER_STRATEGY", "top-clearance")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("SPIRALSTAIR_SESSION_TTL", "1h")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Profile != "residential" {
		t.Errorf("Profile = %q, env should win", cfg.Profile)
	}
	if cfg.Layout.Strategy != "top-clearance" {
		t.Errorf("Strategy = %q", cfg.Layout.Strategy)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q, file value should survive", cfg.Cache.Backend)
	}
	if got := cfg.RedisConfig().Addr; got != "redis.internal:6380" {
		t.Errorf("RedisConfig().Addr = %q", got)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("TTL = %v", cfg.Session.TTL)
	}
}

func TestLoadEnvInvalid(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("SPIRALSTAIR_CACHE", "memcached")
	if _, err := Load(""); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestMongoConfig(t *testing.T) {
	cfg := Default()
	cfg.Session.MongoURI = "mongodb://db:27017"
	cfg.Session.MongoDatabase = "stairs"
	m := cfg.MongoConfig()
	if m.URI != "mongodb://db:27017" || m.Database != "stairs" {
		t.Errorf("MongoConfig = %+v", m)
	}
}
