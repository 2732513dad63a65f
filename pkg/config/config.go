// Package config loads spiralstair settings from a TOML file and the
// environment.
//
// Settings are resolved in three layers, later layers winning:
//
//  1. Built-in defaults ([Default])
//  2. The config file, $XDG_CONFIG_HOME/spiralstair/config.toml unless a
//     path is given
//  3. Environment variables (SPIRALSTAIR_PROFILE, REDIS_ADDR, MONGO_URI, ...)
//
// Example config.toml:
//
//	profile = "commercial"
//
//	[layout]
//	strategy = "top-clearance"
//	head_clearance = 9.0
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[session]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joeshaw/envdecode"

	"github.com/matzehuels/spiralstair/pkg/cache"
	"github.com/matzehuels/spiralstair/pkg/errors"
	"github.com/matzehuels/spiralstair/pkg/layout"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/session"
)

// Backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"

	SessionFile   = "file"
	SessionMongo  = "mongo"
	SessionMemory = "memory"
	SessionNone   = "none"
)

var (
	cacheBackends   = []string{CacheFile, CacheRedis, CacheNone}
	sessionBackends = []string{SessionFile, SessionMongo, SessionMemory, SessionNone}
)

// DefaultAddr is the API server's listen address.
const DefaultAddr = ":8080"

// Config holds every setting of the CLI and the API server.
type Config struct {
	// Profile is a builtin profile name or the path of a profile file.
	Profile string        `toml:"profile" env:"SPIRALSTAIR_PROFILE"`
	Layout  LayoutConfig  `toml:"layout"`
	Cache   CacheConfig   `toml:"cache"`
	Session SessionConfig `toml:"session"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig mirrors layout.Options.
type LayoutConfig struct {
	Strategy           string  `toml:"strategy" env:"SPIRALSTAIR_RISER_STRATEGY"`
	Tolerance          float64 `toml:"tolerance" env:"SPIRALSTAIR_TOLERANCE"`
	TreadThickness     float64 `toml:"tread_thickness" env:"SPIRALSTAIR_TREAD_THICKNESS"`
	LandingThickness   float64 `toml:"landing_thickness" env:"SPIRALSTAIR_LANDING_THICKNESS"`
	HeadClearance      float64 `toml:"head_clearance" env:"SPIRALSTAIR_HEAD_CLEARANCE"`
	TopLandingSweepDeg float64 `toml:"top_landing_sweep_deg" env:"SPIRALSTAIR_TOP_LANDING_SWEEP"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	Backend       string `toml:"backend" env:"SPIRALSTAIR_CACHE"`
	Dir           string `toml:"dir" env:"SPIRALSTAIR_CACHE_DIR"`
	RedisAddr     string `toml:"redis_addr" env:"REDIS_ADDR"`
	RedisPassword string `toml:"redis_password" env:"REDIS_PASSWORD"`
	RedisDB       int    `toml:"redis_db" env:"REDIS_DB"`
	KeyPrefix     string `toml:"key_prefix" env:"SPIRALSTAIR_CACHE_PREFIX"`
}

// SessionConfig selects and configures the pre-fill store.
type SessionConfig struct {
	Backend         string        `toml:"backend" env:"SPIRALSTAIR_SESSION"`
	Dir             string        `toml:"dir" env:"SPIRALSTAIR_SESSION_DIR"`
	TTL             time.Duration `toml:"ttl" env:"SPIRALSTAIR_SESSION_TTL"`
	MongoURI        string        `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase   string        `toml:"mongo_database" env:"MONGO_DATABASE"`
	MongoCollection string        `toml:"mongo_collection" env:"MONGO_COLLECTION"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Addr         string        `toml:"addr" env:"SPIRALSTAIR_ADDR"`
	ReadTimeout  time.Duration `toml:"read_timeout" env:"SPIRALSTAIR_READ_TIMEOUT"`
	WriteTimeout time.Duration `toml:"write_timeout" env:"SPIRALSTAIR_WRITE_TIMEOUT"`
}

// Default returns the built-in settings.
func Default() Config {
	o := layout.DefaultOptions()
	return Config{
		Profile: profile.DefaultName,
		Layout: LayoutConfig{
			Strategy:           string(o.Strategy),
			Tolerance:          o.Tolerance,
			TreadThickness:     o.TreadThickness,
			LandingThickness:   o.LandingThickness,
			HeadClearance:      o.HeadClearance,
			TopLandingSweepDeg: o.TopLandingSweepDeg,
		},
		Cache:   CacheConfig{Backend: CacheFile, RedisAddr: "localhost:6379"},
		Session: SessionConfig{Backend: SessionFile, TTL: session.DefaultTTL},
		Server: ServerConfig{
			Addr:         DefaultAddr,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/spiralstair/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "spiralstair", "config.toml"), nil
}

// Load reads the config file at path and applies environment overrides.
// An empty path reads the default location, where a missing file is not
// an error. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML on top of the defaults without reading the
// environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if err := undecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string, explicit bool) error {
	md, err := toml.DecodeFile(path, c)
	switch {
	case os.IsNotExist(err) && !explicit:
		return nil
	case os.IsNotExist(err):
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	case err != nil:
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return undecoded(md)
}

func undecoded(md toml.MetaData) error {
	if keys := md.Undecoded(); len(keys) > 0 {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(names, ", "))
	}
	return nil
}

// ApplyEnv overlays environment variables. Unset variables leave the
// current value untouched.
func (c *Config) ApplyEnv() error {
	if err := envdecode.Decode(c); err != nil && !stderrors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}
	return nil
}

// Validate rejects unknown backends and strategies and bad dimensions.
func (c Config) Validate() error {
	if !slices.Contains(cacheBackends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (use %s)", c.Cache.Backend, strings.Join(cacheBackends, ", "))
	}
	if !slices.Contains(sessionBackends, c.Session.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "unknown session backend %q (use %s)", c.Session.Backend, strings.Join(sessionBackends, ", "))
	}
	if c.Session.Backend == SessionMongo && c.Session.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "session backend mongo requires mongo_uri (or MONGO_URI)")
	}
	if c.Session.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "session ttl must not be negative")
	}
	if _, err := c.LayoutOptions(); err != nil {
		return err
	}
	for _, v := range []struct {
		name string
		val  float64
	}{
		{"tolerance", c.Layout.Tolerance},
		{"tread_thickness", c.Layout.TreadThickness},
		{"landing_thickness", c.Layout.LandingThickness},
		{"head_clearance", c.Layout.HeadClearance},
		{"top_landing_sweep_deg", c.Layout.TopLandingSweepDeg},
	} {
		if v.val < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.%s must not be negative", v.name)
		}
	}
	return nil
}

// LayoutOptions converts the layout section for the engine.
func (c Config) LayoutOptions() (layout.Options, error) {
	s, err := layout.ParseStrategy(c.Layout.Strategy)
	if err != nil {
		return layout.Options{}, err
	}
	o := layout.Options{
		Strategy:           s,
		Tolerance:          c.Layout.Tolerance,
		TreadThickness:     c.Layout.TreadThickness,
		LandingThickness:   c.Layout.LandingThickness,
		HeadClearance:      c.Layout.HeadClearance,
		TopLandingSweepDeg: c.Layout.TopLandingSweepDeg,
	}.WithDefaults()
	return o, o.Validate()
}

// RedisConfig returns the cache section as Redis settings.
func (c Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Addr:      c.Cache.RedisAddr,
		Password:  c.Cache.RedisPassword,
		DB:        c.Cache.RedisDB,
		KeyPrefix: c.Cache.KeyPrefix,
	}
}

// MongoConfig returns the session section as MongoDB settings.
func (c Config) MongoConfig() session.MongoConfig {
	return session.MongoConfig{
		URI:        c.Session.MongoURI,
		Database:   c.Session.MongoDatabase,
		Collection: c.Session.MongoCollection,
	}
}
