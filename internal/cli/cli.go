// Package cli implements the spiralstair command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/buildinfo"
	"github.com/matzehuels/spiralstair/pkg/cache"
	"github.com/matzehuels/spiralstair/pkg/config"
	"github.com/matzehuels/spiralstair/pkg/pipeline"
	"github.com/matzehuels/spiralstair/pkg/profile"
	"github.com/matzehuels/spiralstair/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "spiralstair"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// configPath is the --config flag; empty selects the default location.
	configPath string
	// cfg is loaded once per invocation by the root command.
	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	versionTemplate := buildinfo.Template()
	root := &cobra.Command{
		Use:   appName,
		Short: "Spiralstair lays out spiral staircases and checks them against building code",
		Long: `Spiralstair computes the riser count, tread angle and mid-landing position of a
spiral staircase from its pole diameter, height, outside diameter and total
rotation, then checks the result against a building-code profile.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(versionTemplate)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/spiralstair/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.designCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.profilesCommand())
	root.AddCommand(c.schemaCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.sessionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and environment into c.cfg.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "profile", cfg.Profile, "cache", cfg.Cache.Backend, "session", cfg.Session.Backend)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.KeyPrefix != "" {
		keyer = cache.NewScopedKeyer(cache.NewDefaultKeyer(), c.cfg.Cache.KeyPrefix)
	}
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

// newCache opens the configured cache backend. A file cache that cannot be
// created degrades to no cache.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, c.cfg.RedisConfig())
		if err != nil {
			return nil, fmt.Errorf("open redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// cacheDir returns the configured file cache directory or the per-user default.
func (c *CLI) cacheDir() (string, error) {
	if c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Session Factory
// =============================================================================

// closer is implemented by session backends holding a connection.
type closer interface {
	Close(ctx context.Context) error
}

// newSessionStore opens the configured pre-fill store. It returns nil for
// the "none" backend.
func (c *CLI) newSessionStore(ctx context.Context) (session.Store, error) {
	switch c.cfg.Session.Backend {
	case config.SessionNone:
		return nil, nil
	case config.SessionMemory:
		return session.NewMemoryStore(), nil
	case config.SessionMongo:
		s, err := session.NewMongoStore(ctx, c.cfg.MongoConfig())
		if err != nil {
			return nil, fmt.Errorf("open mongo session store: %w", err)
		}
		return s, nil
	}
	return session.NewFileStore(c.cfg.Session.Dir)
}

// closeSessionStore releases a backend connection, if any.
func closeSessionStore(ctx context.Context, s session.Store) {
	if cl, ok := s.(closer); ok {
		_ = cl.Close(ctx)
	}
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions builds runner options from config and command flags.
// Flags win over config.
func (c *CLI) pipelineOptions(profileRef, strategy string) (pipeline.Options, error) {
	lo, err := c.cfg.LayoutOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	if profileRef == "" {
		profileRef = c.cfg.Profile
	}
	p, err := profile.Resolve(profileRef)
	if err != nil {
		return pipeline.Options{}, err
	}
	return pipeline.Options{
		Profile:  &p,
		Strategy: strategy,
		Layout:   lo,
		Logger:   c.Logger,
	}, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
