package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/api"
	"github.com/matzehuels/spiralstair/pkg/observability"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// serveCommand creates the command that runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve layout, check and render over HTTP:

  GET  /healthz
  GET  /v1/profiles
  GET  /v1/profiles/{name}
  GET  /v1/schema/input
  POST /v1/layout
  POST /v1/check
  POST /v1/render/{format}

The cache backend (file, redis or none) and listen address come from the
config file and environment; --addr overrides the address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(cmd *cobra.Command, opts *serveOpts) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := loggerFromContext(ctx)

	defaults, err := c.pipelineOptions("", "")
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	observability.NewLogHooks(logger).Register()
	defer observability.Reset()

	addr := opts.addr
	if addr == "" {
		addr = c.cfg.Server.Addr
	}
	srv := api.New(runner, defaults, logger)
	logger.Debug("api defaults", "profile", defaults.Profile.Name, "strategy", defaults.Layout.Strategy, "cache", c.cfg.Cache.Backend)
	err = srv.ListenAndServe(ctx, addr, c.cfg.Server.ReadTimeout, c.cfg.Server.WriteTimeout)
	if err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
