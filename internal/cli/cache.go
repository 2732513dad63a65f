package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/spiralstair/pkg/cache"
	"github.com/matzehuels/spiralstair/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached plans and drawings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			w := cmd.OutOrStdout()

			ch, err := c.newCache(ctx, false)
			if err != nil {
				return err
			}
			defer ch.Close()

			var n int
			switch cc := ch.(type) {
			case *cache.FileCache:
				sweep := cc.Clear
				if expired {
					sweep = cc.Prune
				}
				if n, err = sweep(); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess(w, "Cleared %d cached entries", n)
				printDetail(w, "Directory: %s", cc.Dir())
			case *cache.RedisCache:
				if n, err = cc.Clear(ctx); err != nil {
					return fmt.Errorf("clear cache: %w", err)
				}
				printSuccess(w, "Cleared %d cached entries", n)
				printDetail(w, "Redis: %s", c.cfg.Cache.RedisAddr)
			default:
				printInfo(w, "Cache is disabled")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&expired, "expired", false, "only remove expired entries (file cache)")
	return cmd
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch c.cfg.Cache.Backend {
			case config.CacheRedis:
				fmt.Fprintf(w, "redis://%s/%d\n", c.cfg.Cache.RedisAddr, c.cfg.Cache.RedisDB)
			case config.CacheNone:
				fmt.Fprintln(w, "none")
			default:
				dir, err := c.cacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(w, dir)
			}
			return nil
		},
	}
}
