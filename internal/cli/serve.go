package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/internal/server"
	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/config"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

// redisKeyPrefix namespaces layout keys in a shared redis.
const redisKeyPrefix = "flowlayout:"

// serveCommand creates the serve command that runs the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		redis   string
		noCache bool
		flags   optionFlags
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Stateless layouts are cached in redis when --redis (or server.redis_addr in
the config file) is set, otherwise in the local cache directory. Sessions
are kept in memory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.Flags().Changed("redis") {
				cfg.Server.RedisAddr = redis
			}
			return c.runServe(cmd.Context(), cfg, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&redis, "redis", "", "redis address or URL for the layout cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.register(cmd)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config, noCache bool) error {
	logger := loggerFromContext(ctx)

	store, err := serveCache(ctx, cfg.Server, noCache)
	if err != nil {
		return err
	}
	var keyer cache.Keyer
	if cfg.Server.RedisAddr != "" && !noCache {
		keyer = cache.NewScopedKeyer(nil, redisKeyPrefix)
	}
	runner := pipeline.NewRunner(store, keyer, logger)
	defer runner.Close()

	ttl, err := cfg.Server.TTL()
	if err != nil {
		return err
	}
	if ttl > 0 {
		runner.TTL = ttl
	}
	idle, err := cfg.Server.IdleTTL()
	if err != nil {
		return err
	}

	srv, err := server.New(server.Config{Options: cfg.Layout, Runner: runner, Logger: logger, SessionTTL: idle})
	if err != nil {
		return err
	}

	printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
	return srv.ListenAndServe(ctx, cfg.Server.Addr)
}

func serveCache(ctx context.Context, cfg config.Server, noCache bool) (cache.Cache, error) {
	switch {
	case noCache:
		return cache.NewNullCache(), nil
	case cfg.RedisAddr != "":
		rc, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return rc, nil
	default:
		return newCache(false)
	}
}
