package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/factlens/origintrace/pkg/api"
	"github.com/factlens/origintrace/pkg/cache"
	"github.com/factlens/origintrace/pkg/config"
	"github.com/factlens/origintrace/pkg/metrics"
	"github.com/factlens/origintrace/pkg/pipeline"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		addr       string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the origin-trace HTTP API",
		Long: `Run the origin-trace HTTP API.

The server exposes the pipeline over REST: POST /v1/trace derives a claim
graph, POST /v1/layout returns a positioned diagram plus rendered artifacts.
Prometheus metrics are exposed on GET /metrics.

Configuration comes from a TOML file (see pkg/config for the format);
without one the built-in defaults apply. The server runs until interrupted
and drains in-flight requests before exiting.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), configPath, addr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to TOML config file")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")

	return cmd
}

// runServe wires cache, metrics, and pipeline behind the HTTP server and
// blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, configPath, addr string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	store, err := serveCache(ctx, cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	reg := metrics.NewRegistry()
	metrics.Register(reg)

	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	srv := api.NewServer(runner, api.Options{
		Logger:  c.Logger,
		Metrics: reg.Handler(),
		Layout:  cfg.Layout,
	})

	c.Logger.Infof("Serving on %s (cache: %s)", cfg.Server.Addr, cfg.Cache.Backend)
	return srv.Serve(ctx, api.ServeConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout.Duration,
		WriteTimeout:    cfg.Server.WriteTimeout.Duration,
		ShutdownTimeout: cfg.Server.ShutdownTimeout.Duration,
	})
}

// serveCache builds the cache backend the config names. The file backend
// falls back to the XDG cache directory when no dir is configured.
func serveCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.BackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}
