package cli

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/stackplot/internal/server"
	"github.com/matzehuels/stackplot/pkg/cache"
	"github.com/matzehuels/stackplot/pkg/observability"
	"github.com/matzehuels/stackplot/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr          string
	redisAddr     string
	redisPassword string
	redisDB       int
	noCache       bool
	maxBody       int64
	timeout       time.Duration
}

// serveCommand creates the serve command, which runs the HTTP render
// service until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    server.DefaultAddr,
		maxBody: server.DefaultMaxBody,
		timeout: server.DefaultRenderTimeout,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

Rendered artifacts are cached on disk, or in Redis when --redis is given,
so several instances can share one cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", "", "Redis address (host:port) for a shared cache")
	cmd.Flags().StringVar(&opts.redisPassword, "redis-password", "", "Redis password")
	cmd.Flags().IntVar(&opts.redisDB, "redis-db", 0, "Redis database number")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().Int64Var(&opts.maxBody, "max-body", opts.maxBody, "maximum request body in bytes")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "per-request render timeout")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)

	store, kind, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, cache.NewScopedKeyer(nil, "api:"), logger)
	defer runner.Close()

	hooks := observability.LogHooks{Logger: logger}
	observability.SetRenderHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	srv := server.New(server.Config{
		Addr:          opts.addr,
		Runner:        runner,
		Logger:        logger,
		MaxBody:       opts.maxBody,
		RenderTimeout: opts.timeout,
	})
	printInfo("Serving the render API")
	printKeyValue("address", opts.addr)
	printKeyValue("cache", kind)
	printNextStep("Render a description", "curl --data-binary @diagram.toml "+localURL(opts.addr)+"/render")
	return srv.ListenAndServe(ctx)
}

// serveCache picks Redis when configured and the file cache otherwise. It
// also returns a short description of the choice.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, string, error) {
	if opts.noCache {
		store, err := c.newCache(true)
		return store, "disabled", err
	}
	if opts.redisAddr == "" {
		store, err := c.newCache(false)
		if fc, ok := store.(*cache.FileCache); ok {
			return store, fc.Dir(), err
		}
		return store, "disabled", err
	}
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     opts.redisAddr,
		Password: opts.redisPassword,
		DB:       opts.redisDB,
		Prefix:   appName + ":",
	})
	if err != nil {
		return nil, "", err
	}
	return rc, fmt.Sprintf("redis://%s/%d", opts.redisAddr, opts.redisDB), nil
}

// localURL returns the loopback URL of a listen address.
func localURL(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	return "http://localhost:" + port
}
