package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/javelin/pkg/cache"
	"github.com/matzehuels/javelin/pkg/config"
	"github.com/matzehuels/javelin/pkg/gateway"
	"github.com/matzehuels/javelin/pkg/integrations/gitlab"
	"github.com/matzehuels/javelin/pkg/integrations/nexus"
)

// serveCommand creates the "serve" command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		backend  string
		cacheTTL time.Duration
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the gateway in front of Nexus and GitLab",
		Long: `Run the gateway in front of Nexus and GitLab.

The gateway serves the /api/nexus and /api/gitlab endpoints the other
commands use. Upstream responses are cached in the backend chosen by
--cache (none, file or redis).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				printFailure(err)
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("addr") {
				cfg.Server.Addr = addr
			}
			if flags.Changed("cache") {
				cfg.Server.Cache = backend
			}
			if flags.Changed("cache-ttl") {
				cfg.Server.CacheTTL = cacheTTL
			}
			if err := cfg.ValidateServer(); err != nil {
				printFailure(err)
				return err
			}

			err = c.runServe(cmd.Context(), cfg)
			if stderrors.Is(err, context.Canceled) {
				c.Logger.Info("gateway stopped")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().StringVar(&backend, "cache", "", "cache backend: none, file or redis (overrides server.cache)")
	cmd.Flags().DurationVar(&cacheTTL, "cache-ttl", 0, "upstream response cache TTL (overrides server.cache_ttl)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	store, err := c.openCache(ctx, cfg.Server)
	if err != nil {
		return err
	}
	defer store.Close()

	nx := nexus.NewClient(store, cfg.Nexus.ClientConfig(), cfg.Server.CacheTTL)
	nx.WithKeyer(upstreamKeyer(cfg.Nexus.URL))
	gl := gitlab.NewClient(store, cfg.GitLab.ClientConfig(), cfg.Server.CacheTTL)
	gl.WithKeyer(upstreamKeyer(cfg.GitLab.URL))

	printKeyValue("Nexus", cfg.Nexus.URL)
	printKeyValue("GitLab", cfg.GitLab.URL)
	printKeyValue("Repositories", strings.Join(cfg.Nexus.Repositories(), ", "))
	printKeyValue("Cache", fmt.Sprintf("%s (ttl %s)", cfg.Server.Cache, cfg.Server.CacheTTL))

	srv := gateway.New(nx, gl, gateway.Options{
		SearchRepositories: cfg.Nexus.Repositories(),
		Logger:             c.Logger,
	})
	return srv.Serve(ctx, cfg.Server.Addr)
}

// upstreamKeyer scopes cache keys by upstream host, so gateways for
// different instances can share one Redis.
func upstreamKeyer(rawURL string) cache.Keyer {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), u.Host+":")
}
