// Package cli implements the javelin command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/javelin/pkg/backend"
	"github.com/matzehuels/javelin/pkg/buildinfo"
	"github.com/matzehuels/javelin/pkg/cache"
	"github.com/matzehuels/javelin/pkg/catalog"
	"github.com/matzehuels/javelin/pkg/config"
	"github.com/matzehuels/javelin/pkg/errors"
	"github.com/matzehuels/javelin/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "javelin"

	// redisKeyPrefix namespaces gateway cache entries in a shared Redis.
	redisKeyPrefix = "javelin:"
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

	configPath string
	baseURL    string

	cfg    config.Config
	loaded bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "javelin",
		Short:         "Javelin browses an artifact registry and source repositories",
		Long:          `Javelin searches a Nexus artifact registry for the latest version of every artifact, shows dependency snippets, and browses GitLab repositories from the terminal. "javelin serve" runs the gateway the other commands talk to.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			observability.SetHTTPHooks(newHTTPLogHooks(c.Logger))
			observability.SetCacheHooks(newCacheLogHooks(c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/javelin/javelin.toml)")
	root.PersistentFlags().StringVar(&c.baseURL, "base-url", "", "gateway URL (overrides client.base_url)")

	// Register all subcommands
	root.AddCommand(c.searchCommand())
	root.AddCommand(c.versionsCommand())
	root.AddCommand(c.depCommand())
	root.AddCommand(c.findCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration on first use and applies --base-url.
func (c *CLI) loadConfig() (config.Config, error) {
	if c.loaded {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.baseURL != "" {
		if err := errors.ValidateURL(c.baseURL); err != nil {
			return cfg, err
		}
		cfg.Client.BaseURL = c.baseURL
	}
	c.cfg, c.loaded = cfg, true
	c.Logger.Debug("configuration loaded", "base_url", cfg.Client.BaseURL)
	return cfg, nil
}

// =============================================================================
// Client Factory
// =============================================================================

// newBackend creates a gateway client for the configured base URL.
func (c *CLI) newBackend() (*backend.Client, config.Config, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, cfg, err
	}
	return backend.NewClient(cfg.Client.BaseURL), cfg, nil
}

// newCatalog creates a catalog client backed by the gateway.
func (c *CLI) newCatalog() (*catalog.Client, config.Config, error) {
	b, cfg, err := c.newBackend()
	if err != nil {
		return nil, cfg, err
	}
	return catalog.NewClient(b, c.Logger), cfg, nil
}

// openCache opens the gateway response cache selected by the server config.
func (c *CLI) openCache(ctx context.Context, sc config.ServerConfig) (cache.Cache, error) {
	switch sc.Cache {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   sc.RedisAddr,
			DB:     sc.RedisDB,
			Prefix: redisKeyPrefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	default:
		dir, err := fileCacheDir(sc)
		if err != nil {
			c.Logger.Warn("cache directory unavailable, caching disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/javelin/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// fileCacheDir returns server.cache_dir, or the XDG cache directory.
func fileCacheDir(sc config.ServerConfig) (string, error) {
	if dir := strings.TrimSpace(sc.CacheDir); dir != "" {
		return dir, nil
	}
	return cacheDir()
}
