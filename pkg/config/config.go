// Package config loads javelin settings from a TOML file and JAVELIN_*
// environment variables.
//
// Values are resolved in order: built-in defaults, the config file,
// environment variables. Command-line flags are applied last by the CLI.
//
// A minimal file for running the gateway:
//
//	[nexus]
//	url = "https://nexus.example.com"
//	username = "reader"
//	password = "${NEXUS_PASSWORD}"
//
//	[gitlab]
//	url = "https://gitlab.example.com"
//	private_token = "${GITLAB_TOKEN}"
//	group_id = "platform"
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/javelin/pkg/errors"
	"github.com/matzehuels/javelin/pkg/integrations/gitlab"
	"github.com/matzehuels/javelin/pkg/integrations/nexus"
)

const (
	appName  = "javelin"
	fileName = "javelin.toml"
)

// Cache backends accepted by [ServerConfig.Cache].
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete javelin configuration.
type Config struct {
	Client ClientConfig `toml:"client"`
	Server ServerConfig `toml:"server"`
	Nexus  NexusConfig  `toml:"nexus"`
	GitLab GitLabConfig `toml:"gitlab"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	BaseURL  string        `toml:"base_url"` // gateway URL
	Debounce time.Duration `toml:"debounce"` // live search quiet period
}

// ServerConfig configures `javelin serve`.
type ServerConfig struct {
	Addr      string        `toml:"addr"`
	Cache     string        `toml:"cache"` // none, file or redis
	CacheTTL  time.Duration `toml:"cache_ttl"`
	CacheDir  string        `toml:"cache_dir"` // file cache location, defaults to the XDG cache dir
	RedisAddr string        `toml:"redis_addr"`
	RedisDB   int           `toml:"redis_db"`
}

// NexusConfig configures the artifact registry upstream.
type NexusConfig struct {
	URL                string `toml:"url"`
	Username           string `toml:"username"`
	Password           string `toml:"password"`
	ReleaseRepository  string `toml:"release_repository"`
	SnapshotRepository string `toml:"snapshot_repository"`
	MaxPages           int    `toml:"max_pages"`
}

// GitLabConfig configures the repository upstream.
type GitLabConfig struct {
	URL              string `toml:"url"`
	PrivateToken     string `toml:"private_token"`
	GroupID          string `toml:"group_id"`
	IncludeSubgroups *bool  `toml:"include_subgroups"`
	Archived         *bool  `toml:"archived"`
	PerPage          int    `toml:"per_page"`
	Ref              string `toml:"ref"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Client: ClientConfig{
			BaseURL:  "http://localhost:8080",
			Debounce: 300 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			Cache:    CacheFile,
			CacheTTL: time.Hour,
		},
		Nexus: NexusConfig{
			ReleaseRepository:  "maven-releases",
			SnapshotRepository: "maven-snapshots",
			MaxPages:           nexus.DefaultMaxPages,
		},
		GitLab: GitLabConfig{
			Ref: gitlab.DefaultRef,
		},
	}
}

// DefaultPath returns the config file location following the XDG standard
// (~/.config/javelin/javelin.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads the configuration. An empty path means [DefaultPath], which
// may be missing; an explicit path must exist. Secrets may reference
// environment variables as ${NAME}. JAVELIN_* variables override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config file")
		}
		path = p
	}

	if err := decodeFile(path, &cfg); err != nil {
		if !explicit && stderrors.Is(err, fs.ErrNotExist) {
			err = nil
		} else {
			return cfg, err
		}
	}

	cfg.Nexus.Password = expandEnv(cfg.Nexus.Password, os.Getenv)
	cfg.GitLab.PrivateToken = expandEnv(cfg.GitLab.PrivateToken, os.Getenv)

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return err
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file %s", path)
	}
	return Decode(string(data), cfg)
}

// Decode parses TOML into cfg, keeping fields the document does not set.
// Unknown keys are rejected so that typos do not go unnoticed.
func Decode(doc string, cfg *Config) error {
	md, err := toml.Decode(doc, cfg)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// expandEnv replaces ${NAME} references with their values. Unset variables
// expand to the empty string.
func expandEnv(raw string, getenv func(string) string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		return getenv(envVarPattern.FindStringSubmatch(match)[1])
	})
}

// ApplyEnv overrides fields from JAVELIN_* variables read through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(name)
		if !ok {
			return nil
		}
		d, err := time.ParseDuration(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
		*dst = d
		return nil
	}
	boolean := func(name string, dst **bool) error {
		v, ok := lookup(name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", name)
		}
		*dst = &b
		return nil
	}

	str("JAVELIN_BASE_URL", &c.Client.BaseURL)
	str("JAVELIN_ADDR", &c.Server.Addr)
	str("JAVELIN_CACHE", &c.Server.Cache)
	str("JAVELIN_CACHE_DIR", &c.Server.CacheDir)
	str("JAVELIN_REDIS_ADDR", &c.Server.RedisAddr)
	str("JAVELIN_NEXUS_URL", &c.Nexus.URL)
	str("JAVELIN_NEXUS_USERNAME", &c.Nexus.Username)
	str("JAVELIN_NEXUS_PASSWORD", &c.Nexus.Password)
	str("JAVELIN_NEXUS_RELEASE_REPOSITORY", &c.Nexus.ReleaseRepository)
	str("JAVELIN_NEXUS_SNAPSHOT_REPOSITORY", &c.Nexus.SnapshotRepository)
	str("JAVELIN_GITLAB_URL", &c.GitLab.URL)
	str("JAVELIN_GITLAB_TOKEN", &c.GitLab.PrivateToken)
	str("JAVELIN_GITLAB_GROUP", &c.GitLab.GroupID)
	str("JAVELIN_GITLAB_REF", &c.GitLab.Ref)

	for _, err := range []error{
		dur("JAVELIN_DEBOUNCE", &c.Client.Debounce),
		dur("JAVELIN_CACHE_TTL", &c.Server.CacheTTL),
		boolean("JAVELIN_GITLAB_INCLUDE_SUBGROUPS", &c.GitLab.IncludeSubgroups),
		boolean("JAVELIN_GITLAB_ARCHIVED", &c.GitLab.Archived),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if err := errors.ValidateURL(c.Client.BaseURL); err != nil {
		return invalid(err, "client.base_url")
	}
	if c.Client.Debounce < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "client.debounce cannot be negative")
	}
	switch c.Server.Cache {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Server.RedisAddr == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "server.redis_addr is required when server.cache is %q", CacheRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "server.cache must be one of %s, %s or %s, got %q", CacheNone, CacheFile, CacheRedis, c.Server.Cache)
	}
	if c.Server.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.cache_ttl cannot be negative")
	}
	if c.Nexus.MaxPages < 0 || c.GitLab.PerPage < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "page limits cannot be negative")
	}
	return nil
}

// ValidateServer additionally checks the upstream settings the gateway
// needs.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := errors.ValidateURL(c.Nexus.URL); err != nil {
		return invalid(err, "nexus.url")
	}
	if err := errors.ValidateURL(c.GitLab.URL); err != nil {
		return invalid(err, "gitlab.url")
	}
	if c.Nexus.ReleaseRepository == "" && c.Nexus.SnapshotRepository == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one of nexus.release_repository and nexus.snapshot_repository is required")
	}
	return nil
}

func invalid(err error, field string) error {
	return errors.New(errors.ErrCodeInvalidConfig, "%s: %s", field, errors.UserMessage(err))
}

// Repositories returns the configured Nexus repositories to search,
// release first.
func (n NexusConfig) Repositories() []string {
	var repos []string
	for _, r := range []string{n.ReleaseRepository, n.SnapshotRepository} {
		if r != "" {
			repos = append(repos, r)
		}
	}
	return repos
}

// ClientConfig converts to the registry client settings.
func (n NexusConfig) ClientConfig() nexus.Config {
	return nexus.Config{
		URL:      n.URL,
		Username: n.Username,
		Password: n.Password,
		MaxPages: n.MaxPages,
	}
}

// ClientConfig converts to the repository client settings.
func (g GitLabConfig) ClientConfig() gitlab.Config {
	return gitlab.Config{
		URL:              g.URL,
		PrivateToken:     g.PrivateToken,
		GroupID:          g.GroupID,
		IncludeSubgroups: g.IncludeSubgroups,
		Archived:         g.Archived,
		PerPage:          g.PerPage,
		Ref:              g.Ref,
	}
}

// String renders the configuration as TOML with secrets masked.
func (c Config) String() string {
	masked := c
	masked.Nexus.Password = mask(c.Nexus.Password)
	masked.GitLab.PrivateToken = mask(c.GitLab.PrivateToken)

	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("%+v", masked)
	}
	return b.String()
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
