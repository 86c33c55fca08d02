package gitlab

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/javelin/pkg/cache"
	"github.com/matzehuels/javelin/pkg/integrations"
)

// DefaultRef is the ref used for raw file reads when none is configured.
const DefaultRef = "master"

// treePageSize is the largest page GitLab serves for tree listings.
const treePageSize = 100

// Config holds the GitLab connection settings and project list filters.
type Config struct {
	URL              string // Base URL, e.g. "https://gitlab.example.com"
	PrivateToken     string // Optional personal access token
	GroupID          string // Restrict Projects to this group (empty lists all visible projects)
	IncludeSubgroups *bool  // Forwarded as include_subgroups when set
	Archived         *bool  // Forwarded as archived when set
	PerPage          int    // Forwarded as per_page when positive
	Ref              string // Branch or tag for raw file reads (default "master")
}

// Project is a GitLab project as returned with simple=true.
type Project struct {
	ID                int64    `json:"id"`
	Name              string   `json:"name"`
	PathWithNamespace string   `json:"path_with_namespace,omitempty"`
	Description       string   `json:"description,omitempty"`
	WebURL            string   `json:"web_url,omitempty"`
	LastActivityAt    string   `json:"last_activity_at,omitempty"`
	StarCount         int      `json:"star_count"`
	ForksCount        int      `json:"forks_count"`
	TagList           []string `json:"tag_list,omitempty"`
}

// TreeItem is one entry of a repository tree listing.
type TreeItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // "tree" or "blob"
	Path string `json:"path"`
	Mode string `json:"mode"`
}

// Client provides access to the GitLab API.
// It handles HTTP requests with caching, automatic retries, and optional authentication.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	cfg  Config
	base string
	keys cache.Keyer
}

// NewClient creates a GitLab API client.
//
// Parameters:
//   - backend: Cache backend for HTTP response caching (nil disables caching)
//   - cfg: Connection settings; URL must be set
//   - cacheTTL: How long responses are cached (0 disables caching)
//
// The returned Client is safe for concurrent use.
func NewClient(backend cache.Cache, cfg Config, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if token := strings.TrimSpace(cfg.PrivateToken); token != "" {
		headers = map[string]string{"PRIVATE-TOKEN": token}
	}
	if cfg.Ref == "" {
		cfg.Ref = DefaultRef
	}
	return &Client{
		Client: integrations.NewClient(backend, "gitlab", cacheTTL, headers).StrictJSON(),
		cfg:    cfg,
		base:   strings.TrimRight(cfg.URL, "/") + "/api/v4",
		keys:   cache.NewDefaultKeyer(),
	}
}

// Projects lists the configured group's projects, most recently active first.
// Without a group id it lists every project visible to the token.
func (c *Client) Projects(ctx context.Context, refresh bool) ([]Project, error) {
	u := c.projectsURL()

	var projects []Project
	err := c.Cached(ctx, "projects:"+cache.Hash([]byte(u)), refresh, &projects, func() error {
		projects = nil
		if err := c.Get(ctx, u, &projects); err != nil {
			return fmt.Errorf("gitlab projects: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) projectsURL() string {
	endpoint := c.base + "/projects"
	if c.cfg.GroupID != "" {
		endpoint = c.base + "/groups/" + integrations.PathEncode(c.cfg.GroupID) + "/projects"
	}

	q := url.Values{}
	q.Set("simple", "true")
	q.Set("order_by", "last_activity_at")
	q.Set("sort", "desc")
	if c.cfg.IncludeSubgroups != nil {
		q.Set("include_subgroups", strconv.FormatBool(*c.cfg.IncludeSubgroups))
	}
	if c.cfg.Archived != nil {
		q.Set("archived", strconv.FormatBool(*c.cfg.Archived))
	}
	if c.cfg.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(c.cfg.PerPage))
	}
	return endpoint + "?" + q.Encode()
}

// Tree lists the direct children of path ("" for the repository root).
func (c *Client) Tree(ctx context.Context, projectID, path string, refresh bool) ([]TreeItem, error) {
	u := c.treeURL(projectID, path)

	var items []TreeItem
	err := c.Cached(ctx, c.keys.ListingKey(projectID, path), refresh, &items, func() error {
		items = nil
		if err := c.Get(ctx, u, &items); err != nil {
			return fmt.Errorf("gitlab tree %s:%q: %w", projectID, path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []TreeItem{}
	}
	return items, nil
}

func (c *Client) treeURL(projectID, path string) string {
	q := url.Values{}
	if path != "" {
		q.Set("path", path)
	}
	q.Set("per_page", strconv.Itoa(treePageSize))
	return c.base + "/projects/" + integrations.PathEncode(projectID) + "/repository/tree?" + q.Encode()
}

// RawFile returns the contents of the file at path on the configured ref.
func (c *Client) RawFile(ctx context.Context, projectID, path string, refresh bool) (string, error) {
	u := c.rawURL(projectID, path)

	var content string
	err := c.Cached(ctx, "raw:"+cache.Hash([]byte(u)), refresh, &content, func() error {
		var err error
		content, err = c.GetText(ctx, u)
		if err != nil {
			return fmt.Errorf("gitlab raw %s:%q: %w", projectID, path, err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return content, nil
}

func (c *Client) rawURL(projectID, path string) string {
	return c.base + "/projects/" + integrations.PathEncode(projectID) +
		"/repository/files/" + integrations.PathEncode(path) + "/raw?ref=" + integrations.URLEncode(c.cfg.Ref)
}
