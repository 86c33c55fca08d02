package nexus

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/javelin/pkg/cache"
	"github.com/matzehuels/javelin/pkg/integrations"
)

// DefaultMaxPages bounds how many continuation pages one search follows.
const DefaultMaxPages = 20

// Config holds the Nexus connection settings.
type Config struct {
	URL      string // Base URL, e.g. "https://nexus.example.com"
	Username string // Optional basic auth user
	Password string // Optional basic auth password
	MaxPages int    // Continuation pages per search (0 means DefaultMaxPages)
}

// Item is one component returned by the search API.
type Item struct {
	ID         string  `json:"id,omitempty"`
	Repository string  `json:"repository"`
	Format     string  `json:"format,omitempty"`
	Group      string  `json:"group"`
	Name       string  `json:"name"`
	Version    string  `json:"version"`
	Assets     []Asset `json:"assets,omitempty"`
}

// Asset is a file attached to a component.
type Asset struct {
	ID          string            `json:"id,omitempty"`
	DownloadURL string            `json:"downloadUrl,omitempty"`
	Path        string            `json:"path,omitempty"`
	Repository  string            `json:"repository,omitempty"`
	Format      string            `json:"format,omitempty"`
	Checksum    map[string]string `json:"checksum,omitempty"`
}

// SearchResponse mirrors the Nexus search payload.
type SearchResponse struct {
	Items             []Item `json:"items"`
	ContinuationToken string `json:"continuationToken,omitempty"`
}

// SearchOpts selects what to search for in one repository.
//
// When Group and Name are both set the search is an exact lookup and Query
// is ignored. Otherwise a non-empty Query is wrapped in wildcards and an
// empty Query lists everything.
type SearchOpts struct {
	Repository string
	Query      string
	Group      string
	Name       string
}

// Exact reports whether the options describe a group+name lookup.
func (o SearchOpts) Exact() bool {
	return o.Group != "" && o.Name != ""
}

// Client provides access to the Nexus search API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
	baseURL  string
	maxPages int
	keys     cache.Keyer
}

// NewClient creates a Nexus client.
//
// Parameters:
//   - backend: Cache backend for search results (nil disables caching)
//   - cfg: Connection settings; URL must be set
//   - cacheTTL: How long search results are cached (0 disables caching)
func NewClient(backend cache.Cache, cfg Config, cacheTTL time.Duration) *Client {
	var headers map[string]string
	if cfg.Username != "" && cfg.Password != "" {
		headers = map[string]string{"Authorization": integrations.BasicAuth(cfg.Username, cfg.Password)}
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Client{
		Client:   integrations.NewClient(backend, "nexus", cacheTTL, headers),
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		maxPages: maxPages,
		keys:     cache.NewDefaultKeyer(),
	}
}

// Search runs one search against opts.Repository and returns every item
// across all continuation pages (up to the page bound).
//
// Returns:
//   - [integrations.ErrNotFound] if the repository doesn't exist
//   - [integrations.ErrNetwork] for HTTP failures
//   - [integrations.ErrUnauthorized] for rejected credentials
func (c *Client) Search(ctx context.Context, opts SearchOpts, refresh bool) ([]Item, error) {
	if opts.Repository == "" {
		return nil, fmt.Errorf("nexus search: repository is required")
	}

	key := c.keys.SearchKey(opts.Repository, cache.SearchKeyOpts{
		Query: opts.Query,
		Group: opts.Group,
		Name:  opts.Name,
	})

	var items []Item
	err := c.Cached(ctx, key, refresh, &items, func() error {
		var err error
		items, err = c.fetchAll(ctx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) fetchAll(ctx context.Context, opts SearchOpts) ([]Item, error) {
	items := []Item{}
	token := ""
	for range c.maxPages {
		var page SearchResponse
		if err := c.Get(ctx, c.searchURL(opts, token), &page); err != nil {
			return nil, fmt.Errorf("nexus search %s: %w", opts.Repository, err)
		}
		items = append(items, page.Items...)
		if page.ContinuationToken == "" {
			break
		}
		token = page.ContinuationToken
	}
	return items, nil
}

func (c *Client) searchURL(opts SearchOpts, token string) string {
	q := url.Values{}
	q.Set("repository", opts.Repository)
	switch {
	case opts.Exact():
		q.Set("group", opts.Group)
		q.Set("name", opts.Name)
	case opts.Query != "":
		q.Set("q", "*"+opts.Query+"*")
	default:
		q.Set("q", "*")
	}
	if token != "" {
		q.Set("continuationToken", token)
	}
	return c.baseURL + "/service/rest/v1/search?" + q.Encode()
}

// Dedupe returns items with exact duplicates removed, keeping first-seen
// order. Two items are duplicates when every identifying field matches.
func Dedupe(items []Item) []Item {
	type ident struct{ id, repo, format, group, name, version string }
	seen := make(map[ident]bool, len(items))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		k := ident{it.ID, it.Repository, it.Format, it.Group, it.Name, it.Version}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, it)
	}
	return out
}
