package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/matzehuels/javelin/pkg/browser"
	"github.com/matzehuels/javelin/pkg/catalog"
	"github.com/matzehuels/javelin/pkg/errors"
	"github.com/matzehuels/javelin/pkg/integrations"
	"github.com/matzehuels/javelin/pkg/integrations/gitlab"
)

// Route prefixes served by the gateway.
const (
	CatalogBase = "/api/nexus"
	ProjectBase = "/api/gitlab/projects"
)

// Client talks to a javelin gateway.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *integrations.Client
	baseURL string
}

// NewClient creates a gateway client for baseURL, e.g. "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		http:    integrations.NewClient(nil, "backend", 0, map[string]string{"Accept": "application/json"}).WithAttempts(1),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	c.http.WithHTTPClient(h)
	return c
}

// BaseURL returns the gateway URL.
func (c *Client) BaseURL() string { return c.baseURL }

type searchResponse struct {
	Items []catalog.Record `json:"items"`
}

// Search implements [catalog.Backend].
func (c *Client) Search(ctx context.Context, query string) ([]catalog.Record, error) {
	q := url.Values{}
	q.Set("q", query)

	var resp searchResponse
	if err := c.http.Get(ctx, c.catalogURL("/search", q), &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "search %q", query)
	}
	return resp.Items, nil
}

// Versions implements [catalog.Backend].
func (c *Client) Versions(ctx context.Context, group, name string) ([]catalog.Record, error) {
	q := url.Values{}
	q.Set("group", group)
	q.Set("name", name)

	var resp searchResponse
	if err := c.http.Get(ctx, c.catalogURL("/search", q), &resp); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "versions of %s:%s", group, name)
	}
	return resp.Items, nil
}

// Dependency implements [catalog.Backend].
func (c *Client) Dependency(ctx context.Context, group, name, version string) (catalog.Snippet, error) {
	q := url.Values{}
	q.Set("g", group)
	q.Set("a", name)
	q.Set("v", version)

	var s catalog.Snippet
	if err := c.http.Get(ctx, c.catalogURL("/dependency", q), &s); err != nil {
		return catalog.Snippet{}, errors.Wrap(errors.ErrCodeNetwork, err, "dependency %s:%s:%s", group, name, version)
	}
	return s, nil
}

// Projects lists the repositories the gateway exposes.
func (c *Client) Projects(ctx context.Context) ([]gitlab.Project, error) {
	var projects []gitlab.Project
	if err := c.http.Get(ctx, c.baseURL+ProjectBase, &projects); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list repositories")
	}
	return projects, nil
}

type treeItem struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
}

// Tree implements [browser.Backend].
func (c *Client) Tree(ctx context.Context, repositoryID, path string) ([]browser.Node, error) {
	q := url.Values{}
	if path != "" {
		q.Set("path", path)
	}

	var items []treeItem
	if err := c.http.Get(ctx, c.repositoryURL(repositoryID, "/tree", q), &items); err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list %q", displayPath(path))
	}

	nodes := make([]browser.Node, 0, len(items))
	for _, it := range items {
		nodes = append(nodes, browser.Node{
			Name: it.Name,
			Path: it.Path,
			Type: browser.ParseNodeType(it.Type),
		})
	}
	return nodes, nil
}

// RawFile implements [browser.Backend].
func (c *Client) RawFile(ctx context.Context, repositoryID, path string) (string, error) {
	q := url.Values{}
	q.Set("path", path)

	content, err := c.http.GetText(ctx, c.repositoryURL(repositoryID, "/files/raw", q))
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeNetwork, err, "read %q", path)
	}
	return content, nil
}

func (c *Client) catalogURL(endpoint string, q url.Values) string {
	return c.baseURL + CatalogBase + endpoint + "?" + q.Encode()
}

func (c *Client) repositoryURL(repositoryID, endpoint string, q url.Values) string {
	u := c.baseURL + ProjectBase + "/" + url.PathEscape(repositoryID) + "/repository" + endpoint
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func displayPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}

var (
	_ catalog.Backend = (*Client)(nil)
	_ browser.Backend = (*Client)(nil)
)
