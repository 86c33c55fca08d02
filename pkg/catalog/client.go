package catalog

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/javelin/pkg/errors"
	"github.com/matzehuels/javelin/pkg/observability"
)

// SnippetUnavailable replaces a dependency snippet that could not be loaded.
const SnippetUnavailable = "Failed to load dependency info."

// Snippet holds the dependency declaration of one version for each build
// system. Snippets are fetched on demand and never cached.
type Snippet struct {
	Maven  string `json:"pom"`
	Gradle string `json:"gradle"`
}

// Available reports whether both renderings were loaded.
func (s Snippet) Available() bool {
	return s.Maven != SnippetUnavailable && s.Gradle != SnippetUnavailable
}

// Backend is the registry search surface the catalog reads from.
type Backend interface {
	// Search runs a free-text search. The empty query lists everything.
	Search(ctx context.Context, query string) ([]Record, error)

	// Versions returns every release and snapshot record of one artifact.
	Versions(ctx context.Context, group, name string) ([]Record, error)

	// Dependency returns the build-file renderings of one coordinate.
	Dependency(ctx context.Context, group, name, version string) (Snippet, error)
}

// Client turns raw registry records into catalog views.
//
// Client holds no per-query state and is safe for concurrent use. It never
// retries; a failed request is returned to the caller immediately.
type Client struct {
	backend Backend
	logger  *log.Logger
}

// NewClient creates a catalog client. A nil logger discards log output.
func NewClient(backend Backend, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Client{backend: backend, logger: logger}
}

// Search returns the latest record per artifact matching query.
//
// Non-empty queries shorter than [errors.MinQueryLength] characters are
// rejected with ErrCodeInvalidQuery before any request is made. The empty
// query lists everything. Records missing group, name or version are
// dropped. A search that leaves no valid records fails with
// ErrCodeEmptyResult; transport failures carry ErrCodeNetwork.
func (c *Client) Search(ctx context.Context, query string) (GroupView, error) {
	query = strings.TrimSpace(query)
	if err := errors.ValidateQuery(query); err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := c.backend.Search(ctx, query)
	if err != nil {
		err = transportError(err, "search %q", query)
		observability.Catalog().OnSearch(ctx, query, 0, 0, time.Since(start), err)
		return nil, err
	}

	valid, dropped := Filter(records)
	if dropped > 0 {
		c.logger.Debug("dropped malformed records", "query", query, "count", dropped)
	}

	view := Latest(valid)
	observability.Catalog().OnSearch(ctx, query, len(view), dropped, time.Since(start), nil)
	if len(view) == 0 {
		return view, errors.New(errors.ErrCodeEmptyResult, "no artifacts match %q", query)
	}
	return view, nil
}

// ExpandVersions fetches every version of group:name, greatest first.
// It always refetches. Records for other artifacts or missing a version
// are dropped; an artifact without any remaining version fails with
// ErrCodeEmptyResult.
func (c *Client) ExpandVersions(ctx context.Context, group, name string) (VersionHistory, error) {
	if err := errors.ValidateCoordinate(group, name, "", false); err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := c.backend.Versions(ctx, group, name)
	if err != nil {
		err = transportError(err, "versions of %s:%s", group, name)
		observability.Catalog().OnExpand(ctx, group, name, 0, time.Since(start), err)
		return nil, err
	}

	key := Key{Group: group, Name: name}
	history := make(VersionHistory, 0, len(records))
	for _, r := range records {
		if r.Valid() && r.Key() == key {
			history = append(history, r)
		}
	}
	if dropped := len(records) - len(history); dropped > 0 {
		c.logger.Debug("dropped malformed records", "artifact", key, "count", dropped)
	}
	SortDescending(history)

	observability.Catalog().OnExpand(ctx, group, name, len(history), time.Since(start), nil)
	if len(history) == 0 {
		return history, errors.New(errors.ErrCodeEmptyResult, "no versions of %s", key)
	}
	return history, nil
}

// ResolveDependency returns the dependency snippets for one coordinate.
// It never fails: a snippet that cannot be loaded is replaced with
// [SnippetUnavailable].
func (c *Client) ResolveDependency(ctx context.Context, group, name, version string) Snippet {
	unavailable := Snippet{Maven: SnippetUnavailable, Gradle: SnippetUnavailable}

	if err := errors.ValidateCoordinate(group, name, version, true); err != nil {
		c.logger.Debug("dependency snippet skipped", "error", err)
		return unavailable
	}

	s, err := c.backend.Dependency(ctx, group, name, version)
	if err != nil {
		c.logger.Debug("dependency snippet failed", "coordinate", group+":"+name+":"+version, "error", err)
		return unavailable
	}
	if strings.TrimSpace(s.Maven) == "" {
		s.Maven = SnippetUnavailable
	}
	if strings.TrimSpace(s.Gradle) == "" {
		s.Gradle = SnippetUnavailable
	}
	return s
}

// transportError tags err as a network failure unless it already carries a code.
func transportError(err error, format string, args ...any) error {
	if errors.GetCode(err) != "" {
		return err
	}
	return errors.Wrap(errors.ErrCodeNetwork, err, format, args...)
}
