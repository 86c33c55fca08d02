// Package cache provides the byte-oriented cache backends used by the
// Javelin gateway to keep upstream registry and repository responses.
//
// Three backends implement [Cache]:
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entry files under a directory, for the CLI and single instances
//   - [RedisCache]: shared cache for multi-instance gateway deployments
//
// Keys are produced by a [Keyer] so that different upstreams and scopes never
// collide. The package also hosts the sentinel errors and retry helpers shared
// by the HTTP clients.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache stores opaque byte payloads with a per-entry TTL.
//
// A TTL of zero means the entry never expires. Get reports a miss as
// (nil, false, nil); only backend failures return an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// HTTPKey generates a key for an upstream HTTP response.
	HTTPKey(namespace, key string) string

	// ListingKey generates a key for a repository tree listing.
	ListingKey(repositoryID, path string) string

	// SearchKey generates a key for a registry search.
	SearchKey(repository string, opts SearchKeyOpts) string
}

// SearchKeyOpts identifies one registry search.
type SearchKeyOpts struct {
	Query string
	Group string
	Name  string
}

// DefaultKeyer is the standard Keyer.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard Keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return fmt.Sprintf("http:%s:%s", namespace, key)
}

// ListingKey hashes repository and path so arbitrary paths are safe keys.
func (DefaultKeyer) ListingKey(repositoryID, path string) string {
	return hashKey("tree", repositoryID, path)
}

// SearchKey hashes the repository and search options.
func (DefaultKeyer) SearchKey(repository string, opts SearchKeyOpts) string {
	return hashKey("search", repository, opts.Query, opts.Group, opts.Name)
}
