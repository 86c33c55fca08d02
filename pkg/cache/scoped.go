package cache

// ScopedKeyer wraps a Keyer with a prefix so that several gateways can
// share one Redis without seeing each other's entries.
//
// Example usage:
//
//	// One namespace per upstream Nexus instance
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "nexus.internal:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// ListingKey generates a prefixed key for a tree listing.
func (k *ScopedKeyer) ListingKey(repositoryID, path string) string {
	return k.prefix + k.inner.ListingKey(repositoryID, path)
}

// SearchKey generates a prefixed key for a registry search.
func (k *ScopedKeyer) SearchKey(repository string, opts SearchKeyOpts) string {
	return k.prefix + k.inner.SearchKey(repository, opts)
}
