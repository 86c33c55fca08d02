// Package integrations provides HTTP clients for the upstream systems behind
// the javelin gateway.
//
// # Overview
//
// Each upstream has its own subpackage:
//
//   - [nexus]: Sonatype Nexus Repository search API
//   - [gitlab]: GitLab projects, repository trees and raw files
//   - [maven]: Maven coordinates and dependency snippet rendering
//
// # Client Pattern
//
// Upstream clients embed the shared [Client]:
//
//	c := nexus.NewClient(backend, nexus.Config{URL: "https://nexus.example.com"}, time.Hour)
//	items, err := c.Search(ctx, nexus.SearchOpts{Repository: "maven-releases", Query: "spring"}, false)
//
// The shared client handles:
//   - Default headers (authentication)
//   - Response caching through [cache.Cache] with a configurable TTL
//   - Retries with exponential backoff for network errors and 5xx responses
//   - Coalescing of concurrent requests for the same cache key
//   - HTTP events reported to [observability.HTTP]
//
// [nexus]: github.com/matzehuels/javelin/pkg/integrations/nexus
// [gitlab]: github.com/matzehuels/javelin/pkg/integrations/gitlab
// [maven]: github.com/matzehuels/javelin/pkg/integrations/maven
// [cache.Cache]: github.com/matzehuels/javelin/pkg/cache.Cache
// [observability.HTTP]: github.com/matzehuels/javelin/pkg/observability.HTTP
package integrations
