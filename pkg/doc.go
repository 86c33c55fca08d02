// Package pkg provides the libraries behind Javelin, a terminal client for
// browsing a Nexus artifact registry and GitLab source repositories.
//
// # Overview
//
// Javelin has two halves. A gateway ("javelin serve") sits in front of Nexus
// and GitLab, caches their responses and exposes a small JSON API. Clients
// talk only to the gateway:
//
//	Nexus / GitLab
//	      ↓
//	[integrations] clients (cache, retry, coalescing)
//	      ↓
//	[gateway] HTTP API
//	      ↓
//	[backend] gateway client
//	      ↓
//	[catalog] search views    [browser] repository navigation
//
// # Quick Start
//
// Search the registry for the latest version of every artifact:
//
//	client := catalog.NewClient(backend.NewClient("http://localhost:8080"), nil)
//	view, err := client.Search(ctx, "spring")
//	for _, r := range view.Sorted() {
//	    fmt.Println(r.Coordinate())
//	}
//
// Browse a repository:
//
//	b := browser.New(backend.NewClient("http://localhost:8080"), nil)
//	state, err := b.Open(ctx, "42")
//	fmt.Println(state.Mode, state.File.Path) // file README.md
//
// # Main Packages
//
// [catalog] - Artifact search. Collapses raw registry records to the latest
// version per artifact, expands version histories, resolves dependency
// snippets, and runs debounced live searches.
//
// [browser] - Repository navigation as a pure state machine
// ([browser.Transition]) plus a driver that performs its fetches.
//
// [backend] - HTTP client for the gateway API.
//
// [gateway] - The gateway's chi router and handlers.
//
// [integrations] - Upstream clients for Nexus and GitLab, and Maven snippet
// rendering.
//
// ## Infrastructure
//
// [cache] - File, Redis and null cache backends, cache keys and retry helpers.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hooks for logging and metrics.
//
// [buildinfo] - Version information set at build time.
//
// # Testing
//
// Run tests:
//
//	go test ./...                 # All tests
//	go test ./pkg/browser/...     # Specific package
//
// [catalog]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/catalog
// [browser]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/browser
// [browser.Transition]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/browser#Transition
// [backend]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/backend
// [gateway]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/gateway
// [integrations]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/integrations
// [cache]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/javelin/pkg/buildinfo
package pkg
