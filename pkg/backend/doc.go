// Package backend is the HTTP client for the javelin gateway API.
//
// It implements [catalog.Backend] over /api/nexus and [browser.Backend]
// over /api/gitlab, decoding the gateway's wire format into catalog and
// browser types. Every failure, whether a refused connection or a non-2xx
// status, is reported as an ErrCodeNetwork error. The client never caches
// and never retries.
//
// [catalog.Backend]: github.com/matzehuels/javelin/pkg/catalog.Backend
// [browser.Backend]: github.com/matzehuels/javelin/pkg/browser.Backend
package backend
