package integrations

import (
	"encoding/base64"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/javelin/pkg/cache"
)

const httpTimeout = 10 * time.Second

var (
	// ErrNotFound is returned when an artifact, project or file doesn't exist upstream.
	ErrNotFound = cache.ErrNotFound

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, non-2xx responses).
	ErrNetwork = cache.ErrNetwork

	// ErrUnauthorized is returned for 401 and 403 responses.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnexpectedContent is returned when a successful response cannot be
	// decoded, which usually means the upstream URL or credentials are wrong.
	ErrUnexpectedContent = errors.New("unexpected response content")
)

// NewHTTPClient creates an HTTP client with a standard timeout for upstream requests.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// BasicAuth returns the value of an Authorization header for HTTP basic auth.
func BasicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// JoinURL appends path to base, collapsing duplicate slashes at the seam.
func JoinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}

// URLEncode percent-encodes a string for use in URLs.
// This is a convenience wrapper around [url.QueryEscape].
func URLEncode(s string) string { return url.QueryEscape(s) }

// PathEncode percent-encodes a string for use as a single path segment,
// escaping slashes as well.
func PathEncode(s string) string { return url.PathEscape(s) }
