package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/javelin/pkg/cache"
	"github.com/matzehuels/javelin/pkg/observability"
)

const defaultAttempts = 3

// Client provides shared HTTP functionality for all upstream API clients.
// It handles caching, retry logic, request coalescing, and common request
// headers.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http      *http.Client
	cache     cache.Cache
	keyer     cache.Keyer
	namespace string
	ttl       time.Duration
	headers   map[string]string
	attempts  int
	strict    bool
	group     singleflight.Group
}

// NewClient creates a Client with the given cache and default headers.
// Headers are applied to all requests made through this client.
// Pass nil for headers if no default headers are needed, and a nil cache
// (or [cache.NullCache]) to disable response caching.
func NewClient(c cache.Cache, namespace string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:      NewHTTPClient(),
		cache:     c,
		keyer:     cache.NewDefaultKeyer(),
		namespace: strings.TrimSuffix(namespace, ":"),
		ttl:       ttl,
		headers:   headers,
		attempts:  defaultAttempts,
	}
}

// WithHTTPClient replaces the underlying HTTP client. Used by tests to point
// at an httptest server.
func (c *Client) WithHTTPClient(h *http.Client) *Client {
	if h != nil {
		c.http = h
	}
	return c
}

// WithAttempts sets how many times a retryable failure is attempted.
// Values below one mean a single attempt.
func (c *Client) WithAttempts(n int) *Client {
	c.attempts = max(n, 1)
	return c
}

// WithKeyer replaces the cache key strategy, e.g. with a [cache.ScopedKeyer]
// when several gateways share one Redis instance.
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	if k != nil {
		c.keyer = k
	}
	return c
}

// StrictJSON makes JSON requests fail with [ErrUnexpectedContent] when a
// successful response does not declare a JSON content type. Upstreams behind
// an SSO proxy answer with an HTML login page and status 200 when the
// credentials are wrong.
func (c *Client) StrictJSON() *Client {
	c.strict = true
	return c
}

// Cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
// The fetch function should populate v; on success, v is stored in the cache.
//
// Concurrent calls for the same key share one fetch.
func (c *Client) Cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	fullKey := c.keyer.HTTPKey(c.namespace, key)

	if !refresh {
		if data, ok, _ := c.cache.Get(ctx, fullKey); ok {
			if json.Unmarshal(data, v) == nil {
				observability.Cache().OnCacheHit(ctx, c.namespace)
				return nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, c.namespace)
	}

	res, err, shared := c.group.Do(fullKey, func() (any, error) {
		if err := cache.Retry(ctx, c.attempts, time.Second, fetch); err != nil {
			return nil, err
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if c.ttl > 0 {
			if c.cache.Set(ctx, fullKey, data, c.ttl) == nil {
				observability.Cache().OnCacheSet(ctx, c.namespace, len(data))
			}
		}
		return data, nil
	})
	if err != nil {
		return err
	}
	if shared {
		return json.Unmarshal(res.([]byte), v)
	}
	return nil
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
// It uses the client's default headers.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	resp, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if c.strict && !isJSON(resp.Header.Get("Content-Type")) {
		return fmt.Errorf("%w: %s answered with %q", ErrUnexpectedContent, resp.Request.URL.Host, resp.Header.Get("Content-Type"))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnexpectedContent, resp.Request.URL.Path, err)
	}
	return nil
}

// GetText performs an HTTP GET request and returns the response body as a string.
// Useful for raw file contents and other non-JSON endpoints.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	resp, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	return string(data), nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if err := checkStatus(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

func checkStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrUnauthorized, code)
	case code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
