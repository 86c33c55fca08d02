package nexus

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/javelin/pkg/cache"
	"github.com/matzehuels/javelin/pkg/integrations"
)

func TestSearchURL(t *testing.T) {
	c := NewClient(nil, Config{URL: "https://nexus.example.com/"}, 0)

	tests := []struct {
		name  string
		opts  SearchOpts
		token string
		want  string
	}{
		{
			name: "keyword",
			opts: SearchOpts{Repository: "maven-releases", Query: "spring"},
			want: "https://nexus.example.com/service/rest/v1/search?q=%2Aspring%2A&repository=maven-releases",
		},
		{
			name: "list all",
			opts: SearchOpts{Repository: "maven-releases"},
			want: "https://nexus.example.com/service/rest/v1/search?q=%2A&repository=maven-releases",
		},
		{
			name: "exact ignores query",
			opts: SearchOpts{Repository: "maven-snapshots", Group: "org.example", Name: "core", Query: "x"},
			want: "https://nexus.example.com/service/rest/v1/search?group=org.example&name=core&repository=maven-snapshots",
		},
		{
			name:  "continuation",
			opts:  SearchOpts{Repository: "r"},
			token: "abc",
			want:  "https://nexus.example.com/service/rest/v1/search?continuationToken=abc&q=%2A&repository=r",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.searchURL(tt.opts, tt.token); got != tt.want {
				t.Errorf("searchURL() = %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestClient_SearchFollowsContinuation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/service/rest/v1/search" {
			http.NotFound(w, r)
			return
		}
		var resp SearchResponse
		switch r.URL.Query().Get("continuationToken") {
		case "":
			resp = SearchResponse{
				Items:             []Item{{Repository: "maven-releases", Group: "org.example", Name: "core", Version: "1.0"}},
				ContinuationToken: "page2",
			}
		case "page2":
			resp = SearchResponse{
				Items: []Item{{Repository: "maven-releases", Group: "org.example", Name: "core", Version: "1.1"}},
			}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	c := NewClient(nil, Config{URL: server.URL}, 0)

	items, err := c.Search(context.Background(), SearchOpts{Repository: "maven-releases", Query: "core"}, false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[1].Version != "1.1" {
		t.Errorf("items[1].Version = %q, want 1.1", items[1].Version)
	}
}

func TestClient_SearchPageBound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(SearchResponse{
			Items:             []Item{{Group: "g", Name: "n", Version: "1"}},
			ContinuationToken: "forever",
		})
	}))
	defer server.Close()

	c := NewClient(nil, Config{URL: server.URL, MaxPages: 3}, 0)

	items, err := c.Search(context.Background(), SearchOpts{Repository: "r"}, false)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if calls.Load() != 3 || len(items) != 3 {
		t.Errorf("calls=%d items=%d, want 3 and 3", calls.Load(), len(items))
	}
}

func TestClient_SearchBasicAuth(t *testing.T) {
	var user, pass string
	var ok bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok = r.BasicAuth()
		json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer server.Close()

	c := NewClient(nil, Config{URL: server.URL, Username: "reader", Password: "s3cret"}, 0)
	if _, err := c.Search(context.Background(), SearchOpts{Repository: "r"}, false); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if !ok || user != "reader" || pass != "s3cret" {
		t.Errorf("basic auth = %q/%q (ok=%v)", user, pass, ok)
	}
}

func TestClient_SearchNoAuthWithoutPassword(t *testing.T) {
	var header string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(SearchResponse{})
	}))
	defer server.Close()

	c := NewClient(nil, Config{URL: server.URL, Username: "reader"}, 0)
	if _, err := c.Search(context.Background(), SearchOpts{Repository: "r"}, false); err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if header != "" {
		t.Errorf("Authorization = %q, want empty", header)
	}
}

func TestClient_SearchCached(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(SearchResponse{Items: []Item{{Group: "g", Name: "n", Version: "1"}}})
	}))
	defer server.Close()

	backend, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := NewClient(backend, Config{URL: server.URL}, time.Hour)
	ctx := context.Background()
	opts := SearchOpts{Repository: "r", Query: "n"}

	for range 2 {
		items, err := c.Search(ctx, opts, false)
		if err != nil || len(items) != 1 {
			t.Fatalf("Search() = %v, %v", items, err)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("upstream calls = %d, want 1", calls.Load())
	}

	if _, err := c.Search(ctx, opts, true); err != nil {
		t.Fatal(err)
	}
	if calls.Load() != 2 {
		t.Errorf("refresh should bypass cache, calls = %d", calls.Load())
	}
}

func TestClient_SearchNotFound(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	c := NewClient(nil, Config{URL: server.URL}, 0)
	_, err := c.Search(context.Background(), SearchOpts{Repository: "missing"}, false)
	if !errors.Is(err, integrations.ErrNotFound) {
		t.Errorf("Search() error = %v, want ErrNotFound", err)
	}
}

func TestClient_SearchRequiresRepository(t *testing.T) {
	c := NewClient(nil, Config{URL: "http://unused"}, 0)
	if _, err := c.Search(context.Background(), SearchOpts{Query: "x"}, false); err == nil {
		t.Error("Search() without repository should fail")
	}
}

func TestDedupe(t *testing.T) {
	a := Item{Repository: "rel", Group: "g", Name: "n", Version: "1"}
	b := Item{Repository: "snap", Group: "g", Name: "n", Version: "1-SNAPSHOT"}

	got := Dedupe([]Item{a, b, a, b, a})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Repository != "rel" || got[1].Repository != "snap" {
		t.Errorf("Dedupe() order = %+v", got)
	}
}
