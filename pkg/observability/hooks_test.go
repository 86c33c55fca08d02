package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Catalog hooks
	cat := NoopCatalogHooks{}
	cat.OnSearch(ctx, "spring", 12, 1, time.Second, nil)
	cat.OnExpand(ctx, "org.example", "core", 4, time.Second, nil)
	cat.OnStale(ctx, "spr", 3)

	// Browser hooks
	b := NoopBrowserHooks{}
	b.OnNavigate(ctx, "42", "descend", "src", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "search")
	c.OnCacheMiss(ctx, "tree")
	c.OnCacheSet(ctx, "http", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "nexus.example.com", "/service/rest/v1/search")
	h.OnResponse(ctx, "GET", "nexus.example.com", "/service/rest/v1/search", 200, time.Second)
	h.OnError(ctx, "GET", "nexus.example.com", "/service/rest/v1/search", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Catalog().(NoopCatalogHooks); !ok {
		t.Error("Catalog() should return NoopCatalogHooks by default")
	}
	if _, ok := Browser().(NoopBrowserHooks); !ok {
		t.Error("Browser() should return NoopBrowserHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customCatalog := &testCatalogHooks{}
	SetCatalogHooks(customCatalog)
	if Catalog() != customCatalog {
		t.Error("SetCatalogHooks should set custom hooks")
	}

	customBrowser := &testBrowserHooks{}
	SetBrowserHooks(customBrowser)
	if Browser() != customBrowser {
		t.Error("SetBrowserHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Catalog().(NoopCatalogHooks); !ok {
		t.Error("Reset() should restore NoopCatalogHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testBrowserHooks{}
	SetBrowserHooks(custom)
	SetBrowserHooks(nil)

	if Browser() != custom {
		t.Error("SetBrowserHooks(nil) should be ignored")
	}
}

type testCatalogHooks struct{ NoopCatalogHooks }
type testBrowserHooks struct{ NoopBrowserHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
