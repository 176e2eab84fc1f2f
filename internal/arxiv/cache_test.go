package arxiv

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestCache(t *testing.T, server *httptest.Server) *Cache {
	t.Helper()
	cache, err := NewCache(t.TempDir(), server.Client(), nil)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	return cache
}

func TestCacheReusesFreshFile(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Etag", `"v1"`)
		_, _ = w.Write([]byte("%PDF-1.4\nHello"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	ctx := context.Background()

	path, err := cache.Fetch(ctx, server.URL+"/pdf/2101.00001.pdf")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("cached file missing: %v", err)
	}

	path2, err := cache.Fetch(ctx, server.URL+"/pdf/2101.00001.pdf")
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if path != path2 {
		t.Fatalf("paths differ: %s vs %s", path, path2)
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Fatalf("expected a single download, got %d", n)
	}
}

func TestCacheRevalidatesStaleFile(t *testing.T) {
	var conditional int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v2"` {
			atomic.AddInt32(&conditional, 1)
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Header().Set("Etag", `"v2"`)
		_, _ = w.Write([]byte("%PDF-1.4\nUpdated"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	ctx := context.Background()

	path, err := cache.Fetch(ctx, server.URL+"/pdf/2201.00001.pdf")
	if err != nil {
		t.Fatalf("initial fetch: %v", err)
	}

	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := cache.Fetch(ctx, server.URL+"/pdf/2201.00001.pdf"); err != nil {
		t.Fatalf("conditional fetch: %v", err)
	}
	if n := atomic.LoadInt32(&conditional); n != 1 {
		t.Fatalf("expected one conditional request, got %d", n)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if time.Since(info.ModTime()) > cacheTTL {
		t.Fatal("revalidated file should be fresh again")
	}
}

func TestCacheServesStaleCopyOnFailure(t *testing.T) {
	var fail atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "down", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("%PDF-1.4\nOld"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	ctx := context.Background()
	url := server.URL + "/pdf/2401.00001.pdf"

	path, err := cache.Fetch(ctx, url)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	old := time.Now().Add(-(cacheTTL + time.Hour))
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	fail.Store(true)
	got, err := cache.Fetch(ctx, url)
	if err != nil {
		t.Fatalf("expected stale copy, got error %v", err)
	}
	if got != path {
		t.Fatalf("unexpected path %s", got)
	}

	if _, err := cache.Fetch(ctx, server.URL+"/pdf/2401.99999.pdf"); err == nil {
		t.Fatal("expected error without a cached copy")
	}
}

func TestCacheResumesPartialDownload(t *testing.T) {
	var rangeHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rangeHeader = r.Header.Get("Range")
		w.Header().Set("Etag", `"resume"`)
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("world"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	url := server.URL + "/pdf/2301.00001.pdf"
	paths := cache.pathsFor(cacheKey(url))

	if err := os.WriteFile(paths.partial, []byte("hello "), 0o644); err != nil {
		t.Fatalf("write partial: %v", err)
	}
	if err := writeMeta(paths.meta, cacheMeta{ETag: `"resume"`}); err != nil {
		t.Fatalf("write meta: %v", err)
	}

	path, err := cache.Fetch(context.Background(), url)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if path != paths.pdf {
		t.Fatalf("unexpected path: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read cached pdf: %v", err)
	}
	if string(data) != "hello world" {
		t.Fatalf("resume failed, got %q", string(data))
	}
	if rangeHeader != fmt.Sprintf("bytes=%d-", len("hello ")) {
		t.Fatalf("expected range header, got %q", rangeHeader)
	}
	if _, err := os.Stat(paths.partial); !os.IsNotExist(err) {
		t.Fatalf("partial file should be gone, err=%v", err)
	}
}

func TestCacheKey(t *testing.T) {
	t.Parallel()

	if got := cacheKey("https://arxiv.org/pdf/2101.00001v2.pdf"); got != "2101.00001v2" {
		t.Fatalf("expected id key, got %q", got)
	}
	key := cacheKey("https://example.com/foo.pdf")
	if len(key) != 40 || strings.Contains(key, "/") {
		t.Fatalf("expected sha1 hex key, got %q", key)
	}
}

func TestDefaultCacheDirHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(CacheDirEnv, dir)
	if got := DefaultCacheDir(); got != dir {
		t.Fatalf("DefaultCacheDir = %q, want %q", got, dir)
	}
}
