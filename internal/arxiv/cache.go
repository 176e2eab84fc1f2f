package arxiv

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// CacheDirEnv overrides the PDF cache location.
	CacheDirEnv = "PAPERLIB_CACHE_DIR"

	cacheSubdir     = "paperlib/pdfs"
	cacheTTL        = 24 * time.Hour
	partialSuffix   = ".part"
	metaSuffix      = ".meta"
	downloadTimeout = 90 * time.Second
)

// Cache keeps downloaded PDFs on disk. Fresh files are reused, stale ones
// are revalidated with ETag/Last-Modified, and interrupted downloads resume
// with a Range request.
type Cache struct {
	dir    string
	client *http.Client
	logger *zap.Logger
}

type cacheMeta struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"lastModified"`
	CachedAt     time.Time `json:"cachedAt"`
	Size         int64     `json:"size"`
}

// cachePaths are the three files kept per cached PDF.
type cachePaths struct {
	pdf, meta, partial string
}

// DefaultCacheDir returns $PAPERLIB_CACHE_DIR or the user cache directory.
func DefaultCacheDir() string {
	if dir := os.Getenv(CacheDirEnv); dir != "" {
		return dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(os.TempDir(), "paperlib-cache")
	}
	return filepath.Join(base, cacheSubdir)
}

// NewCache creates dir if needed. An empty dir means DefaultCacheDir.
func NewCache(dir string, client *http.Client, logger *zap.Logger) (*Cache, error) {
	if dir == "" {
		dir = DefaultCacheDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create pdf cache: %w", err)
	}
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{dir: dir, client: client, logger: logger}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string { return c.dir }

// Fetch returns the local path of pdfURL, downloading it when needed. A stale
// copy is served if the refresh fails.
func (c *Cache) Fetch(ctx context.Context, pdfURL string) (string, error) {
	paths := c.pathsFor(cacheKey(pdfURL))

	info, statErr := os.Stat(paths.pdf)
	haveCopy := statErr == nil && info.Size() > 0
	if haveCopy && time.Since(info.ModTime()) < cacheTTL {
		return paths.pdf, nil
	}

	meta, _ := readMeta(paths.meta)
	if !haveCopy {
		info = nil
	}
	path, err := c.download(ctx, pdfURL, paths, meta, info)
	if err == nil {
		return path, nil
	}
	if haveCopy {
		c.logger.Warn("serving stale pdf", zap.String("url", pdfURL), zap.Error(err))
		return paths.pdf, nil
	}
	return "", err
}

func (c *Cache) download(ctx context.Context, pdfURL string, paths cachePaths, meta cacheMeta, current os.FileInfo) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pdfURL, nil)
	if err != nil {
		return "", err
	}
	if current != nil {
		setIfPresent(req.Header, "If-None-Match", meta.ETag)
		setIfPresent(req.Header, "If-Modified-Since", meta.LastModified)
	}

	var resumeFrom int64
	if info, err := os.Stat(paths.partial); err == nil && info.Size() > 0 {
		resumeFrom = info.Size()
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", resumeFrom))
		switch {
		case meta.ETag != "":
			req.Header.Set("If-Range", meta.ETag)
		case meta.LastModified != "":
			req.Header.Set("If-Range", meta.LastModified)
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNotModified:
		if current == nil {
			return c.download(ctx, pdfURL, paths, cacheMeta{}, nil)
		}
		meta.CachedAt = time.Now().UTC()
		if err := writeMeta(paths.meta, meta); err != nil {
			return "", err
		}
		// Touch the file so the TTL restarts.
		now := time.Now()
		_ = os.Chtimes(paths.pdf, now, now)
		return paths.pdf, nil
	case http.StatusOK:
		return c.store(resp, paths, false)
	case http.StatusPartialContent:
		return c.store(resp, paths, resumeFrom > 0)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("pdf download failed: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
}

func (c *Cache) store(resp *http.Response, paths cachePaths, appendPartial bool) (string, error) {
	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if appendPartial {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(paths.partial, flags, 0o644)
	if err != nil {
		return "", err
	}
	written, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return "", copyErr
	}
	if closeErr != nil {
		return "", closeErr
	}
	if err := os.Rename(paths.partial, paths.pdf); err != nil {
		return "", err
	}

	meta := cacheMeta{
		URL:          resp.Request.URL.String(),
		ETag:         resp.Header.Get("Etag"),
		LastModified: resp.Header.Get("Last-Modified"),
		CachedAt:     time.Now().UTC(),
	}
	if info, err := os.Stat(paths.pdf); err == nil {
		meta.Size = info.Size()
	}
	if err := writeMeta(paths.meta, meta); err != nil {
		return "", err
	}
	c.logger.Debug("pdf cached",
		zap.String("url", meta.URL),
		zap.Int64("bytes", written),
		zap.Bool("resumed", appendPartial),
	)
	return paths.pdf, nil
}

func (c *Cache) pathsFor(key string) cachePaths {
	base := filepath.Join(c.dir, key)
	return cachePaths{pdf: base + ".pdf", meta: base + metaSuffix, partial: base + partialSuffix}
}

// cacheKey prefers the arXiv identifier for readable file names.
func cacheKey(pdfURL string) string {
	if id := ExtractIdentifier(pdfURL); id != "" {
		return sanitizeKey(id)
	}
	sum := sha1.Sum([]byte(pdfURL))
	return hex.EncodeToString(sum[:])
}

var keyReplacer = strings.NewReplacer("/", "-", ":", "-", "..", "-")

func sanitizeKey(value string) string {
	return keyReplacer.Replace(strings.TrimSpace(value))
}

func setIfPresent(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}

func readMeta(path string) (cacheMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return cacheMeta{}, err
	}
	var meta cacheMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheMeta{}, err
	}
	return meta, nil
}

func writeMeta(path string, meta cacheMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
