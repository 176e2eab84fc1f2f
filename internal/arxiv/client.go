// Package arxiv talks to the arXiv Atom API and retrieves paper PDFs.
package arxiv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/httputil"
)

const (
	DefaultBaseURL    = "https://export.arxiv.org/api/query"
	DefaultMaxResults = 10
	defaultUserAgent  = "paperlib/1.0 (+https://github.com/csheth/paperlib)"
	defaultTimeout    = 15 * time.Second
)

// ErrNotFound is returned by Lookup when the feed has no entry for the id.
var ErrNotFound = errors.New("paper not found")

// Client queries the arXiv API. The zero value is usable.
type Client struct {
	BaseURL    string
	HTTP       *http.Client
	UserAgent  string
	MaxRetries int
	Logger     *zap.Logger
}

// NewClient returns a client for baseURL, or the public API when empty.
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: defaultTimeout},
		Logger:  logger,
	}
}

// Search runs a keyword query across all fields and returns up to
// maxResults records (DefaultMaxResults when <= 0).
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Record, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("search query is empty")
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	endpoint := fmt.Sprintf("%s?search_query=all:%s&start=0&max_results=%d",
		c.baseURL(), url.QueryEscape(query), maxResults)

	records, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("arxiv search %q: %w", query, err)
	}
	return records, nil
}

// Lookup fetches a single paper by URL or identifier.
func (c *Client) Lookup(ctx context.Context, input string) (Record, error) {
	id := ExtractIdentifier(input)
	if id == "" {
		return Record{}, fmt.Errorf("unable to extract arXiv identifier from %q", input)
	}
	endpoint := fmt.Sprintf("%s?id_list=%s", c.baseURL(), url.QueryEscape(id))
	records, err := c.get(ctx, endpoint)
	if err != nil {
		return Record{}, fmt.Errorf("arxiv lookup %s: %w", id, err)
	}
	for _, r := range records {
		if r.Valid() {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("arxiv lookup %s: %w", id, ErrNotFound)
}

func (c *Client) get(ctx context.Context, endpoint string) ([]Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	ua := c.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	req.Header.Set("User-Agent", ua)

	retrier := httputil.Retrier{MaxRetries: c.MaxRetries, Logger: c.Logger}
	resp, err := retrier.Do(ctx, c.httpClient(), req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("arxiv API error: %s (%s)", resp.Status, strings.TrimSpace(string(body)))
	}
	return ParseFeed(resp.Body)
}

func (c *Client) baseURL() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(c.BaseURL, "?")
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP == nil {
		return &http.Client{Timeout: defaultTimeout}
	}
	return c.HTTP
}
