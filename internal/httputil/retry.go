// Package httputil holds HTTP helpers shared by the remote clients.
package httputil

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// RetryBaseDelay is the first backoff after an HTTP 429. Each further attempt
// doubles it. Tests shrink it.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 4

// Retrier retries requests rejected with HTTP 429 using exponential backoff.
// The zero value uses the default retry count and discards log output.
type Retrier struct {
	MaxRetries int
	Logger     *zap.Logger
}

// Do executes req, retrying on 429. After the last retry the 429 response is
// returned as-is so the caller can report it. A cancelled context during a
// backoff returns ctx.Err().
func (r Retrier) Do(ctx context.Context, client *http.Client, req *http.Request) (*http.Response, error) {
	maxRetries := r.MaxRetries
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	logger := r.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if client == nil {
		client = http.DefaultClient
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		backoff := RetryBaseDelay << attempt
		logger.Warn("rate limited",
			zap.String("url", req.URL.Redacted()),
			zap.Duration("backoff", backoff),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
		)

		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// DoWithRetry is Retrier{MaxRetries: maxRetries}.Do.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	return Retrier{MaxRetries: maxRetries}.Do(ctx, client, req)
}
