// Package server exposes the library over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/brief"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/session"
)

// Searcher runs arXiv searches. *arxiv.Client satisfies it.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]arxiv.Record, error)
}

// Summarizer produces paper summaries. *brief.Service satisfies it.
type Summarizer interface {
	Summarize(ctx context.Context, paper library.Paper, fullText bool) (brief.Brief, error)
}

// Options carries the server dependencies. Store and Session are required.
// Without a Searcher the search route answers 503, likewise the summary
// route without a Summarizer.
type Options struct {
	Store      *library.Store
	Session    *session.Session
	Searcher   Searcher
	Summarizer Summarizer
	Metrics    *Metrics
	Logger     *zap.Logger
	MaxResults int
	// APIKey, when set, is required in the X-API-KEY header.
	APIKey string
}

// New builds the router.
func New(opts Options) (*gin.Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("server: store is required")
	}
	if opts.Session == nil {
		return nil, errors.New("server: session is required")
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MaxResults <= 0 {
		opts.MaxResults = arxiv.DefaultMaxResults
	}

	router := gin.New()
	// Old-style ids contain a slash and arrive escaped (hep-th%2F9901001).
	router.UseRawPath = true
	router.Use(gin.Recovery())
	router.Use(requestLogger(opts.Logger))
	router.Use(cors())

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
	})
	router.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	router.GET("/api/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "ok"})
	})

	api := router.Group("/api")
	api.Use(apiKeyAuth(opts.APIKey))

	papers := PaperHandler{Store: opts.Store, Summarizer: opts.Summarizer, Metrics: opts.Metrics}
	papers.RegisterRoutes(api)

	search := SearchHandler{
		Searcher:   opts.Searcher,
		Session:    opts.Session,
		Metrics:    opts.Metrics,
		Logger:     opts.Logger,
		MaxResults: opts.MaxResults,
	}
	search.RegisterRoutes(api)

	summaries := SummaryHandler{}
	summaries.RegisterRoutes(api)

	return router, nil
}

// NewHTTPServer wraps handler with the timeouts used by `paperlib serve`.
func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// Full-text summaries can take minutes.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}
}

func apiKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized: invalid API key"})
			return
		}
		c.Next()
	}
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-API-KEY")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		logger.Info("request", fields...)
	}
}

func errorJSON(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": err.Error()})
}
