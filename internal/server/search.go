package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/session"
)

// SearchHandler runs arXiv searches into the shared search session.
type SearchHandler struct {
	Searcher   Searcher
	Session    *session.Session
	Metrics    *Metrics
	Logger     *zap.Logger
	MaxResults int
}

type searchResponse struct {
	Query   string          `json:"query"`
	Results []library.Paper `json:"results"`
}

func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/search", h.Search)
	rg.GET("/search/results", h.Results)
	rg.DELETE("/search", h.Clear)
}

// Search answers GET /api/search?q=. An empty query clears the session. A
// response overtaken by a newer search is discarded and answered with 409.
func (h *SearchHandler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		h.Session.Clear()
		c.JSON(http.StatusOK, gin.H{"data": searchResponse{Results: []library.Paper{}}})
		return
	}
	if h.Searcher == nil {
		errorJSON(c, http.StatusServiceUnavailable, errors.New("search is not configured"))
		return
	}

	ticket := h.Session.Begin(query)
	records, err := h.Searcher.Search(c.Request.Context(), query, h.MaxResults)
	if err != nil {
		h.Session.Fail(ticket)
		h.Metrics.search(outcomeError)
		errorJSON(c, http.StatusBadGateway, err)
		return
	}
	for _, record := range records {
		if !record.Valid() {
			h.Logger.Warn("skipping search result without id", zap.String("title", record.Paper.Title))
		} else if len(record.Missing) > 0 {
			h.Logger.Debug("search result with missing fields",
				zap.String("id", record.Paper.ID),
				zap.Any("missing", record.Missing))
		}
	}
	papers := arxiv.Papers(records)
	if !h.Session.Apply(ticket, papers) {
		h.Metrics.search(outcomeStale)
		errorJSON(c, http.StatusConflict, errors.New("search superseded by a newer query"))
		return
	}
	h.Metrics.search(outcomeOK)
	c.JSON(http.StatusOK, gin.H{"data": searchResponse{Query: query, Results: papers}})
}

// Results answers GET /api/search/results with the current session.
func (h *SearchHandler) Results(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.current()})
}

func (h *SearchHandler) Clear(c *gin.Context) {
	h.Session.Clear()
	c.Status(http.StatusNoContent)
}

func (h *SearchHandler) current() searchResponse {
	results := h.Session.Results()
	if results == nil {
		results = []library.Paper{}
	}
	return searchResponse{Query: h.Session.Query(), Results: results}
}
