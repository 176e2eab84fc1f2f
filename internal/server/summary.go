package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/csheth/paperlib/internal/summary"
)

// SummaryHandler post-processes summarizer output for clients that call the
// summarizer themselves.
type SummaryHandler struct{}

type cleanRequest struct {
	Text string `json:"text"`
}

type cleanResponse struct {
	Summary  string            `json:"summary"`
	Sections summary.Sections  `json:"sections"`
	Segments []summary.Segment `json:"segments"`
}

func (h *SummaryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/summary/clean", h.Clean)
}

// Clean answers POST /api/summary/clean {text}.
func (h *SummaryHandler) Clean(c *gin.Context) {
	var req cleanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		errorJSON(c, http.StatusBadRequest, errors.New("text is required"))
		return
	}
	result := summary.Process(req.Text)
	c.JSON(http.StatusOK, cleanResponse{
		Summary:  result.Cleaned,
		Sections: result.Sections,
		Segments: summary.SplitMath(result.Cleaned),
	})
}
