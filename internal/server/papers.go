package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/llm"
	"github.com/csheth/paperlib/internal/view"
)

// PaperHandler serves the library.
type PaperHandler struct {
	Store      *library.Store
	Summarizer Summarizer
	Metrics    *Metrics
}

type upsertRequest struct {
	Paper  library.Paper `json:"paper"`
	Status string        `json:"status" binding:"required"`
}

type removeResponse struct {
	ID      string `json:"id"`
	Removed bool   `json:"removed"`
}

func (h *PaperHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/papers", h.List)
	rg.GET("/papers/:id", h.Get)
	rg.POST("/papers", h.Upsert)
	rg.DELETE("/papers/:id", h.Remove)
	rg.POST("/papers/:id/summary", h.Summarize)
	rg.GET("/buckets", h.Buckets)
}

// List answers GET /api/papers?q=&status= with the filtered projection.
func (h *PaperHandler) List(c *gin.Context) {
	status, err := view.ParseStatusFilter(c.Query("status"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	filter := view.Filter{Text: c.Query("q"), Status: status}
	papers := view.Project(h.Store.List(), filter)
	if papers == nil {
		papers = []library.Paper{}
	}
	c.JSON(http.StatusOK, gin.H{"data": papers})
}

func (h *PaperHandler) Get(c *gin.Context) {
	id := c.Param("id")
	paper, ok := h.Store.Get(id)
	if !ok {
		errorJSON(c, http.StatusNotFound, fmt.Errorf("paper %s not found", id))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": paper})
}

// Upsert adds the paper or moves it to a new status. New entries answer 201.
func (h *PaperHandler) Upsert(c *gin.Context) {
	var req upsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	status, err := library.ParseStatus(req.Status)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	paper, created, err := h.Store.Upsert(req.Paper, status)
	switch {
	case errors.Is(err, library.ErrInvalidID):
		errorJSON(c, http.StatusBadRequest, err)
		return
	case err != nil:
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusCreated
	}
	c.JSON(code, gin.H{"data": paper})
}

// Remove deletes an entry. Unknown ids are not an error; removed reports
// whether anything was stored.
func (h *PaperHandler) Remove(c *gin.Context) {
	id := c.Param("id")
	removed, err := h.Store.Delete(id)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": removeResponse{ID: id, Removed: removed}})
}

// Buckets answers GET /api/buckets with the unfiltered status groups.
func (h *PaperHandler) Buckets(c *gin.Context) {
	b := view.Bucketize(h.Store.List())
	for _, bucket := range []*[]library.Paper{&b.WantToRead, &b.Reading, &b.Read} {
		if *bucket == nil {
			*bucket = []library.Paper{}
		}
	}
	c.JSON(http.StatusOK, gin.H{"data": b})
}

// Summarize answers POST /api/papers/:id/summary[?full=true] for a library paper.
func (h *PaperHandler) Summarize(c *gin.Context) {
	if h.Summarizer == nil {
		errorJSON(c, http.StatusServiceUnavailable, errors.New("no summarizer configured"))
		return
	}
	id := c.Param("id")
	paper, ok := h.Store.Get(id)
	if !ok {
		errorJSON(c, http.StatusNotFound, fmt.Errorf("paper %s not found", id))
		return
	}
	full, _ := strconv.ParseBool(c.DefaultQuery("full", "false"))
	source := "abstract"
	if full {
		source = "full-text"
	}

	result, err := h.Summarizer.Summarize(c.Request.Context(), paper, full)
	switch {
	case errors.Is(err, llm.ErrEmptyContent):
		h.Metrics.summary(source, outcomeError)
		errorJSON(c, http.StatusUnprocessableEntity, err)
		return
	case err != nil:
		h.Metrics.summary(source, outcomeError)
		errorJSON(c, http.StatusBadGateway, err)
		return
	}
	h.Metrics.summary(source, outcomeOK)
	c.JSON(http.StatusOK, gin.H{"data": result})
}
