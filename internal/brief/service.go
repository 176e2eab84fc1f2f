// Package brief produces display-ready summaries of library papers.
package brief

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/csheth/paperlib/internal/arxiv"
	"github.com/csheth/paperlib/internal/library"
	"github.com/csheth/paperlib/internal/llm"
	"github.com/csheth/paperlib/internal/summary"
)

// Source names the text a summary was built from.
type Source string

const (
	SourceAbstract Source = "abstract"
	SourceFullText Source = "full-text"
)

// ErrNoFullText is returned for full-text requests when no PDF source is configured.
var ErrNoFullText = errors.New("full-text summaries need a PDF source")

// TextSource extracts plain text from a PDF URL. *arxiv.Cache satisfies it.
type TextSource interface {
	FetchText(ctx context.Context, pdfURL string, maxPages int) (string, error)
}

// Service wires the summarizer backend to the PDF text source.
type Service struct {
	LLM         llm.Client
	Texts       TextSource
	PDFTemplate string
	MaxPages    int
	Builder     *Builder
	Logger      *zap.Logger
}

// Brief is a processed summary.
type Brief struct {
	PaperID  string         `json:"paperId"`
	Source   Source         `json:"source"`
	Backend  string         `json:"backend"`
	Result   summary.Result `json:"result"`
	Duration time.Duration  `json:"duration"`
}

// Summarize summarizes paper from its abstract, or from the PDF when fullText
// is set.
func (s *Service) Summarize(ctx context.Context, paper library.Paper, fullText bool) (Brief, error) {
	if s.LLM == nil {
		return Brief{}, errors.New("no summarizer configured")
	}
	start := time.Now()
	source := SourceAbstract
	content := paper.Abstract
	if fullText {
		source = SourceFullText
		text, err := s.fullText(ctx, paper.ID)
		if err != nil {
			return Brief{}, err
		}
		content = text
	}
	if strings.TrimSpace(content) == "" {
		return Brief{}, llm.ErrEmptyContent
	}

	doc := s.builder().Build(content)
	raw, err := s.LLM.Summarize(ctx, paper.Title, doc.Text)
	if err != nil {
		return Brief{}, fmt.Errorf("summarize %s: %w", paper.ID, err)
	}
	b := Brief{
		PaperID:  paper.ID,
		Source:   source,
		Backend:  s.LLM.Name(),
		Result:   summary.Process(raw),
		Duration: time.Since(start),
	}
	s.logger().Info("summary ready",
		zap.String("paper", paper.ID),
		zap.String("source", string(source)),
		zap.String("backend", b.Backend),
		zap.Int("chunks", len(doc.Chunks)),
		zap.Bool("clipped", doc.Clipped),
		zap.Duration("duration", b.Duration),
	)
	return b, nil
}

func (s *Service) fullText(ctx context.Context, id string) (string, error) {
	if s.Texts == nil {
		return "", ErrNoFullText
	}
	text, err := s.Texts.FetchText(ctx, arxiv.PDFURL(s.PDFTemplate, id), s.MaxPages)
	if err != nil {
		return "", fmt.Errorf("full text for %s: %w", id, err)
	}
	return text, nil
}

func (s *Service) builder() *Builder {
	if s.Builder == nil {
		return NewBuilder(0)
	}
	return s.Builder
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
