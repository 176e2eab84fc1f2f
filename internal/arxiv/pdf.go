package arxiv

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// DefaultPDFURL is the local proxy that serves arXiv PDFs by id.
	DefaultPDFURL = "http://localhost:8001/api/pdf/%s.pdf"
	// DefaultMaxPages bounds text extraction.
	DefaultMaxPages = 20
	// MinTextLength is the shortest extracted text worth summarizing.
	MinTextLength = 100
)

// ErrInsufficientText is returned when a PDF yields too little text.
var ErrInsufficientText = errors.New("insufficient text extracted from pdf")

// PDFURL fills template with id. The template must contain one %s; an empty
// template means DefaultPDFURL.
func PDFURL(template, id string) string {
	if template == "" {
		template = DefaultPDFURL
	}
	if !strings.Contains(template, "%s") {
		return strings.TrimRight(template, "/") + "/" + id + ".pdf"
	}
	return fmt.Sprintf(template, id)
}

// FetchText downloads pdfURL through the cache and returns the plain text of
// at most maxPages pages with whitespace collapsed.
func (c *Cache) FetchText(ctx context.Context, pdfURL string, maxPages int) (string, error) {
	path, err := c.Fetch(ctx, pdfURL)
	if err != nil {
		return "", err
	}
	text, err := extractText(path, maxPages)
	if err != nil {
		return "", err
	}
	return finishText(text)
}

func extractText(path string, maxPages int) (string, error) {
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	pages := reader.NumPage()
	if pages > maxPages {
		pages = maxPages
	}
	var b strings.Builder
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", i, err)
		}
		b.WriteString(content)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func finishText(raw string) (string, error) {
	text := normalizeWhitespace(raw)
	if len(text) < MinTextLength {
		return "", fmt.Errorf("%w: %d characters", ErrInsufficientText, len(text))
	}
	return text, nil
}
