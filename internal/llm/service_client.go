package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// serviceClient talks to the standalone summarization service, which takes
// raw text and returns a single summary string.
type serviceClient struct {
	base      string
	maxLength int
	minLength int
	client    *http.Client
}

type serviceRequest struct {
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
}

func (c *serviceClient) Name() string {
	return fmt.Sprintf("Summary service (%s)", c.base)
}

// Summarize sends content as-is; the service builds its own prompt, so the
// title is unused.
func (c *serviceClient) Summarize(ctx context.Context, _ string, content string) (string, error) {
	text := clipText(content, maxSummaryChars)
	if text == "" {
		return "", ErrEmptyContent
	}
	var parsed struct {
		Summary string `json:"summary"`
	}
	payload := serviceRequest{Text: text, MaxLength: c.maxLength, MinLength: c.minLength}
	if err := postJSON(ctx, c.client, "summary service", c.base+"/api/summarize", nil, payload, &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.Summary) == "" {
		return "", fmt.Errorf("summary service returned an empty summary")
	}
	return parsed.Summary, nil
}
