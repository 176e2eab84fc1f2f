package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type ollamaClient struct {
	host   string
	model  string
	client *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

func (c *ollamaClient) Name() string {
	return fmt.Sprintf("Ollama (%s)", c.model)
}

func (c *ollamaClient) Summarize(ctx context.Context, title, content string) (string, error) {
	text := clipText(content, maxSummaryChars)
	if text == "" {
		return "", ErrEmptyContent
	}
	var parsed struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
	}
	payload := ollamaRequest{Model: c.model, Prompt: buildSummaryPrompt(title, text)}
	if err := postJSON(ctx, c.client, "ollama", c.host+"/api/generate", nil, payload, &parsed); err != nil {
		return "", err
	}
	if strings.TrimSpace(parsed.Response) == "" {
		return "", fmt.Errorf("ollama returned an empty response")
	}
	return strings.TrimSpace(parsed.Response), nil
}
