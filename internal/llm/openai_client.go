package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

type openAIClient struct {
	apiKey string
	model  string
	base   string
	client *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

func (c *openAIClient) Name() string {
	return fmt.Sprintf("OpenAI (%s)", c.model)
}

func (c *openAIClient) Summarize(ctx context.Context, title, content string) (string, error) {
	text := clipText(content, maxSummaryChars)
	if text == "" {
		return "", ErrEmptyContent
	}
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a concise research assistant."},
			{Role: "user", Content: buildSummaryPrompt(title, text)},
		},
		Temperature: 0.2,
	}
	var parsed struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	header := http.Header{"Authorization": {"Bearer " + c.apiKey}}
	if err := postJSON(ctx, c.client, "openai", c.base+"/chat/completions", header, payload, &parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai API returned no choices")
	}
	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
