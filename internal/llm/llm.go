// Package llm provides the summarization backends.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// Backend names accepted by New.
const (
	BackendService = "service"
	BackendOllama  = "ollama"
	BackendOpenAI  = "openai"
)

const (
	DefaultServiceEndpoint = "http://localhost:8001"
	DefaultOllamaEndpoint  = "http://localhost:11434"
	DefaultOpenAIEndpoint  = "https://api.openai.com/v1"

	defaultOllamaModel = "mistral:latest"
	defaultOpenAIModel = "gpt-4o-mini"

	// DefaultMaxLength and DefaultMinLength bound the service summary length.
	DefaultMaxLength = 350
	DefaultMinLength = 64

	// Prompts are clipped well below the context window of the default models
	// (roughly 4 chars/token).
	maxSummaryChars = 48_000
)

const defaultLLMHTTPTimeout = 3 * time.Minute

// ErrEmptyContent is returned before any request when there is nothing to summarize.
var ErrEmptyContent = errors.New("paper text empty; cannot summarize")

// Config describes how to build a Client.
type Config struct {
	Backend    string
	Endpoint   string
	Model      string
	APIKey     string
	MaxLength  int
	MinLength  int
	HTTPClient *http.Client
}

// Client summarizes paper text.
type Client interface {
	Summarize(ctx context.Context, title, content string) (string, error)
	Name() string
}

// New builds the client for cfg.Backend, defaulting to the summarization
// service. Ollama and OpenAI settings fall back to OLLAMA_HOST, OLLAMA_MODEL
// and OPENAI_API_KEY.
func New(cfg Config) (Client, error) {
	httpClient := pickHTTPClient(cfg.HTTPClient)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendService:
		maxLen, minLen := cfg.MaxLength, cfg.MinLength
		if maxLen <= 0 {
			maxLen = DefaultMaxLength
		}
		if minLen <= 0 {
			minLen = DefaultMinLength
		}
		if minLen > maxLen {
			return nil, fmt.Errorf("summary min length %d exceeds max length %d", minLen, maxLen)
		}
		return &serviceClient{
			base:      firstNonEmpty(cfg.Endpoint, DefaultServiceEndpoint),
			maxLength: maxLen,
			minLength: minLen,
			client:    httpClient,
		}, nil
	case BackendOllama:
		return &ollamaClient{
			host:   firstNonEmpty(cfg.Endpoint, os.Getenv("OLLAMA_HOST"), DefaultOllamaEndpoint),
			model:  firstNonEmpty(cfg.Model, os.Getenv("OLLAMA_MODEL"), defaultOllamaModel),
			client: httpClient,
		}, nil
	case BackendOpenAI:
		key := firstNonEmpty(cfg.APIKey, os.Getenv("OPENAI_API_KEY"))
		if key == "" {
			return nil, errors.New("openai backend requires an API key")
		}
		return &openAIClient{
			apiKey: key,
			model:  firstNonEmpty(cfg.Model, defaultOpenAIModel),
			base:   firstNonEmpty(cfg.Endpoint, DefaultOpenAIEndpoint),
			client: httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unknown summarizer backend %q", cfg.Backend)
	}
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Generation often takes over a minute; callers cancel through ctx.
	return &http.Client{Timeout: defaultLLMHTTPTimeout}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return strings.TrimRight(v, "/")
		}
	}
	return ""
}
