package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestServiceClientSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/summarize" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var payload serviceRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload.Text != "We propose a method." || payload.MaxLength != 350 || payload.MinLength != 64 {
			t.Errorf("unexpected payload %+v", payload)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"summary":"A method is proposed @xcite ."}`))
	}))
	defer server.Close()

	client, err := New(Config{Endpoint: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := client.Summarize(context.Background(), "Title", "  We propose a method.  ")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if got != "A method is proposed @xcite ." {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestServiceClientNon2xxIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Failed to generate summary."}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	client := &serviceClient{base: server.URL, maxLength: 350, minLength: 64, client: server.Client()}
	_, err := client.Summarize(context.Background(), "", "content")
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestEmptyContentRejectedBeforeRequest(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	clients := []Client{
		&serviceClient{base: server.URL, client: server.Client()},
		&ollamaClient{host: server.URL, model: "m", client: server.Client()},
		&openAIClient{base: server.URL, model: "m", apiKey: "k", client: server.Client()},
	}
	for _, c := range clients {
		if _, err := c.Summarize(context.Background(), "T", " \n "); !errors.Is(err, ErrEmptyContent) {
			t.Fatalf("%s: expected ErrEmptyContent, got %v", c.Name(), err)
		}
	}
	if n := atomic.LoadInt32(&calls); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestOllamaClientSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var payload ollamaRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		if payload.Model != "mistral:7b" {
			t.Errorf("expected model mistral:7b, got %s", payload.Model)
		}
		if !strings.Contains(payload.Prompt, "Paper title: Cool Paper") || !strings.Contains(payload.Prompt, "**Main Points**") {
			t.Errorf("prompt missing title or section markers: %s", payload.Prompt)
		}
		if payload.Stream {
			t.Error("expected streaming to be disabled")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"response":"  ### 🔷 **Conclusion** Works.  ","done":true}`))
	}))
	defer server.Close()

	client := &ollamaClient{host: server.URL, model: "mistral:7b", client: server.Client()}
	result, err := client.Summarize(context.Background(), "Cool Paper", "This is the PDF content.")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if result != "### 🔷 **Conclusion** Works." {
		t.Fatalf("unexpected summarize result: %q", result)
	}
}

func TestOpenAIClientSummarize(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("unexpected auth header %q", got)
		}
		var payload chatRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if len(payload.Messages) != 2 || payload.Messages[1].Role != "user" {
			t.Errorf("unexpected messages %+v", payload.Messages)
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":" Summary. "}}]}`))
	}))
	defer server.Close()

	client := &openAIClient{base: server.URL, model: "gpt", apiKey: "sk-test", client: server.Client()}
	got, err := client.Summarize(context.Background(), "T", "content")
	if err != nil {
		t.Fatalf("summarize failed: %v", err)
	}
	if got != "Summary." {
		t.Fatalf("unexpected result %q", got)
	}
}
