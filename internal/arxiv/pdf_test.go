package arxiv

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPDFURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		template, id, want string
	}{
		{"", "2101.00001", "http://localhost:8001/api/pdf/2101.00001.pdf"},
		{"https://arxiv.org/pdf/%s.pdf", "2101.00001", "https://arxiv.org/pdf/2101.00001.pdf"},
		{"http://proxy/pdfs/", "x", "http://proxy/pdfs/x.pdf"},
	}
	for _, tt := range tests {
		if got := PDFURL(tt.template, tt.id); got != tt.want {
			t.Errorf("PDFURL(%q, %q) = %q, want %q", tt.template, tt.id, got, tt.want)
		}
	}
}

func TestFinishText(t *testing.T) {
	t.Parallel()

	if _, err := finishText("  too\n short  "); !errors.Is(err, ErrInsufficientText) {
		t.Fatalf("expected ErrInsufficientText, got %v", err)
	}

	long := strings.Repeat("word\n\t ", 40)
	got, err := finishText(long)
	if err != nil {
		t.Fatalf("finishText: %v", err)
	}
	if strings.ContainsAny(got, "\n\t") || strings.Contains(got, "  ") {
		t.Fatalf("whitespace not collapsed: %q", got)
	}
	if strings.HasSuffix(got, " ") {
		t.Fatalf("text not trimmed: %q", got)
	}
}

func TestFetchTextRejectsNonPDF(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not a pdf</html>"))
	}))
	t.Cleanup(server.Close)

	cache := newTestCache(t, server)
	if _, err := cache.FetchText(context.Background(), server.URL+"/api/pdf/2101.00001.pdf", 0); err == nil {
		t.Fatal("expected error for non-pdf body")
	}
}
