package arxiv

import "testing"

func TestExtractIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"abs url", "https://arxiv.org/abs/2101.00001", "2101.00001"},
		{"pdf url", "https://arxiv.org/pdf/2205.12345.pdf", "2205.12345"},
		{"prefixed", "arXiv:2101.00001", "2101.00001"},
		{"bare", "2308.01234v2", "2308.01234v2"},
		{"bare pdf suffix", "2308.01234v2.pdf", "2308.01234v2"},
		{"invalid", "https://example.com/foo", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExtractIdentifier(tt.in); got != tt.want {
				t.Fatalf("ExtractIdentifier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLooksLikeIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"2101.00001", "2101.00001", true},
		{"2308.01234v2", "2308.01234v2", true},
		{"https://arxiv.org/abs/2101.00001", "2101.00001", true},
		{"arXiv:2101.00001", "2101.00001", true},
		{"transformers", "", false},
		{"graph neural networks", "", false},
		{"1.5", "", false},
	}
	for _, tt := range tests {
		got, ok := LooksLikeIdentifier(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("LooksLikeIdentifier(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
