package arxiv

import (
	"regexp"
	"strings"
)

var (
	idRegexp   = regexp.MustCompile(`(?i)arxiv\.org/(?:abs|pdf)/([0-9a-z.\-]+)(?:\.pdf)?`)
	bareRegexp = regexp.MustCompile(`^[0-9a-z.\-]+$`)
	modernID   = regexp.MustCompile(`^\d{4}\.\d{4,5}(?:v\d+)?$`)
)

// ExtractIdentifier accepts an abs or pdf URL, an "arXiv:" prefixed id, or a
// bare id, and returns the identifier. It returns "" when nothing matches.
func ExtractIdentifier(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return ""
	}
	if strings.HasSuffix(strings.ToLower(input), ".pdf") {
		input = input[:len(input)-len(".pdf")]
	}
	if m := idRegexp.FindStringSubmatch(input); len(m) > 1 {
		return m[1]
	}
	if len(input) >= len("arxiv:") && strings.EqualFold(input[:len("arxiv:")], "arxiv:") {
		input = strings.TrimSpace(input[len("arxiv:"):])
	}
	if bareRegexp.MatchString(input) {
		return input
	}
	return ""
}

// LooksLikeIdentifier reports whether input names a single paper rather than
// a free-text query: an arXiv URL, an "arXiv:" reference or a modern id such
// as 2101.00001v2. Single words like "transformers" are queries.
func LooksLikeIdentifier(input string) (string, bool) {
	id := ExtractIdentifier(input)
	if id == "" {
		return "", false
	}
	if modernID.MatchString(id) || strings.Contains(strings.ToLower(input), "arxiv") {
		return id, true
	}
	return "", false
}
