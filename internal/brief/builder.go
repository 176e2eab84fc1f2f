package brief

import (
	"crypto/sha1"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode"
)

// DefaultBudget bounds the prepared text in runes. The summarizer clips again
// on its side; this keeps full-text requests small enough for the service.
const DefaultBudget = 24_000

var (
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
	spaceRun       = regexp.MustCompile(`\s+`)
)

// Chunk is one kept paragraph of the source text.
type Chunk struct {
	ID   string
	Text string
}

// Document is source text after preparation.
type Document struct {
	Text   string
	Chunks []Chunk
	// Clipped is set when the budget cut the text short.
	Clipped bool
}

// Builder turns extracted paper text into summarizer input: it drops headings
// and front matter, removes repeated paragraphs and stops at the budget.
type Builder struct {
	Budget int
}

// NewBuilder returns a Builder; a non-positive budget uses DefaultBudget.
func NewBuilder(budget int) *Builder {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Builder{Budget: budget}
}

// Build prepares content. Text without paragraph breaks is kept as one chunk.
func (b *Builder) Build(content string) Document {
	content = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(content)

	var doc Document
	seen := map[string]bool{}
	for _, paragraph := range paragraphBreak.Split(content, -1) {
		text := strings.TrimSpace(spaceRun.ReplaceAllString(paragraph, " "))
		if text == "" || isFrontMatter(text) {
			continue
		}
		id := chunkID(strings.ToLower(text))
		if seen[id] {
			continue
		}
		seen[id] = true
		doc.Chunks = append(doc.Chunks, Chunk{ID: id, Text: text})
	}
	doc.Text, doc.Clipped = join(doc.Chunks, b.Budget)
	return doc
}

func isFrontMatter(paragraph string) bool {
	lower := strings.ToLower(paragraph)
	for _, heading := range []string{"abstract", "introduction", "keywords", "contents"} {
		if lower == heading {
			return true
		}
	}
	for _, prefix := range []string{"references", "acknowledg", "copyright", "arxiv:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	if strings.Contains(lower, "doi:") || strings.Contains(lower, "creative commons") {
		return true
	}
	// Page numbers, lone tokens and symbol soup from figures.
	if !strings.Contains(lower, " ") && len(lower) <= 12 {
		return true
	}
	letters := 0
	for _, r := range lower {
		if unicode.IsLetter(r) {
			letters++
		}
	}
	return letters*5 < len(lower)
}

func chunkID(text string) string {
	sum := sha1.Sum([]byte(text))
	return hex.EncodeToString(sum[:8])
}

func join(chunks []Chunk, budget int) (string, bool) {
	var out strings.Builder
	remaining := budget
	for _, chunk := range chunks {
		sep := 0
		if out.Len() > 0 {
			sep = 2
		}
		runes := []rune(chunk.Text)
		if len(runes)+sep > remaining {
			if room := remaining - sep; room > 0 {
				if sep > 0 {
					out.WriteString("\n\n")
				}
				out.WriteString(string(runes[:room]))
			}
			return out.String(), true
		}
		if sep > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(chunk.Text)
		remaining -= len(runes) + sep
	}
	return out.String(), false
}
