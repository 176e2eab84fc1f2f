package arxiv

import (
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/csheth/paperlib/internal/library"
)

// absMarker precedes the identifier in an entry's canonical URL.
const absMarker = "/abs/"

// Field names a Paper attribute that may be absent from a feed entry.
type Field string

const (
	FieldID        Field = "id"
	FieldTitle     Field = "title"
	FieldAuthors   Field = "authors"
	FieldAbstract  Field = "abstract"
	FieldPublished Field = "published"
)

// Record is a normalized feed entry. Missing lists the fields that were
// absent or blank and have been defaulted to their zero value.
type Record struct {
	Paper   library.Paper
	Missing []Field
}

// Valid reports whether the record can be stored in the library.
func (r Record) Valid() bool {
	return r.Paper.ID != ""
}

// Lacks reports whether f was defaulted.
func (r Record) Lacks(f Field) bool {
	for _, m := range r.Missing {
		if m == f {
			return true
		}
	}
	return false
}

// Entry is one <entry> of an Atom response.
type Entry struct {
	ID        string   `xml:"id"`
	Title     string   `xml:"title"`
	Summary   string   `xml:"summary"`
	Published string   `xml:"published"`
	Authors   []Author `xml:"author"`
}

type Author struct {
	Name string `xml:"name"`
}

type feed struct {
	Entries []Entry `xml:"entry"`
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// ParseFeed decodes an Atom feed into records in provider order.
func ParseFeed(r io.Reader) ([]Record, error) {
	var f feed
	if err := xml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode arxiv feed: %w", err)
	}
	records := make([]Record, 0, len(f.Entries))
	for _, e := range f.Entries {
		records = append(records, ParseEntry(e))
	}
	return records, nil
}

// ParseEntry normalizes a single entry.
func ParseEntry(e Entry) Record {
	var rec Record
	missing := func(f Field, value string) string {
		if value == "" {
			rec.Missing = append(rec.Missing, f)
		}
		return value
	}

	rec.Paper.ID = missing(FieldID, IDFromURL(e.ID))
	rec.Paper.Title = missing(FieldTitle, normalizeWhitespace(e.Title))

	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) == 0 {
		rec.Missing = append(rec.Missing, FieldAuthors)
	}
	rec.Paper.Authors = authors

	rec.Paper.Abstract = missing(FieldAbstract, normalizeWhitespace(e.Summary))
	rec.Paper.Published = missing(FieldPublished, strings.TrimSpace(e.Published))
	return rec
}

// IDFromURL returns the path between the first /abs/ marker of an entry URL
// and the next one, or "" when the marker is absent.
func IDFromURL(raw string) string {
	_, rest, found := strings.Cut(strings.TrimSpace(raw), absMarker)
	if !found {
		return ""
	}
	id, _, _ := strings.Cut(rest, absMarker)
	return id
}

// Papers drops invalid records and returns the rest as papers.
func Papers(records []Record) []library.Paper {
	out := make([]library.Paper, 0, len(records))
	for _, r := range records {
		if r.Valid() {
			out = append(out, r.Paper)
		}
	}
	return out
}

func normalizeWhitespace(s string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}
