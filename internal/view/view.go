// Package view derives the display buckets of the library without mutating it.
package view

import (
	"sort"
	"strings"

	"github.com/csheth/paperlib/internal/library"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Filter holds the active "your papers" filters. Both are ANDed.
type Filter struct {
	// Text is matched case-insensitively against title, abstract and authors.
	Text string
	// Status is an exact status value, or "all"/"" for every status.
	Status string
}

// ParseStatusFilter turns user input into a Filter.Status value. Empty
// input and any casing of "all" give StatusAll; anything else must name a
// status and comes back in its canonical spelling.
func ParseStatusFilter(raw string) (string, error) {
	if passesAll(strings.TrimSpace(raw)) {
		return StatusAll, nil
	}
	status, err := library.ParseStatus(raw)
	if err != nil {
		return "", err
	}
	return string(status), nil
}

// Active reports whether the filter narrows the library at all.
func (f Filter) Active() bool {
	return !passesAll(f.Text) || !passesAll(f.Status)
}

// Buckets groups library entries by status for unfiltered display.
type Buckets struct {
	WantToRead []library.Paper `json:"wantToRead" yaml:"wantToRead"`
	Reading    []library.Paper `json:"reading" yaml:"reading"`
	Read       []library.Paper `json:"read" yaml:"read"`
}

// For returns the bucket holding status.
func (b Buckets) For(status library.Status) []library.Paper {
	switch status {
	case library.StatusWantToRead:
		return b.WantToRead
	case library.StatusReading:
		return b.Reading
	case library.StatusRead:
		return b.Read
	default:
		return nil
	}
}

// Len counts the entries across all buckets.
func (b Buckets) Len() int {
	return len(b.WantToRead) + len(b.Reading) + len(b.Read)
}

// Project returns the papers matching f, most recently added first.
func Project(papers []library.Paper, f Filter) []library.Paper {
	needle := strings.ToLower(strings.TrimSpace(f.Text))
	if passesAll(needle) {
		needle = ""
	}
	status := strings.TrimSpace(f.Status)
	if passesAll(status) {
		status = ""
	}

	result := make([]library.Paper, 0, len(papers))
	for _, paper := range papers {
		if status != "" && string(paper.Status) != status {
			continue
		}
		if needle != "" && !MatchesText(paper, needle) {
			continue
		}
		result = append(result, paper.Clone())
	}
	SortByDateAdded(result)
	return result
}

// Bucketize splits papers into the three status buckets, each ordered by
// dateAdded descending. Entries without a known status are left out.
func Bucketize(papers []library.Paper) Buckets {
	var b Buckets
	for _, paper := range papers {
		switch paper.Status {
		case library.StatusWantToRead:
			b.WantToRead = append(b.WantToRead, paper.Clone())
		case library.StatusReading:
			b.Reading = append(b.Reading, paper.Clone())
		case library.StatusRead:
			b.Read = append(b.Read, paper.Clone())
		}
	}
	SortByDateAdded(b.WantToRead)
	SortByDateAdded(b.Reading)
	SortByDateAdded(b.Read)
	return b
}

// MatchesText reports whether the lowercase needle occurs in the title,
// abstract or any author name of paper.
func MatchesText(paper library.Paper, needle string) bool {
	if strings.Contains(strings.ToLower(paper.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(paper.Abstract), needle) {
		return true
	}
	for _, author := range paper.Authors {
		if strings.Contains(strings.ToLower(author), needle) {
			return true
		}
	}
	return false
}

// SortByDateAdded orders papers by dateAdded descending using plain string
// comparison; a missing date compares as "" and therefore sorts last.
func SortByDateAdded(papers []library.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		return papers[i].DateAdded > papers[j].DateAdded
	})
}

func passesAll(value string) bool {
	return value == "" || strings.EqualFold(value, StatusAll)
}
