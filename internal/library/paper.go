package library

import (
	"fmt"
	"strings"
)

// Status is the reading state assigned to a paper once it enters the library.
type Status string

const (
	StatusWantToRead Status = "want-to-read"
	StatusReading    Status = "reading"
	StatusRead       Status = "read"
)

// Statuses lists the valid statuses in display order.
var Statuses = []Status{StatusWantToRead, StatusReading, StatusRead}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusRead:
		return true
	default:
		return false
	}
}

// Label returns the human readable form used in bucket headings.
func (s Status) Label() string {
	switch s {
	case StatusWantToRead:
		return "Want to Read"
	case StatusReading:
		return "Currently Reading"
	case StatusRead:
		return "Read"
	default:
		return string(s)
	}
}

// ParseStatus accepts the canonical values plus a few loose spellings
// ("want to read", "WANT_TO_READ").
func ParseStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	normalized = strings.NewReplacer("_", "-", " ", "-").Replace(normalized)
	status := Status(normalized)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return status, nil
}

// Paper is the canonical paper record shared by the search session and the library.
type Paper struct {
	ID        string   `json:"id" yaml:"id"`
	Title     string   `json:"title" yaml:"title"`
	Authors   []string `json:"authors" yaml:"authors"`
	Abstract  string   `json:"abstract" yaml:"abstract"`
	Published string   `json:"published" yaml:"published"`
	Status    Status   `json:"status,omitempty" yaml:"status,omitempty"`
	DateAdded string   `json:"dateAdded,omitempty" yaml:"dateAdded,omitempty"`
}

// Clone returns a copy that does not share the authors slice.
func (p Paper) Clone() Paper {
	if p.Authors != nil {
		p.Authors = append([]string(nil), p.Authors...)
	}
	return p
}

// InLibrary reports whether the paper carries a library status.
func (p Paper) InLibrary() bool {
	return p.Status != ""
}
