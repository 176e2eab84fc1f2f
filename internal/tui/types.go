package tui

import "time"

type tab int

const (
	tabSearch tab = iota
	tabLibrary
)

func (t tab) label() string {
	if t == tabLibrary {
		return "Your Papers"
	}
	return "Search arXiv"
}

type focus int

const (
	focusList focus = iota
	focusQuery
	focusFilter
)

const heroTagline = "Search arXiv, keep a reading list, summarize what you read."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	noticeLifetime            = 4 * time.Second
)

const (
	searchTimeout  = 35 * time.Second
	summaryTimeout = 5 * time.Minute
)

const (
	queryPlaceholder  = "Search arXiv, or paste an arXiv URL or id…"
	filterPlaceholder = "Filter by title, abstract or author…"
)
