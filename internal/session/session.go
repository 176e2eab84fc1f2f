// Package session holds the results of the most recent search.
//
// Results are never persisted and never deduplicated against the library.
// Every search takes a Ticket; only the response for the newest ticket may
// replace the session, so a slow earlier response cannot overwrite a later one.
package session

import (
	"sync"

	"github.com/csheth/paperlib/internal/library"
)

// Ticket identifies one search request.
type Ticket struct {
	Seq   uint64
	Query string
}

// Session is safe for concurrent use.
type Session struct {
	mu      sync.RWMutex
	seq     uint64
	query   string
	results []library.Paper
	pending bool
}

// New returns an empty session.
func New() *Session {
	return &Session{}
}

// Begin issues a ticket for query. Any earlier outstanding ticket becomes stale.
func (s *Session) Begin(query string) Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.pending = true
	return Ticket{Seq: s.seq, Query: query}
}

// Current reports whether t is the latest ticket issued.
func (s *Session) Current(t Ticket) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return t.Seq == s.seq
}

// Apply replaces the results when t is still current. It reports whether
// the results were accepted.
func (s *Session) Apply(t Ticket, results []library.Paper) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Seq != s.seq {
		return false
	}
	s.pending = false
	s.query = t.Query
	s.results = cloneAll(results)
	return true
}

// Fail marks the ticket's request finished without touching the results.
// Stale tickets are ignored.
func (s *Session) Fail(t Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.Seq != s.seq {
		return false
	}
	s.pending = false
	return true
}

// SetResults replaces the session wholesale and invalidates outstanding tickets.
func (s *Session) SetResults(results []library.Paper) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.pending = false
	s.results = cloneAll(results)
}

// Clear empties the session and invalidates outstanding tickets.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.pending = false
	s.query = ""
	s.results = nil
}

// Results returns a copy of the current results.
func (s *Session) Results() []library.Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.results)
}

// Query returns the query whose results are held.
func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

// Pending reports whether the latest ticket is still waiting for a response.
func (s *Session) Pending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Len returns the number of held results.
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.results)
}

func cloneAll(papers []library.Paper) []library.Paper {
	if len(papers) == 0 {
		return nil
	}
	out := make([]library.Paper, len(papers))
	for i, p := range papers {
		// Search results never carry library state.
		p.Status = ""
		p.DateAdded = ""
		out[i] = p.Clone()
	}
	return out
}
