package library

import (
	"fmt"
	"sync"
	"time"
)

// Repository loads and saves whole library snapshots.
type Repository interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}

// Option customizes a Store.
type Option func(*Store)

// WithClock overrides the time source used for dateAdded.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithNotifier registers a receiver of mutation notifications. It may be
// given more than once.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifiers = append(s.notifiers, n) }
}

// Store owns the mapping from paper id to its library entry. Every mutation
// writes a full snapshot through the repository before it becomes visible.
type Store struct {
	mu        sync.RWMutex
	repo      Repository
	papers    []Paper
	index     map[string]int
	now       func() time.Time
	notifiers Notifiers
}

// Open hydrates a Store from repo.
func Open(repo Repository, opts ...Option) (*Store, error) {
	s := &Store{
		repo:  repo,
		index: map[string]int{},
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snapshot, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	for _, paper := range snapshot.Papers {
		if paper.ID == "" {
			continue
		}
		if idx, ok := s.index[paper.ID]; ok {
			s.papers[idx] = paper.Clone()
			continue
		}
		s.index[paper.ID] = len(s.papers)
		s.papers = append(s.papers, paper.Clone())
	}
	return s, nil
}

// AddOrUpdate inserts paper with the given status, or replaces the stored
// entry while keeping its original dateAdded.
func (s *Store) AddOrUpdate(paper Paper, status Status) (Paper, error) {
	entry, _, err := s.Upsert(paper, status)
	return entry, err
}

// Upsert is AddOrUpdate that also reports whether the entry was new. The
// answer is decided under the same lock as the write.
func (s *Store) Upsert(paper Paper, status Status) (Paper, bool, error) {
	if paper.ID == "" {
		return Paper{}, false, ErrInvalidID
	}
	if !status.Valid() {
		return Paper{}, false, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	s.mu.Lock()
	entry := paper.Clone()
	entry.Status = status
	next := append([]Paper(nil), s.papers...)
	idx, exists := s.index[paper.ID]
	if exists {
		entry.DateAdded = s.papers[idx].DateAdded
		next[idx] = entry
	} else {
		entry.DateAdded = s.now().UTC().Format(time.RFC3339)
		next = append(next, entry)
	}
	if err := s.repo.Save(Snapshot{Version: CurrentVersion, Papers: next}); err != nil {
		s.mu.Unlock()
		return Paper{}, false, fmt.Errorf("save library: %w", err)
	}
	s.papers = next
	if !exists {
		s.index[entry.ID] = len(next) - 1
	}
	s.mu.Unlock()

	kind := NotifyAdded
	if exists {
		kind = NotifyUpdated
	}
	s.notifiers.Notify(Notification{Kind: kind, PaperID: entry.ID, Title: entry.Title, Status: status})
	return entry.Clone(), !exists, nil
}

// Remove deletes the entry for id. Unknown ids leave the library unchanged.
func (s *Store) Remove(id string) error {
	_, err := s.Delete(id)
	return err
}

// Delete is Remove that also reports whether id was stored.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	next := make([]Paper, 0, len(s.papers))
	var removed *Paper
	for i := range s.papers {
		if s.papers[i].ID == id {
			p := s.papers[i]
			removed = &p
			continue
		}
		next = append(next, s.papers[i])
	}
	if err := s.repo.Save(Snapshot{Version: CurrentVersion, Papers: next}); err != nil {
		s.mu.Unlock()
		return false, fmt.Errorf("save library: %w", err)
	}
	s.papers = next
	s.reindex()
	s.mu.Unlock()

	note := Notification{Kind: NotifyRemoved, PaperID: id, Missing: removed == nil}
	if removed != nil {
		note.Title = removed.Title
		note.Status = removed.Status
	}
	s.notifiers.Notify(note)
	return removed != nil, nil
}

// LoadAll returns the current mapping from id to paper.
func (s *Store) LoadAll() map[string]Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]Paper, len(s.papers))
	for _, paper := range s.papers {
		result[paper.ID] = paper.Clone()
	}
	return result
}

// List returns the entries in insertion order.
func (s *Store) List() []Paper {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Paper, len(s.papers))
	for i, paper := range s.papers {
		result[i] = paper.Clone()
	}
	return result
}

// Get returns the stored entry for id.
func (s *Store) Get(id string) (Paper, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, ok := s.index[id]
	if !ok {
		return Paper{}, false
	}
	return s.papers[idx].Clone(), true
}

// Len reports the number of stored papers.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.papers)
}

// Snapshot returns the current state in its persisted form.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Version: CurrentVersion, Papers: s.List()}
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.papers))
	for i, paper := range s.papers {
		s.index[paper.ID] = i
	}
}
