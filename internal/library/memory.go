package library

import "sync"

// MemoryRepository keeps the encoded snapshot in memory. Saves go through the
// same encoder as the durable repositories.
type MemoryRepository struct {
	mu    sync.Mutex
	data  []byte
	saves int
	// FailSave, when set, is returned by Save instead of storing.
	FailSave error
}

// NewMemoryRepository seeds the repository with raw persisted bytes.
func NewMemoryRepository(seed []byte) *MemoryRepository {
	return &MemoryRepository{data: seed}
}

// Load decodes the current bytes.
func (r *MemoryRepository) Load() (Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return DecodeSnapshot(r.data)
}

// Save encodes and keeps snapshot.
func (r *MemoryRepository) Save(snapshot Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailSave != nil {
		return r.FailSave
	}
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	r.data = data
	r.saves++
	return nil
}

// Bytes returns the last persisted payload.
func (r *MemoryRepository) Bytes() []byte {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]byte(nil), r.data...)
}

// Saves counts successful writes.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
