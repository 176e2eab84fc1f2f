package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const partialSuffix = ".part"

// FileRepository keeps the library snapshot in a single JSON file.
type FileRepository struct {
	Path string
}

// NewFileRepository returns a repository backed by path.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{Path: path}
}

// Load reads the snapshot. A missing file is an empty library.
func (r *FileRepository) Load() (Snapshot, error) {
	data, err := os.ReadFile(r.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Snapshot{Version: CurrentVersion}, nil
		}
		return Snapshot{}, err
	}
	snapshot, err := DecodeSnapshot(data)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", r.Path, err)
	}
	return snapshot, nil
}

// Save overwrites the file with the full snapshot.
func (r *FileRepository) Save(snapshot Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(r.Path), 0o755); err != nil {
		return err
	}
	data, err := EncodeSnapshot(snapshot)
	if err != nil {
		return err
	}
	partial := r.Path + partialSuffix
	if err := os.WriteFile(partial, data, 0o644); err != nil {
		return err
	}
	return os.Rename(partial, r.Path)
}
