package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "nested", "library.json"))

	snapshot, err := repo.Load()
	require.NoError(t, err)
	assert.Empty(t, snapshot.Papers)
}

func TestFileRepository_RoundTripThroughStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "library.json")
	store, err := Open(NewFileRepository(path))
	require.NoError(t, err)

	_, err = store.AddOrUpdate(Paper{ID: "2301.00001", Title: "Foo"}, StatusReading)
	require.NoError(t, err)

	_, err = os.Stat(path + partialSuffix)
	assert.True(t, os.IsNotExist(err), "partial file should be renamed away")

	reopened, err := Open(NewFileRepository(path))
	require.NoError(t, err)
	got, ok := reopened.Get("2301.00001")
	require.True(t, ok)
	assert.Equal(t, "Foo", got.Title)
}

func TestFileRepository_LegacyFileIsRewrittenAtCurrentVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id":"a","title":"A","status":"read"}]`), 0o644))

	store, err := Open(NewFileRepository(path))
	require.NoError(t, err)
	_, err = store.AddOrUpdate(Paper{ID: "b", Title: "B"}, StatusReading)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	snapshot, err := DecodeSnapshot(data)
	require.NoError(t, err)
	assert.Len(t, snapshot.Papers, 2)
	assert.Contains(t, string(data), `"version": 1`)
}

func TestFileRepository_CorruptFileIsReported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	require.NoError(t, os.WriteFile(path, []byte("<html>"), 0o644))

	_, err := Open(NewFileRepository(path))
	require.ErrorIs(t, err, ErrCorruptSnapshot)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<html>", string(data), "corrupt data must not be overwritten")
}
