package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "checkpoint.json")

	require.NoError(t, WriteFileAtomic(path, []byte("initial"), 0o644))
	require.NoError(t, WriteFileAtomic(path, []byte("updated content"), 0o600))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "updated content", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files are cleaned up")
}

func TestWriteFileAtomicCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runs", "a", "state.json")
	require.NoError(t, WriteFileAtomic(path, []byte("x"), 0o644))
	assert.FileExists(t, path)
}

func TestWriteFileAtomicIntoFile(t *testing.T) {
	t.Parallel()

	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	assert.Error(t, WriteFileAtomic(filepath.Join(blocker, "child.json"), []byte("x"), 0o644))
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type doc struct {
		Seed  int64          `json:"seed"`
		Seats map[string]int `json:"seats"`
	}
	path := filepath.Join(t.TempDir(), "doc.json")
	in := doc{Seed: 42, Seats: map[string]int{"a": 1, "b": 2}}
	require.NoError(t, WriteJSONAtomic(path, in))

	var out doc
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, in, out)

	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))
	assert.Error(t, ReadJSON(path, &out))
	assert.ErrorIs(t, ReadJSON(filepath.Join(t.TempDir(), "missing"), &out), os.ErrNotExist)
}
