package nvstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory(t *testing.T) {
	var m Memory

	b, err := m.Load()
	require.NoError(t, err)
	assert.Equal(t, Erased, b)

	require.NoError(t, m.Store(3))
	b, err = m.Load()
	require.NoError(t, err)
	assert.Equal(t, byte(3), b)
	assert.Equal(t, 1, m.Writes())

	m2 := NewMemory(2)
	b, err = m2.Load()
	require.NoError(t, err)
	assert.Equal(t, byte(2), b)
	assert.Equal(t, 0, m2.Writes())
}

func TestFile_Missing(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "cell.nv"))

	b, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, Erased, b)
}

func TestFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cell.nv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	b, err := NewFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, Erased, b)
}

func TestFile_StoreLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cell.nv")
	f := NewFile(path)

	require.NoError(t, f.Store(1))
	require.NoError(t, f.Store(2))

	// A fresh handle sees the persisted value, as after a power cycle.
	b, err := NewFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, byte(2), b)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{2}, data)

	// No temp files left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFile_BadDirectory(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "missing", "cell.nv"))
	assert.Error(t, f.Store(1))
}

func TestFile_Closed(t *testing.T) {
	f := NewFile(filepath.Join(t.TempDir(), "cell.nv"))
	require.NoError(t, f.Close())

	_, err := f.Load()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, f.Store(1), ErrClosed)
}
