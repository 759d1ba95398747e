package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	path, err := s.Put(context.Background(), "report-1.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report-1.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)
}

func TestLocalStorePutOverwrites(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Put(context.Background(), "report-1.pdf", []byte("old"))
	require.NoError(t, err)
	path, err := s.Put(context.Background(), "report-1.pdf", []byte("new"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), data)
}

func TestMemoryStorePut(t *testing.T) {
	s := NewMemoryStore()

	path, err := s.Put(context.Background(), "report-1.pdf", []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "memory/report-1.pdf", path)
	assert.Equal(t, []byte("abc"), s.Objects["report-1.pdf"])
}
