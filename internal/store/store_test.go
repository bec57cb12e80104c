package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	s := NewFileStore()
	path := filepath.Join(t.TempDir(), "model.glm")

	text := "object meter {\n\tname m1;\n};\n"
	require.NoError(t, s.Write(path, text))

	got, err := s.Read(path)
	require.NoError(t, err)
	assert.Equal(t, text, got)
}

func TestFileStoreWriteCreatesDirectories(t *testing.T) {
	s := NewFileStore()
	path := filepath.Join(t.TempDir(), "out", "nested", "model.glm")

	require.NoError(t, s.Write(path, "clock {\n}\n"))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestFileStoreReadMissingFile(t *testing.T) {
	s := NewFileStore()
	_, err := s.Read(filepath.Join(t.TempDir(), "absent.glm"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
