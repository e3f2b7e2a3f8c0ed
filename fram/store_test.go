package fram

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreReadBack(t *testing.T) {
	s := NewMemStore(1024)
	require.NoError(t, s.Write(100, []byte{1, 2, 3}))

	buf := make([]byte, 3)
	require.NoError(t, s.Read(100, buf))
	assert.Equal(t, []byte{1, 2, 3}, buf)

	// unwritten bytes read as zero
	require.NoError(t, s.Read(0, buf))
	assert.Equal(t, []byte{0, 0, 0}, buf)
}

func TestMemStoreBounds(t *testing.T) {
	s := NewMemStore(16)
	buf := make([]byte, 4)

	assert.NoError(t, s.Write(12, buf))
	assert.ErrorIs(t, s.Write(13, buf), ErrBounds)
	assert.ErrorIs(t, s.Read(13, buf), ErrBounds)
	assert.ErrorIs(t, s.Write(16, []byte{1}), ErrBounds)

	// the rejected write must not land partially
	got := make([]byte, 16)
	require.NoError(t, s.Read(0, got))
	assert.Equal(t, make([]byte, 16), got)
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fram.img")

	s, err := NewFileStore(path, 4096)
	require.NoError(t, err)
	require.NoError(t, s.Write(200, []byte{0xAB, 0xCD}))
	require.NoError(t, s.Close())

	s2, err := NewFileStore(path, 4096)
	require.NoError(t, err)
	defer s2.Close()

	buf := make([]byte, 2)
	require.NoError(t, s2.Read(200, buf))
	assert.Equal(t, []byte{0xAB, 0xCD}, buf)
	assert.Equal(t, uint32(4096), s2.Size())
}

func TestFileStoreSingleWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fram.img")

	s, err := NewFileStore(path, 1024)
	require.NoError(t, err)
	defer s.Close()

	_, err = NewFileStore(path, 1024)
	assert.Error(t, err)
}

func TestFileStoreClosed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fram.img")

	s, err := NewFileStore(path, 1024)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	buf := make([]byte, 1)
	assert.Equal(t, ErrClosed, s.Read(0, buf))
	assert.Equal(t, ErrClosed, s.Write(0, buf))
	assert.NoError(t, s.Close())
}
