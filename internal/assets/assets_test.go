package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFilePriority(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{
		"box.obj":   {Data: []byte("base")},
		"only-base": {Data: []byte("x")},
	})
	m.AddFS(fstest.MapFS{
		"box.obj": {Data: []byte("override")},
	})

	data, err := m.ReadFile("box.obj")
	require.NoError(t, err)
	assert.Equal(t, "override", string(data), "last root wins")

	data, err = m.ReadFile("only-base")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestReadFileNotFound(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{})

	_, err := m.ReadFile("missing.png")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestReadFileCaches(t *testing.T) {
	fsys := fstest.MapFS{"a.hdr": {Data: []byte("1")}}
	m := NewManager()
	m.AddFS(fsys)

	_, err := m.ReadFile("a.hdr")
	require.NoError(t, err)

	delete(fsys, "a.hdr")
	data, err := m.ReadFile("./a.hdr")
	require.NoError(t, err, "served from cache under the cleaned name")
	assert.Equal(t, "1", string(data))

	hits, misses := m.cache.Stats()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, misses)
}

func TestAddDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grid.obj"), []byte("v 0 0 0\n"), 0644))

	m := NewManager()
	require.NoError(t, m.AddDir(dir))

	data, err := m.ReadFile("grid.obj")
	require.NoError(t, err)
	assert.Equal(t, "v 0 0 0\n", string(data))

	assert.Error(t, m.AddDir(filepath.Join(dir, "nope")))
	assert.Error(t, m.AddDir(filepath.Join(dir, "grid.obj")))
}

func TestClose(t *testing.T) {
	m := NewManager()
	m.AddFS(fstest.MapFS{"a": {Data: []byte("1")}})
	_, err := m.ReadFile("a")
	require.NoError(t, err)

	m.Close()
	_, err = m.ReadFile("a")
	assert.True(t, errors.Is(err, ErrNotFound))
}
