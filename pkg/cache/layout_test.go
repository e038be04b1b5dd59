package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayout(t *testing.T) {
	l := NewLayout("data")

	assert.Equal(t, filepath.Join("data", "versions.json"), l.ManifestFile())
	assert.Equal(t, filepath.Join("data", "versions", "1.20.1.json"), l.VersionFile("1.20.1"))
	assert.Equal(t, filepath.Join("data", "libraries", "com", "a.jar"), l.LibraryFile("com/a.jar"))
	assert.Equal(t, filepath.Join("data", "clients", "1.20.1.jar"), l.ClientFile("1.20.1"))
	assert.Equal(t, filepath.Join("data", "assets", "objects", "ab", "abcdef0123"), l.ObjectFile("ab/abcdef0123"))
	assert.Equal(t, filepath.Join("data", "assets", "virtual", "legacy", "icons", "a.png"), l.LegacyFile("icons/a.png"))
	assert.Len(t, l.StandardDirs(), 5)
}

func TestWriteFileAndCopy(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a", "b", "src.bin")
	dst := filepath.Join(dir, "c", "dst.bin")

	require.NoError(t, WriteFile(src, []byte("hello")))
	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	entries, err := os.ReadDir(filepath.Dir(src))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")

	ok, err := Exists(dst)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.False(t, ok)
}
