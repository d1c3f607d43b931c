package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.txt")

	exists, err := Exists(path)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	exists, err = Exists(path)
	require.NoError(t, err)
	require.True(t, exists)
}

func TestIsDir(t *testing.T) {
	dir := t.TempDir()
	isDir, err := IsDir(dir)
	require.NoError(t, err)
	require.True(t, isDir)

	path := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	isDir, err = IsDir(path)
	require.NoError(t, err)
	require.False(t, isDir)
}

func TestIsEmpty(t *testing.T) {
	dir := t.TempDir()
	empty, err := IsEmpty(dir)
	require.NoError(t, err)
	require.True(t, empty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("x"), 0o644))
	empty, err = IsEmpty(dir)
	require.NoError(t, err)
	require.False(t, empty)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dest := filepath.Join(dir, "dest.txt")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	require.NoError(t, CopyFile(src, dest))
	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "payload", string(content))
}
