package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSHA256HashFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello\n"), 0o644))

	digest, err := SHA256HashFile(path)
	require.NoError(t, err)
	require.Equal(t, "5891b5b522d5df086d0ff0b110fbd9d21bb4fc7163af34d08286a2e846f6be03", digest)
	require.Equal(t, digest, SHA256HashBytes([]byte("hello\n")))
}

func TestSHA256HashFileMissing(t *testing.T) {
	_, err := SHA256HashFile(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
