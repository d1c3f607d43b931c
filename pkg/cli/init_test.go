package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInitScaffoldsCollectionSkeleton(t *testing.T) {
	initPath := t.TempDir()

	cmd := newInitCommand()
	cmd.SetArgs([]string{"acme.demo", "--init-path", initPath})
	require.NoError(t, cmd.Execute())

	collectionDir := filepath.Join(initPath, "acme", "demo")
	require.FileExists(t, filepath.Join(collectionDir, "galaxy.yml"))
	require.FileExists(t, filepath.Join(collectionDir, "README.md"))
	require.FileExists(t, filepath.Join(collectionDir, "meta", "runtime.yml"))
	require.FileExists(t, filepath.Join(collectionDir, "plugins", "README.md"))
	require.DirExists(t, filepath.Join(collectionDir, "roles"))

	galaxyYaml, err := os.ReadFile(filepath.Join(collectionDir, "galaxy.yml"))
	require.NoError(t, err)
	require.Contains(t, string(galaxyYaml), "namespace: acme")
	require.Contains(t, string(galaxyYaml), "name: demo")

	readme, err := os.ReadFile(filepath.Join(collectionDir, "README.md"))
	require.NoError(t, err)
	require.Contains(t, string(readme), "acme.demo")
}

func TestInitDoesNotOverwriteExistingFiles(t *testing.T) {
	initPath := t.TempDir()
	collectionDir := filepath.Join(initPath, "acme", "demo")
	require.NoError(t, os.MkdirAll(collectionDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(collectionDir, "galaxy.yml"), []byte("keep me\n"), 0o644))

	cmd := newInitCommand()
	cmd.SetArgs([]string{"acme.demo", "--init-path", initPath})
	require.NoError(t, cmd.Execute())

	content, err := os.ReadFile(filepath.Join(collectionDir, "galaxy.yml"))
	require.NoError(t, err)
	require.Equal(t, "keep me\n", string(content))
}

func TestInitRejectsInvalidName(t *testing.T) {
	cmd := newInitCommand()
	cmd.SetArgs([]string{"not-a-collection", "--init-path", t.TempDir()})
	require.Error(t, cmd.Execute())
}

func TestInitScaffoldPassesValidation(t *testing.T) {
	initPath := t.TempDir()

	cmd := newInitCommand()
	cmd.SetArgs([]string{"acme.demo", "--init-path", initPath})
	require.NoError(t, cmd.Execute())

	validate := newValidateCommand()
	validate.SetArgs([]string{"-D", filepath.Join(initPath, "acme", "demo")})
	require.NoError(t, validate.Execute())
}
