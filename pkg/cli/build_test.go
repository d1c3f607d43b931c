package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testGalaxyYaml = `namespace: merizrizal
name: utils
version: 1.2.0
readme: README.md
license:
  - GPL-3.0-or-later
`

func writeTestCollection(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "galaxy.yml"), []byte(testGalaxyYaml), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# merizrizal.utils\n"), 0o644))
	return dir
}

func TestBuildCommandWritesArchiveToOutputPath(t *testing.T) {
	rootDir := writeTestCollection(t)
	outputDir := t.TempDir()

	cmd := newBuildCommand()
	cmd.SetArgs([]string{"-D", rootDir, "--output-path", outputDir})
	require.NoError(t, cmd.Execute())

	require.FileExists(t, filepath.Join(outputDir, "merizrizal-utils-1.2.0.tar.gz"))
}

func TestBuildCommandHonorsRootDirEnv(t *testing.T) {
	rootDir := writeTestCollection(t)
	outputDir := t.TempDir()
	t.Setenv("ROOT_DIR", outputDir)

	cmd := newBuildCommand()
	cmd.SetArgs([]string{"-D", rootDir})
	buildOutputPath = ""
	require.NoError(t, cmd.Execute())

	require.FileExists(t, filepath.Join(outputDir, "merizrizal-utils-1.2.0.tar.gz"))
}

func TestInstallCommandInstallsBuiltArchive(t *testing.T) {
	rootDir := writeTestCollection(t)
	outputDir := t.TempDir()
	collectionsPath := t.TempDir()

	build := newBuildCommand()
	build.SetArgs([]string{"-D", rootDir, "--output-path", outputDir})
	require.NoError(t, build.Execute())

	archivePath := filepath.Join(outputDir, "merizrizal-utils-1.2.0.tar.gz")
	install := newInstallCommand()
	install.SetArgs([]string{archivePath, "-p", collectionsPath})
	require.NoError(t, install.Execute())

	require.FileExists(t, filepath.Join(collectionsPath, "ansible_collections", "merizrizal", "utils", "README.md"))

	// Installing again without --force leaves the collection alone and
	// succeeds with a warning.
	again := newInstallCommand()
	again.SetArgs([]string{archivePath, "-p", collectionsPath})
	installForce = false
	require.NoError(t, again.Execute())
}
