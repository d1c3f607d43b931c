package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/merizrizal/galaxyctl/pkg/collection"
)

func installTestCollection(t *testing.T) (collectionsPath, installedDir string) {
	t.Helper()
	rootDir := writeTestCollection(t)
	outputDir := t.TempDir()
	collectionsPath = t.TempDir()

	build := newBuildCommand()
	build.SetArgs([]string{"-D", rootDir, "--output-path", outputDir})
	require.NoError(t, build.Execute())

	install := newInstallCommand()
	install.SetArgs([]string{filepath.Join(outputDir, "merizrizal-utils-1.2.0.tar.gz"), "-p", collectionsPath})
	require.NoError(t, install.Execute())

	installedDir = filepath.Join(collectionsPath, "ansible_collections", "merizrizal", "utils")
	return collectionsPath, installedDir
}

func installedFixture(dir string) collection.Installed {
	return collection.Installed{
		FQCN:    collection.FQCN{Namespace: "merizrizal", Name: "utils"},
		Version: "1.2.0",
		Path:    dir,
	}
}

func TestVerifyCleanInstallHasNoIssues(t *testing.T) {
	_, installedDir := installTestCollection(t)

	issues, err := verifyCollection(installedFixture(installedDir))
	require.NoError(t, err)
	require.Empty(t, issues)
}

func TestVerifyReportsModifiedAndMissingFiles(t *testing.T) {
	_, installedDir := installTestCollection(t)

	require.NoError(t, os.WriteFile(filepath.Join(installedDir, "README.md"), []byte("edited\n"), 0o644))

	issues, err := verifyCollection(installedFixture(installedDir))
	require.NoError(t, err)
	require.Equal(t, []string{"README.md was modified after install"}, issues)

	require.NoError(t, os.Remove(filepath.Join(installedDir, "README.md")))

	issues, err = verifyCollection(installedFixture(installedDir))
	require.NoError(t, err)
	require.Equal(t, []string{"README.md is missing"}, issues)
}

func TestVerifyReportsFilesAddedAfterInstall(t *testing.T) {
	_, installedDir := installTestCollection(t)

	require.NoError(t, os.MkdirAll(filepath.Join(installedDir, "plugins", "modules"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(installedDir, "plugins", "modules", "injected.py"), []byte("#!/usr/bin/python\n"), 0o644))

	issues, err := verifyCollection(installedFixture(installedDir))
	require.NoError(t, err)
	require.Equal(t, []string{"plugins/modules/injected.py was added after install"}, issues)
}

func TestVerifyCommandFailsOnForeignFile(t *testing.T) {
	collectionsPath, installedDir := installTestCollection(t)

	require.NoError(t, os.WriteFile(filepath.Join(installedDir, "injected.py"), []byte("#!/usr/bin/python\n"), 0o644))

	cmd := newVerifyCommand()
	cmd.SetArgs([]string{"merizrizal.utils", "-p", collectionsPath})
	err := cmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed verification")
}
