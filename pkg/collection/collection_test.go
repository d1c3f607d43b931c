package collection

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/merizrizal/galaxyctl/pkg/archive"
	"github.com/merizrizal/galaxyctl/pkg/util"
)

func TestParseFQCN(t *testing.T) {
	fqcn, err := ParseFQCN("merizrizal.utils")
	require.NoError(t, err)
	require.Equal(t, "merizrizal", fqcn.Namespace)
	require.Equal(t, "utils", fqcn.Name)
	require.Equal(t, "merizrizal.utils", fqcn.String())

	for _, bad := range []string{"utils", "merizrizal.utils.extra", "Merizrizal.utils", "merizrizal.", "a.b"} {
		_, err := ParseFQCN(bad)
		require.Error(t, err, "%q should be rejected", bad)
	}
}

func TestPathsOverrideWins(t *testing.T) {
	t.Setenv("ANSIBLE_COLLECTIONS_PATH", "/elsewhere")
	paths, err := Paths("/explicit")
	require.NoError(t, err)
	require.Equal(t, []string{"/explicit"}, paths)
}

func TestPathsFromEnvironment(t *testing.T) {
	t.Setenv("ANSIBLE_COLLECTIONS_PATH", "/first"+string(os.PathListSeparator)+"/second")
	paths, err := Paths("")
	require.NoError(t, err)
	require.Equal(t, []string{"/first", "/second"}, paths)
}

func TestPathsDefault(t *testing.T) {
	t.Setenv("ANSIBLE_COLLECTIONS_PATH", "")
	paths, err := Paths("")
	require.NoError(t, err)
	require.Len(t, paths, 1)
	require.Contains(t, paths[0], filepath.Join(".ansible", "collections"))
}

func writeInstalled(t *testing.T, collectionsPath, namespace, name, version string) {
	t.Helper()
	dir := filepath.Join(collectionsPath, ContentDir, namespace, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))

	fileManifest := &archive.FileManifest{
		Files:  []archive.FileEntry{{Name: ".", FType: "dir", Format: 1}},
		Format: 1,
	}
	filesJSON, err := json.MarshalIndent(fileManifest, "", " ")
	require.NoError(t, err)

	checksumType := "sha256"
	digest := util.SHA256HashBytes(filesJSON)
	manifest := &archive.CollectionManifest{
		CollectionInfo: archive.CollectionInfo{
			Namespace:    namespace,
			Name:         name,
			Version:      version,
			Dependencies: map[string]string{},
		},
		FileManifestFile: archive.FileEntry{
			Name:         archive.FilesFilename,
			FType:        "file",
			ChksumType:   &checksumType,
			ChksumSHA256: &digest,
			Format:       1,
		},
		Format: 1,
	}
	manifestJSON, err := json.MarshalIndent(manifest, "", " ")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, archive.FilesFilename), filesJSON, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, archive.ManifestFilename), manifestJSON, 0o644))
}

func TestDiscoverFindsInstalledCollections(t *testing.T) {
	collectionsPath := t.TempDir()
	writeInstalled(t, collectionsPath, "merizrizal", "utils", "1.2.0")
	writeInstalled(t, collectionsPath, "ansible", "utils", "2.5.0")

	installed, err := Discover([]string{collectionsPath, filepath.Join(collectionsPath, "does-not-exist")})
	require.NoError(t, err)
	require.Len(t, installed, 2)
	require.Equal(t, "ansible.utils", installed[0].String())
	require.Equal(t, "2.5.0", installed[0].Version)
	require.Equal(t, "merizrizal.utils", installed[1].String())
	require.Equal(t, "1.2.0", installed[1].Version)
}

func TestFind(t *testing.T) {
	collectionsPath := t.TempDir()
	writeInstalled(t, collectionsPath, "merizrizal", "utils", "1.2.0")

	installed, err := Find([]string{collectionsPath}, FQCN{Namespace: "merizrizal", Name: "utils"})
	require.NoError(t, err)
	require.NotNil(t, installed)
	require.Equal(t, "1.2.0", installed.Version)
	require.Equal(t, InstallRoot(collectionsPath, installed.FQCN), installed.Path)

	missing, err := Find([]string{collectionsPath}, FQCN{Namespace: "acme", Name: "demo"})
	require.NoError(t, err)
	require.Nil(t, missing)
}
