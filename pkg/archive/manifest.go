package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/merizrizal/galaxyctl/pkg/buildignore"
	"github.com/merizrizal/galaxyctl/pkg/config"
	"github.com/merizrizal/galaxyctl/pkg/util"
)

const (
	// ManifestFilename holds the collection metadata inside an archive and
	// an installed collection. It supersedes galaxy.yml, which is not
	// packaged.
	ManifestFilename = "MANIFEST.json"
	// FilesFilename lists every packaged file with its digest.
	FilesFilename = "FILES.json"

	metaFormat   = 1
	checksumType = "sha256"

	ftypeFile = "file"
	ftypeDir  = "dir"
)

// FileEntry describes one packaged file or directory in FILES.json.
// Directories carry null checksums.
type FileEntry struct {
	Name         string  `json:"name"`
	FType        string  `json:"ftype"`
	ChksumType   *string `json:"chksum_type"`
	ChksumSHA256 *string `json:"chksum_sha256"`
	Format       int     `json:"format"`
}

// FileManifest is the FILES.json document.
type FileManifest struct {
	Files  []FileEntry `json:"files"`
	Format int         `json:"format"`
}

// CollectionInfo is the galaxy.yml content as recorded in MANIFEST.json.
type CollectionInfo struct {
	Namespace     string            `json:"namespace"`
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Authors       []string          `json:"authors"`
	Readme        string            `json:"readme"`
	Tags          []string          `json:"tags"`
	Description   string            `json:"description"`
	License       []string          `json:"license"`
	LicenseFile   string            `json:"license_file,omitempty"`
	Dependencies  map[string]string `json:"dependencies"`
	Repository    string            `json:"repository"`
	Documentation string            `json:"documentation"`
	Homepage      string            `json:"homepage"`
	Issues        string            `json:"issues"`
}

// CollectionManifest is the MANIFEST.json document.
type CollectionManifest struct {
	CollectionInfo   CollectionInfo `json:"collection_info"`
	FileManifestFile FileEntry      `json:"file_manifest_file"`
	Format           int            `json:"format"`
}

// FQCN returns the fully qualified collection name recorded in the manifest.
func (c *CollectionManifest) FQCN() string {
	return c.CollectionInfo.Namespace + "." + c.CollectionInfo.Name
}

// NewCollectionInfo converts a parsed galaxy.yml into the MANIFEST.json
// representation. Dependencies is always emitted as an object, never null.
func NewCollectionInfo(m *config.Manifest) CollectionInfo {
	deps := m.Dependencies
	if deps == nil {
		deps = map[string]string{}
	}
	return CollectionInfo{
		Namespace:     m.Namespace,
		Name:          m.Name,
		Version:       m.Version,
		Authors:       m.Authors,
		Readme:        m.Readme,
		Tags:          m.Tags,
		Description:   m.Description,
		License:       m.License,
		LicenseFile:   m.LicenseFile,
		Dependencies:  deps,
		Repository:    m.Repository,
		Documentation: m.Documentation,
		Homepage:      m.Homepage,
		Issues:        m.Issues,
	}
}

// ChecksumsByName returns a lookup of file name to expected sha256.
// Directory entries and the root "." entry are skipped.
func (f *FileManifest) ChecksumsByName() map[string]string {
	checksums := make(map[string]string, len(f.Files))
	for _, entry := range f.Files {
		if entry.FType != ftypeFile || entry.ChksumSHA256 == nil {
			continue
		}
		checksums[entry.Name] = *entry.ChksumSHA256
	}
	return checksums
}

func fileEntry(name, digest string) FileEntry {
	ctype := checksumType
	return FileEntry{
		Name:         name,
		FType:        ftypeFile,
		ChksumType:   &ctype,
		ChksumSHA256: &digest,
		Format:       metaFormat,
	}
}

func dirEntry(name string) FileEntry {
	return FileEntry{
		Name:   name,
		FType:  ftypeDir,
		Format: metaFormat,
	}
}

// generateFileManifest walks the collection tree and produces the FILES.json
// document. File digests are computed concurrently, one worker per CPU.
func generateFileManifest(rootDir string, matcher *ignore.GitIgnore) (*FileManifest, error) {
	manifest := &FileManifest{
		Files:  []FileEntry{dirEntry(".")},
		Format: metaFormat,
	}

	var filePaths []string
	err := buildignore.Walk(rootDir, matcher, func(path string, info os.FileInfo, err error) error {
		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(relPath)

		if info.IsDir() {
			manifest.Files = append(manifest.Files, dirEntry(name))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		filePaths = append(filePaths, name)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(filePaths)

	digests := make([]string, len(filePaths))
	group := errgroup.Group{}
	group.SetLimit(runtime.NumCPU())
	for i, name := range filePaths {
		i, name := i, name
		group.Go(func() error {
			digest, err := util.SHA256HashFile(filepath.Join(rootDir, filepath.FromSlash(name)))
			if err != nil {
				return fmt.Errorf("Failed to hash %s: %w", name, err)
			}
			digests[i] = digest
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	for i, name := range filePaths {
		manifest.Files = append(manifest.Files, fileEntry(name, digests[i]))
	}
	return manifest, nil
}

func marshalMeta(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
