// Package collection locates installed collections on disk.
package collection

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/mitchellh/go-homedir"

	"github.com/merizrizal/galaxyctl/pkg/archive"
	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
	"github.com/merizrizal/galaxyctl/pkg/util/files"
)

// ContentDir is the directory under a collections path that holds the
// namespace/name tree.
const ContentDir = "ansible_collections"

var fqcnRegex = regexp.MustCompile(`^([a-z][a-z0-9_]+)\.([a-z][a-z0-9_]+)$`)

// FQCN is a fully qualified collection name, e.g. "merizrizal.utils".
type FQCN struct {
	Namespace string
	Name      string
}

func ParseFQCN(s string) (FQCN, error) {
	matches := fqcnRegex.FindStringSubmatch(s)
	if matches == nil {
		return FQCN{}, fmt.Errorf("%q is not a valid collection name, expected namespace.name", s)
	}
	return FQCN{Namespace: matches[1], Name: matches[2]}, nil
}

func (f FQCN) String() string {
	return f.Namespace + "." + f.Name
}

// Installed is a collection found under one of the collections paths.
type Installed struct {
	FQCN
	Version string
	// Path is the collection's directory, the one holding MANIFEST.json.
	Path string
}

// Paths returns the collections paths to operate on: the override when
// given, otherwise $ANSIBLE_COLLECTIONS_PATH entries, otherwise
// ~/.ansible/collections.
func Paths(override string) ([]string, error) {
	if override != "" {
		return []string{override}, nil
	}
	if env := os.Getenv(global.CollectionsPathEnv); env != "" {
		var paths []string
		for _, p := range strings.Split(env, string(os.PathListSeparator)) {
			if p != "" {
				paths = append(paths, p)
			}
		}
		if len(paths) > 0 {
			return paths, nil
		}
	}
	defaultPath, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return []string{defaultPath}, nil
}

// DefaultPath is where collections are installed when nothing else is
// configured.
func DefaultPath() (string, error) {
	return homedir.Expand("~/.ansible/collections")
}

// InstallRoot returns the path of the given collection under a collections
// path, whether or not it exists.
func InstallRoot(collectionsPath string, fqcn FQCN) string {
	return filepath.Join(collectionsPath, ContentDir, fqcn.Namespace, fqcn.Name)
}

// Discover scans the given collections paths and returns every installed
// collection, sorted by name then version. Unreadable manifests are skipped
// with a warning rather than failing the whole scan.
func Discover(paths []string) ([]Installed, error) {
	var found []Installed
	for _, collectionsPath := range paths {
		contentRoot := filepath.Join(collectionsPath, ContentDir)
		exists, err := files.Exists(contentRoot)
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}

		pattern := filepath.Join(contentRoot, "*", "*", archive.ManifestFilename)
		manifestPaths, err := filepath.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, manifestPath := range manifestPaths {
			dir := filepath.Dir(manifestPath)
			manifest, _, err := archive.LoadInstalled(dir)
			if err != nil {
				console.Warnf("Skipping %s: %s", dir, err)
				continue
			}
			found = append(found, Installed{
				FQCN: FQCN{
					Namespace: manifest.CollectionInfo.Namespace,
					Name:      manifest.CollectionInfo.Name,
				},
				Version: manifest.CollectionInfo.Version,
				Path:    dir,
			})
		}
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].String() != found[j].String() {
			return found[i].String() < found[j].String()
		}
		return found[i].Version < found[j].Version
	})
	return found, nil
}

// Find returns the installed collection with the given name, or nil.
// Paths are searched in order, first hit wins.
func Find(paths []string, fqcn FQCN) (*Installed, error) {
	for _, collectionsPath := range paths {
		dir := InstallRoot(collectionsPath, fqcn)
		exists, err := files.Exists(filepath.Join(dir, archive.ManifestFilename))
		if err != nil {
			return nil, err
		}
		if !exists {
			continue
		}
		manifest, _, err := archive.LoadInstalled(dir)
		if err != nil {
			return nil, err
		}
		return &Installed{
			FQCN:    fqcn,
			Version: manifest.CollectionInfo.Version,
			Path:    dir,
		}, nil
	}
	return nil, nil
}
