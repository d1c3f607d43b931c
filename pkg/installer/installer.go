// Package installer puts collection archives into a collections path.
package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/merizrizal/galaxyctl/pkg/archive"
	"github.com/merizrizal/galaxyctl/pkg/collection"
	"github.com/merizrizal/galaxyctl/pkg/config"
	"github.com/merizrizal/galaxyctl/pkg/errors"
	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
	"github.com/merizrizal/galaxyctl/pkg/util/files"
)

type Options struct {
	// CollectionsPath is the root to install into, e.g.
	// ~/.ansible/collections. Required.
	CollectionsPath string
	// Force reinstalls over an existing collection of any version.
	Force bool
}

// Unmet describes a dependency requirement an installed collection cannot
// satisfy.
type Unmet struct {
	Collection FQCNVersion
	Dependency string
	Constraint string
	// Installed is the version found, or empty when the dependency is not
	// installed at all.
	Installed string
}

type FQCNVersion struct {
	FQCN    string
	Version string
}

func (u Unmet) String() string {
	if u.Installed == "" {
		return fmt.Sprintf("%s requires %s (%s) which is not installed", u.Collection.FQCN, u.Dependency, u.Constraint)
	}
	return fmt.Sprintf("%s requires %s (%s) but %s is installed", u.Collection.FQCN, u.Dependency, u.Constraint, u.Installed)
}

// Install unpacks a collection archive into the collections path, verifying
// file digests during extraction. An already installed collection returns an
// AlreadyInstalled error unless Force is set. Extraction goes through a temp
// sibling directory and an atomic rename, so a failed install never leaves a
// half-written collection behind.
func Install(archivePath string, opts Options) (*archive.CollectionManifest, error) {
	manifest, err := archive.ReadCollectionManifest(archivePath)
	if err != nil {
		return nil, err
	}

	fqcn := collection.FQCN{
		Namespace: manifest.CollectionInfo.Namespace,
		Name:      manifest.CollectionInfo.Name,
	}
	destDir := collection.InstallRoot(opts.CollectionsPath, fqcn)

	destDirExists, err := files.Exists(destDir)
	if err != nil {
		return nil, err
	}
	if destDirExists && !opts.Force {
		existing, err := collection.Find([]string{opts.CollectionsPath}, fqcn)
		if err != nil {
			return nil, err
		}
		version := "(unknown version)"
		if existing != nil {
			version = existing.Version
		}
		return nil, errors.AlreadyInstalled(fmt.Sprintf("%s %s is already installed in %s. Use --force to reinstall it", fqcn, version, destDir))
	}

	parentDir := filepath.Dir(destDir)
	if err := os.MkdirAll(parentDir, 0o755); err != nil {
		return nil, err
	}
	tmpDir, err := os.MkdirTemp(parentDir, "."+fqcn.Name+"-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	console.Debugf("Extracting %s to %s", archivePath, tmpDir)
	if _, err := archive.Extract(archivePath, tmpDir); err != nil {
		return nil, err
	}

	if destDirExists {
		if err := os.RemoveAll(destDir); err != nil {
			return nil, err
		}
	}
	if err := os.Rename(tmpDir, destDir); err != nil {
		return nil, err
	}
	if err := os.Chmod(destDir, 0o755); err != nil {
		return nil, err
	}

	return manifest, nil
}

// InstallDir builds the collection found in srcDir into a temp archive, then
// installs it. This is the build-then-install pipeline in one step.
func InstallDir(srcDir string, opts Options) (*archive.CollectionManifest, error) {
	m, err := config.LoadFile(filepath.Join(srcDir, global.ConfigFilename))
	if err != nil {
		return nil, err
	}

	buildDir, err := os.MkdirTemp("", "galaxyctl-install")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(buildDir)

	archivePath, err := archive.Build(srcDir, m, archive.BuildOptions{OutputDir: buildDir})
	if err != nil {
		return nil, err
	}
	return Install(archivePath, opts)
}

// CheckDependencies verifies the dependency constraints of the given
// manifests against what is installed under the collections paths.
func CheckDependencies(paths []string, manifests []*archive.CollectionManifest) ([]Unmet, error) {
	var unmet []Unmet
	for _, manifest := range manifests {
		deps := manifest.CollectionInfo.Dependencies
		names := make([]string, 0, len(deps))
		for dep := range deps {
			names = append(names, dep)
		}
		sort.Strings(names)

		for _, dep := range names {
			constraint := deps[dep]
			fqcn, err := collection.ParseFQCN(dep)
			if err != nil {
				return nil, err
			}
			installed, err := collection.Find(paths, fqcn)
			if err != nil {
				return nil, err
			}
			if installed == nil {
				unmet = append(unmet, Unmet{
					Collection: FQCNVersion{FQCN: manifest.FQCN(), Version: manifest.CollectionInfo.Version},
					Dependency: dep,
					Constraint: constraint,
				})
				continue
			}
			ok, err := config.SatisfiesConstraint(installed.Version, constraint)
			if err != nil {
				return nil, err
			}
			if !ok {
				unmet = append(unmet, Unmet{
					Collection: FQCNVersion{FQCN: manifest.FQCN(), Version: manifest.CollectionInfo.Version},
					Dependency: dep,
					Constraint: constraint,
					Installed:  installed.Version,
				})
			}
		}
	}
	return unmet, nil
}
