package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/merizrizal/galaxyctl/pkg/errors"
	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/util/files"
)

const maxSearchDepth = 100

// GetProjectDir returns the collection's root directory. When projectDir is
// empty, the tree is walked upwards from the current working directory until
// a galaxy.yml is found.
func GetProjectDir(projectDir string) (string, error) {
	if projectDir != "" {
		return projectDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return findProjectRootDir(cwd)
}

// GetManifest loads and validates the galaxy.yml for the collection rooted at
// projectDir (or found from the current working directory when empty).
// Returns the manifest and the resolved root directory.
func GetManifest(projectDir string) (*Manifest, string, error) {
	rootDir, err := GetProjectDir(projectDir)
	if err != nil {
		return nil, "", err
	}

	manifest, err := LoadFile(path.Join(rootDir, global.ConfigFilename))
	if err != nil {
		return nil, "", err
	}
	return manifest, rootDir, nil
}

// LoadFile loads and validates a manifest from an explicit galaxy.yml path.
func LoadFile(file string) (*Manifest, error) {
	exists, err := files.Exists(file)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.ConfigNotFound(fmt.Sprintf("%s does not exist in %s. Are you in the right directory?", filepath.Base(file), filepath.Dir(file)))
	}

	contents, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return FromYAML(contents)
}

func findConfigPathInDirectory(dir string) (configPath string, err error) {
	filePath := path.Join(dir, global.ConfigFilename)
	exists, err := files.Exists(filePath)
	if err != nil {
		return "", fmt.Errorf("Failed to scan directory %s for %s: %w", dir, filePath, err)
	} else if exists {
		return filePath, nil
	}

	return "", errors.ConfigNotFound(fmt.Sprintf("%s not found in %s", global.ConfigFilename, dir))
}

// Walk up the directory tree to find the root of the collection.
// The collection root is defined as the directory housing a galaxy.yml file.
func findProjectRootDir(startDir string) (string, error) {
	dir := startDir
	for i := 0; i < maxSearchDepth; i++ {
		switch _, err := findConfigPathInDirectory(dir); {
		case err != nil && !errors.IsConfigNotFound(err):
			return "", err
		case err == nil:
			return dir, nil
		case dir == "." || dir == "/":
			return "", errors.ConfigNotFound(fmt.Sprintf("%s not found in %s (or in any parent directories)", global.ConfigFilename, startDir))
		}

		dir = filepath.Dir(dir)
	}

	return "", errors.ConfigNotFound("No galaxy.yml found in parent directories.")
}
