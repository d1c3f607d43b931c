// Package buildignore decides which files in a collection tree are packaged.
package buildignore

import (
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
)

// Patterns excluded from every collection archive. tests/output is scratch
// space for ansible-test, the rest is VCS and interpreter litter.
var defaultPatterns = []string{
	".git",
	".hg",
	".svn",
	"*.pyc",
	"*.retry",
	"tests/output",
}

// NewMatcher compiles the default ignore patterns plus the manifest's
// build_ignore patterns into a single matcher.
func NewMatcher(buildIgnore []string) *ignore.GitIgnore {
	patterns := make([]string, 0, len(defaultPatterns)+len(buildIgnore))
	patterns = append(patterns, defaultPatterns...)
	patterns = append(patterns, buildIgnore...)
	return ignore.CompileIgnoreLines(patterns...)
}

// Walk walks the collection tree rooted at root, calling fn for every entry
// that survives the ignore matcher. Matching is done on the path relative to
// root, so build_ignore patterns behave the same regardless of where the
// collection is checked out. Ignored directories are skipped entirely.
func Walk(root string, matcher *ignore.GitIgnore, fn filepath.WalkFunc) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if matcher != nil && matcher.MatchesPath(filepath.ToSlash(relPath)) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		return fn(path, info, err)
	})
}
