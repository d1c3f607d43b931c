package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/merizrizal/galaxyctl/pkg/archive"
	"github.com/merizrizal/galaxyctl/pkg/collection"
	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/util"
	"github.com/merizrizal/galaxyctl/pkg/util/console"
	"github.com/merizrizal/galaxyctl/pkg/util/files"
)

var verifyCollectionsPath string

func newVerifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [COLLECTION...]",
		Short: "Verify installed collections against their recorded checksums",
		Long: `Recompute the sha256 of every installed file and compare it to the digest
recorded in the collection's FILES.json. Files found on disk that FILES.json
does not record are reported as well. With no arguments, every installed
collection is verified.`,
		RunE: verifyCommand,
	}
	cmd.Flags().StringVarP(&verifyCollectionsPath, "collections-path", "p", "", "Collections path to scan (default $"+global.CollectionsPathEnv+", then ~/.ansible/collections)")
	return cmd
}

func verifyCommand(cmd *cobra.Command, args []string) error {
	paths, err := collection.Paths(verifyCollectionsPath)
	if err != nil {
		return err
	}

	var targets []collection.Installed
	if len(args) == 0 {
		targets, err = collection.Discover(paths)
		if err != nil {
			return err
		}
	} else {
		for _, arg := range args {
			fqcn, err := collection.ParseFQCN(arg)
			if err != nil {
				return err
			}
			installed, err := collection.Find(paths, fqcn)
			if err != nil {
				return err
			}
			if installed == nil {
				return fmt.Errorf("%s is not installed in %v", fqcn, paths)
			}
			targets = append(targets, *installed)
		}
	}

	failed := 0
	for _, target := range targets {
		issues, err := verifyCollection(target)
		if err != nil {
			return err
		}
		if len(issues) == 0 {
			console.Infof("%s %s: ok", target.String(), target.Version)
			continue
		}
		failed++
		for _, issue := range issues {
			console.Warnf("%s: %s", target.String(), issue)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d collection(s) failed verification", failed)
	}
	return nil
}

func verifyCollection(installed collection.Installed) ([]string, error) {
	_, fileManifest, err := archive.LoadInstalled(installed.Path)
	if err != nil {
		return []string{fmt.Sprintf("unreadable metadata: %s", err)}, nil
	}

	checksums := fileManifest.ChecksumsByName()
	names := make([]string, 0, len(checksums))
	for name := range checksums {
		names = append(names, name)
	}
	sort.Strings(names)

	var issues []string
	for _, name := range names {
		path := filepath.Join(installed.Path, filepath.FromSlash(name))
		exists, err := files.Exists(path)
		if err != nil {
			return nil, err
		}
		if !exists {
			issues = append(issues, fmt.Sprintf("%s is missing", name))
			continue
		}
		digest, err := util.SHA256HashFile(path)
		if err != nil {
			return nil, err
		}
		if digest != checksums[name] {
			issues = append(issues, fmt.Sprintf("%s was modified after install", name))
		}
	}

	// FILES.json only says what the archive carried. Anything else on disk
	// got there after the install.
	err = filepath.Walk(installed.Path, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(installed.Path, path)
		if err != nil {
			return err
		}
		name := filepath.ToSlash(rel)
		if name == archive.ManifestFilename || name == archive.FilesFilename {
			return nil
		}
		if _, ok := checksums[name]; !ok {
			issues = append(issues, fmt.Sprintf("%s was added after install", name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return issues, nil
}
