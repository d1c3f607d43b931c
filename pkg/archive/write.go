package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archiver/v3"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/merizrizal/galaxyctl/pkg/buildignore"
	"github.com/merizrizal/galaxyctl/pkg/config"
	"github.com/merizrizal/galaxyctl/pkg/global"
	"github.com/merizrizal/galaxyctl/pkg/util"
	"github.com/merizrizal/galaxyctl/pkg/util/files"
)

type BuildOptions struct {
	// OutputDir is where the archive is written. Defaults to the current
	// directory.
	OutputDir string
	// Force overwrites an existing archive of the same version.
	Force bool
	// Progress, when set, renders a bar over the bytes packaged.
	Progress *mpb.Progress
}

// Build packages the collection rooted at rootDir into
// <namespace>-<name>-<version>.tar.gz. The archive carries MANIFEST.json and
// FILES.json generated from the manifest and the tree; galaxy.yml itself is
// not packaged. Returns the path of the written archive.
func Build(rootDir string, m *config.Manifest, opts BuildOptions) (string, error) {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", err
	}
	destPath := filepath.Join(outputDir, m.ArchiveFilename())

	exists, err := files.Exists(destPath)
	if err != nil {
		return "", err
	}
	if exists && !opts.Force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite it", destPath)
	}

	patterns := append(alwaysExcluded(m), m.BuildIgnore...)
	matcher := buildignore.NewMatcher(patterns)

	fileManifest, err := generateFileManifest(rootDir, matcher)
	if err != nil {
		return "", err
	}
	filesJSON, err := marshalMeta(fileManifest)
	if err != nil {
		return "", err
	}
	collectionManifest := &CollectionManifest{
		CollectionInfo:   NewCollectionInfo(m),
		FileManifestFile: fileEntry(FilesFilename, util.SHA256HashBytes(filesJSON)),
		Format:           metaFormat,
	}
	manifestJSON, err := marshalMeta(collectionManifest)
	if err != nil {
		return "", err
	}

	// The generated metadata goes through a staging dir so every archive
	// entry is written from a real file the same way.
	stagingDir, err := os.MkdirTemp("", "galaxyctl-build")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(stagingDir)
	if err := os.WriteFile(filepath.Join(stagingDir, ManifestFilename), manifestJSON, 0o644); err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(stagingDir, FilesFilename), filesJSON, 0o644); err != nil {
		return "", err
	}

	bar, err := newBuildBar(opts.Progress, m, rootDir, fileManifest, int64(len(manifestJSON)+len(filesJSON)))
	if err != nil {
		return "", err
	}

	// Written to a temp name first so a failed build never leaves a partial
	// archive under the canonical name.
	out, err := os.CreateTemp(outputDir, ".galaxyctl-*.tar.gz")
	if err != nil {
		return "", err
	}
	tmpPath := out.Name()
	success := false
	defer func() {
		if !success {
			out.Close()
			os.Remove(tmpPath)
		}
	}()

	tgz := &archiver.TarGz{Tar: &archiver.Tar{MkdirAll: true}}
	if err := tgz.Create(out); err != nil {
		return "", fmt.Errorf("creating archive: %w", err)
	}

	writeEntry := func(sourcePath, nameInArchive string) error {
		info, err := os.Stat(sourcePath)
		if err != nil {
			return err
		}

		var reader io.ReadCloser
		if info.Mode().IsRegular() {
			file, err := os.Open(sourcePath)
			if err != nil {
				return fmt.Errorf("%s: opening: %w", sourcePath, err)
			}
			reader = file
			if bar != nil {
				reader = bar.ProxyReader(file)
			}
		}

		err = tgz.Write(archiver.File{
			FileInfo: archiver.FileInfo{
				FileInfo:   info,
				CustomName: nameInArchive,
			},
			ReadCloser: reader,
		})
		if reader != nil {
			reader.Close()
		}
		return err
	}

	if err := writeEntry(filepath.Join(stagingDir, ManifestFilename), ManifestFilename); err != nil {
		return "", fmt.Errorf("%s: writing to archive: %w", ManifestFilename, err)
	}
	if err := writeEntry(filepath.Join(stagingDir, FilesFilename), FilesFilename); err != nil {
		return "", fmt.Errorf("%s: writing to archive: %w", FilesFilename, err)
	}
	for _, entry := range fileManifest.Files {
		if entry.Name == "." {
			continue
		}
		sourcePath := filepath.Join(rootDir, filepath.FromSlash(entry.Name))
		if err := writeEntry(sourcePath, entry.Name); err != nil {
			return "", fmt.Errorf("%s: writing to archive: %w", entry.Name, err)
		}
	}

	if err := tgz.Close(); err != nil {
		return "", fmt.Errorf("closing archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	if bar != nil {
		bar.SetTotal(-1, true)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return "", err
	}
	success = true
	return destPath, nil
}

// alwaysExcluded lists what never belongs in an archive no matter what
// build_ignore says: the manifest source, regenerated metadata, and archives
// of this collection from previous builds.
func alwaysExcluded(m *config.Manifest) []string {
	return []string{
		global.ConfigFilename,
		ManifestFilename,
		FilesFilename,
		fmt.Sprintf("%s-%s-*.tar.gz", m.Namespace, m.Name),
	}
}

func newBuildBar(progress *mpb.Progress, m *config.Manifest, rootDir string, fileManifest *FileManifest, metaSize int64) (*mpb.Bar, error) {
	if progress == nil {
		return nil, nil
	}

	total := metaSize
	for _, entry := range fileManifest.Files {
		if entry.FType != ftypeFile {
			continue
		}
		info, err := os.Stat(filepath.Join(rootDir, filepath.FromSlash(entry.Name)))
		if err != nil {
			return nil, err
		}
		total += info.Size()
	}

	bar := progress.New(total,
		mpb.BarStyle().Rbound("|"),
		mpb.PrependDecorators(
			decor.Name(m.FQCN()+" "),
			decor.Counters(decor.SizeB1024(0), "% .1f / % .1f"),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)
	return bar, nil
}
