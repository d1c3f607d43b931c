package archive

import (
	"archive/tar"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archiver/v3"

	"github.com/merizrizal/galaxyctl/pkg/errors"
	"github.com/merizrizal/galaxyctl/pkg/util"
)

// ReadCollectionManifest returns the MANIFEST.json of a collection archive,
// after checking that FILES.json matches the digest recorded for it.
func ReadCollectionManifest(archivePath string) (*CollectionManifest, error) {
	manifest, _, err := ReadMeta(archivePath)
	return manifest, err
}

// ReadMeta reads MANIFEST.json and FILES.json out of an archive and
// cross-checks them.
func ReadMeta(archivePath string) (*CollectionManifest, *FileManifest, error) {
	var manifestJSON, filesJSON []byte

	err := walkArchive(archivePath, func(hdr *tar.Header, r io.Reader) error {
		var err error
		switch entryName(hdr) {
		case ManifestFilename:
			manifestJSON, err = io.ReadAll(r)
		case FilesFilename:
			filesJSON, err = io.ReadAll(r)
		}
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	if manifestJSON == nil {
		return nil, nil, fmt.Errorf("%s is not a collection archive: no %s entry", archivePath, ManifestFilename)
	}
	if filesJSON == nil {
		return nil, nil, fmt.Errorf("%s is not a collection archive: no %s entry", archivePath, FilesFilename)
	}

	return parseMeta(manifestJSON, filesJSON)
}

// LoadInstalled reads the metadata of an installed collection directory.
func LoadInstalled(dir string) (*CollectionManifest, *FileManifest, error) {
	manifestJSON, err := os.ReadFile(filepath.Join(dir, ManifestFilename))
	if err != nil {
		return nil, nil, err
	}
	filesJSON, err := os.ReadFile(filepath.Join(dir, FilesFilename))
	if err != nil {
		return nil, nil, err
	}
	return parseMeta(manifestJSON, filesJSON)
}

func parseMeta(manifestJSON, filesJSON []byte) (*CollectionManifest, *FileManifest, error) {
	manifest := &CollectionManifest{}
	if err := json.Unmarshal(manifestJSON, manifest); err != nil {
		return nil, nil, fmt.Errorf("Failed to parse %s: %w", ManifestFilename, err)
	}

	if manifest.FileManifestFile.ChksumSHA256 != nil {
		digest := util.SHA256HashBytes(filesJSON)
		if digest != *manifest.FileManifestFile.ChksumSHA256 {
			return nil, nil, errors.ChecksumMismatch(fmt.Sprintf("%s: expected sha256 %s, got %s", FilesFilename, *manifest.FileManifestFile.ChksumSHA256, digest))
		}
	}

	fileManifest := &FileManifest{}
	if err := json.Unmarshal(filesJSON, fileManifest); err != nil {
		return nil, nil, fmt.Errorf("Failed to parse %s: %w", FilesFilename, err)
	}
	return manifest, fileManifest, nil
}

// Extract unpacks an archive into destDir, verifying every regular file
// against its FILES.json digest as it is written. The extraction fails on an
// entry with a wrong digest, on a file listed in FILES.json but absent from
// the archive, and on a regular file the archive carries without a FILES.json
// entry.
func Extract(archivePath, destDir string) (*CollectionManifest, error) {
	manifest, fileManifest, err := ReadMeta(archivePath)
	if err != nil {
		return nil, err
	}
	checksums := fileManifest.ChecksumsByName()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return nil, err
	}

	extracted := make(map[string]bool, len(checksums))
	err = walkArchive(archivePath, func(hdr *tar.Header, r io.Reader) error {
		name := entryName(hdr)
		if name == "." {
			return nil
		}
		if path.IsAbs(name) || strings.HasPrefix(name, "..") {
			return fmt.Errorf("archive entry %q escapes the destination directory", hdr.Name)
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			return os.MkdirAll(target, 0o755)
		case tar.TypeReg:
			want, listed := checksums[name]
			if !listed && name != ManifestFilename && name != FilesFilename {
				return fmt.Errorf("%s is in the archive but not listed in %s", name, FilesFilename)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			digest, err := writeFileHashed(target, r, fs.FileMode(hdr.Mode).Perm())
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if listed {
				if want != digest {
					return errors.ChecksumMismatch(fmt.Sprintf("%s: expected sha256 %s, got %s", name, want, digest))
				}
				extracted[name] = true
			}
			return nil
		default:
			// Collection archives only carry files and directories.
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	for name := range checksums {
		if !extracted[name] {
			return nil, fmt.Errorf("%s is listed in %s but missing from the archive", name, FilesFilename)
		}
	}

	return manifest, nil
}

func writeFileHashed(target string, r io.Reader, mode fs.FileMode) (string, error) {
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return "", err
	}

	hash := sha256.New()
	if _, err := io.Copy(out, io.TeeReader(r, hash)); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func entryName(hdr *tar.Header) string {
	return strings.TrimPrefix(path.Clean(hdr.Name), "./")
}

func walkArchive(archivePath string, fn func(hdr *tar.Header, r io.Reader) error) error {
	file, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	tgz := &archiver.TarGz{Tar: &archiver.Tar{}}
	if err := tgz.Open(file, info.Size()); err != nil {
		return fmt.Errorf("%s: opening archive: %w", archivePath, err)
	}
	defer tgz.Close()

	for {
		entry, err := tgz.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%s: reading archive: %w", archivePath, err)
		}

		hdr, ok := entry.Header.(*tar.Header)
		if !ok {
			entry.Close()
			continue
		}
		err = fn(hdr, entry)
		entry.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
