package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"genosum/internal/errors"
)

// FileInfo represents information about a discovered file
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
	IsDir   bool
}

// Discovery provides file discovery operations
type Discovery struct {
	basePath string
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// resolve joins relative directories onto the base path
func (d *Discovery) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.basePath == "" {
		return dir
	}
	return filepath.Join(d.basePath, dir)
}

// ListDirectories lists the immediate subdirectories of dir, sorted by name.
// Regular files are skipped. Symlinks are followed so a linked sample
// directory counts as a directory.
func (d *Discovery) ListDirectories(dir string) ([]FileInfo, error) {
	return d.list(dir, true)
}

// ListFiles lists the non-directory entries of dir, sorted by name.
func (d *Discovery) ListFiles(dir string) ([]FileInfo, error) {
	return d.list(dir, false)
}

func (d *Discovery) list(dir string, wantDirs bool) ([]FileInfo, error) {
	fullPath := d.resolve(dir)

	entries, err := os.ReadDir(fullPath)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to read directory %s", fullPath), err)
	}

	var found []FileInfo
	for _, entry := range entries {
		path := filepath.Join(fullPath, entry.Name())

		info, err := os.Stat(path)
		if err != nil {
			// dangling symlink or entry removed mid-listing
			continue
		}
		if info.IsDir() != wantDirs {
			continue
		}

		found = append(found, FileInfo{
			Path:    path,
			Name:    entry.Name(),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			IsDir:   info.IsDir(),
		})
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})

	return found, nil
}
