package outfit

import (
	"os"
	"path/filepath"
	"sort"
)

// Lister lists directory contents. Failures yield empty results.
type Lister interface {
	// Dirs returns the full paths of the subdirectories of path.
	Dirs(path string) []string
	// Files returns the full paths of the files in path.
	Files(path string) []string
}

// OSLister lists the local file system.
type OSLister struct{}

func (OSLister) Dirs(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs
}

func (OSLister) Files(path string) []string {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() {
			files = append(files, filepath.Join(path, e.Name()))
		}
	}
	sort.Strings(files)
	return files
}
