package plugin

import (
	"os"
	"path/filepath"
	"sort"
)

// DefaultPluginDirectory returns the directory scanned when none is configured:
// a "plugins" directory next to the executable, or in the working directory
// when the executable path is unknown.
func DefaultPluginDirectory() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Join(filepath.Dir(exe), "plugins")
	}
	if cwd, err := os.Getwd(); err == nil {
		return filepath.Join(cwd, "plugins")
	}
	return "plugins"
}

// ScanDirectory lists the regular files directly inside dir that accept
// reports as loadable, sorted by file name. Subdirectories are not entered.
func ScanDirectory(dir string, accept func(path string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			// Follow symlinks to regular files; skip everything else
			if entry.Type()&os.ModeSymlink == 0 {
				continue
			}
			fi, err := os.Stat(filepath.Join(dir, entry.Name()))
			if err != nil || !fi.Mode().IsRegular() {
				continue
			}
		}
		path := filepath.Join(dir, entry.Name())
		if accept(path) {
			paths = append(paths, path)
		}
	}

	sort.Strings(paths)
	return paths, nil
}
