package file

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FindRecentAfter walks dir and returns the files modified after startTime.
// When exts is not empty only files with one of those extensions are returned.
// Unreadable subdirectories are skipped.
func FindRecentAfter(dir string, startTime time.Time, exts ...string) ([]string, error) {
	var recentFiles []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if path != dir && info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return err
		}
		if info.IsDir() || !info.ModTime().After(startTime) {
			return nil
		}
		if len(exts) > 0 && !hasExt(path, exts) {
			return nil
		}
		recentFiles = append(recentFiles, path)
		return nil
	})

	return recentFiles, err
}

func hasExt(path string, exts []string) bool {
	ext := filepath.Ext(path)
	for _, e := range exts {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
