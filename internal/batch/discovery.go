package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/shelfscan/expiryocr/internal/utils"
)

// DiscoverImageFiles expands the given paths (files or directories) into a
// sorted list of supported image files, applying include/exclude patterns.
func DiscoverImageFiles(args []string, cfg Config) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if info.IsDir() {
			found, err := discoverInDirectory(arg, cfg)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if includeFile(arg, cfg) {
			files = append(files, arg)
		}
	}
	sort.Strings(files)
	return files, nil
}

func discoverInDirectory(dir string, cfg Config) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if !cfg.Recursive && path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if utils.IsSupportedImage(path) && includeFile(path, cfg) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func includeFile(path string, cfg Config) bool {
	if matchesAny(path, cfg.ExcludePatterns) {
		return false
	}
	if len(cfg.IncludePatterns) == 0 {
		return true
	}
	return matchesAny(path, cfg.IncludePatterns)
}

func matchesAny(path string, patterns []string) bool {
	base := filepath.Base(path)
	for _, p := range patterns {
		if ok, err := filepath.Match(p, base); err == nil && ok {
			return true
		}
	}
	return false
}
