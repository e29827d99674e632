package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/gnana997/sveltedoc/pkg/parser"
)

// DiscoverFiles walks rootDir applying include/exclude globs from cfg.
// Returns a sorted slice of absolute file paths for deterministic output.
//
// When rootDir names a single file it is returned as-is, provided it is a
// component file.
func DiscoverFiles(rootDir string, cfg ScanConfig) ([]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve root path: %w", err)
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", rootDir, err)
	}
	if !info.IsDir() {
		if !parser.IsComponentFile(absRoot) {
			return nil, fmt.Errorf("%s is not a component file", rootDir)
		}
		return []string{absRoot}, nil
	}

	var files []string

	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil // Continue walking on errors.
		}

		relPath, err := filepath.Rel(absRoot, path)
		if err != nil {
			relPath = path
		}
		relPath = filepath.ToSlash(relPath)

		if relPath != "." && excluded(cfg.Exclude, relPath) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if !included(cfg.Include, relPath) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// Validate checks that every pattern is a valid glob.
func (cfg ScanConfig) Validate() error {
	for _, pattern := range cfg.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}
	return nil
}

// Matches reports whether relPath (slash-separated, relative to the scan
// root) passes the include and exclude patterns of cfg.
func (cfg ScanConfig) Matches(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	return !excluded(cfg.Exclude, relPath) && included(cfg.Include, relPath)
}

func excluded(patterns []string, relPath string) bool {
	for _, pattern := range patterns {
		// Directory patterns like "dist/**" also exclude "dist" itself.
		if matched, _ := doublestar.PathMatch(pattern, relPath); matched {
			return true
		}
		if matched, _ := doublestar.PathMatch(pattern, relPath+"/"); matched {
			return true
		}
	}
	return false
}

func included(patterns []string, relPath string) bool {
	if len(patterns) == 0 {
		return parser.IsComponentFile(relPath)
	}
	for _, pattern := range patterns {
		if m, _ := doublestar.PathMatch(pattern, relPath); m {
			return true
		}
	}
	return false
}
