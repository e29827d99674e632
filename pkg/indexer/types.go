// Package indexer keeps an LRU-bounded index of analyzed component docs and
// watches component files so docs are regenerated when sources change.
package indexer

import (
	"github.com/gnana997/sveltedoc/pkg/model"
)

// IndexedDoc is the unit of caching in the DocIndex.
type IndexedDoc struct {
	// Path is the absolute path to the component file
	Path string

	Doc model.ComponentDoc

	// ContentHash is the SHA-256 of the source the doc was built from
	ContentHash string

	// Timestamp when the file was indexed (Unix milliseconds)
	Timestamp int64
}

// Analyzer produces the documentation model of one component source.
type Analyzer interface {
	Analyze(source []byte, filename string) model.ComponentDoc
}

// SourceReader loads component source bytes.
type SourceReader interface {
	Read(path string) ([]byte, error)
}

// DocIndexConfig configures the doc index.
type DocIndexConfig struct {
	// MaxCachedFiles is the maximum number of docs kept in the LRU cache.
	// Default: 1000 files
	MaxCachedFiles int

	// Debug enables verbose logging
	Debug bool
}

// DefaultDocIndexConfig returns the default configuration.
func DefaultDocIndexConfig() DocIndexConfig {
	return DocIndexConfig{
		MaxCachedFiles: 1000,
	}
}

// DocIndexStats provides statistics about the index state.
type DocIndexStats struct {
	// IndexedFiles is the total number of analyses stored (including evicted)
	IndexedFiles int

	// CachedFiles is the number of docs currently in the LRU cache
	CachedFiles int

	// DirtyFiles is the number of files marked for recomputation
	DirtyFiles int

	CacheHits    int64
	CacheMisses  int64
	CacheHitRate float64

	// Evictions is the number of LRU evictions that have occurred
	Evictions int64

	// AverageIndexTimeMs is the average time to analyze a file
	AverageIndexTimeMs float64
}

// WatchOptions configures file watching behavior.
type WatchOptions struct {
	// DebounceMs is the debounce delay in milliseconds.
	// Multiple rapid changes are grouped into a single regeneration.
	// Default: 200ms
	DebounceMs int

	// IgnorePatterns are doublestar globs matched against paths relative
	// to the watched root.
	IgnorePatterns []string

	// OnUpdate is called after a changed component has been re-analyzed.
	OnUpdate func(doc *IndexedDoc)

	// OnRemove is called after a component file was removed or renamed.
	OnRemove func(path string)
}

// DefaultWatchOptions returns recommended watch options.
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		DebounceMs: 200,
		IgnorePatterns: []string{
			"**/*.swp",
			"**/*.tmp",
			"**/*~",
			".git/**",
			"**/node_modules/**",
			".svelte-kit/**",
		},
	}
}
