package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/sveltedoc/pkg/model"
)

// DocIndex caches analyzed component docs by file path with lazy
// invalidation.
//
// **Architecture:**
//   - LRU cache FilePath → IndexedDoc for automatic memory management
//   - Name index ComponentName → FilePath for lookups by component
//   - Dirty set for lazy invalidation (file watcher marks, Refresh recomputes)
//
// **Thread Safety:**
//   - Uses sync.RWMutex for concurrent access
//   - Atomic counters for statistics
//
// **Usage:**
//
//	idx := NewDocIndex(DefaultDocIndexConfig(), logger)
//	defer idx.Close()
//
//	doc, changed, err := idx.Refresh(path, introspector, cache)
type DocIndex struct {
	docs *lru.Cache[string, *IndexedDoc]

	// byName maps component name → file path. Entries are dropped when
	// the doc is evicted.
	byName map[string]string

	dirty map[string]bool

	mu sync.RWMutex

	indexedFiles   atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	evictions      atomic.Int64
	totalIndexTime atomic.Int64 // Microseconds

	config DocIndexConfig
	logger *slog.Logger
}

// NewDocIndex creates a new doc index.
func NewDocIndex(config DocIndexConfig, logger *slog.Logger) *DocIndex {
	if logger == nil {
		logger = slog.Default()
	}
	if config.MaxCachedFiles <= 0 {
		config.MaxCachedFiles = 1000
	}

	idx := &DocIndex{
		byName: make(map[string]string),
		dirty:  make(map[string]bool),
		config: config,
		logger: logger,
	}

	// The eviction callback runs inside Add/Remove, which are only called
	// with mu held for writing.
	cache, err := lru.NewWithEvict(config.MaxCachedFiles, func(path string, value *IndexedDoc) {
		if idx.byName[value.Doc.Name] == path {
			delete(idx.byName, value.Doc.Name)
		}
		if config.Debug {
			logger.Debug("LRU evicting doc", "path", path, "component", value.Doc.Name)
		}
	})
	if err != nil {
		// Only reachable with a non-positive size, excluded above.
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}
	idx.docs = cache

	logger.Debug("DocIndex initialized", "max_cached_files", config.MaxCachedFiles)
	return idx
}

// Put stores doc as the analysis of path built from source.
func (idx *DocIndex) Put(path string, source []byte, doc model.ComponentDoc) *IndexedDoc {
	entry := &IndexedDoc{
		Path:        path,
		Doc:         doc,
		ContentHash: ComputeContentHash(source),
		Timestamp:   time.Now().UnixMilli(),
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	// Remove first so the eviction callback clears a stale name entry.
	idx.docs.Remove(path)
	if idx.docs.Add(path, entry) {
		idx.evictions.Add(1)
	}
	idx.byName[doc.Name] = path
	delete(idx.dirty, path)
	idx.indexedFiles.Add(1)

	if idx.config.Debug {
		idx.logger.Debug("Indexed doc", "path", path, "component", doc.Name)
	}
	return entry
}

// Get retrieves the doc for a file.
func (idx *DocIndex) Get(path string) (*IndexedDoc, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entry, found := idx.docs.Get(path)
	if found {
		idx.cacheHits.Add(1)
	} else {
		idx.cacheMisses.Add(1)
	}
	return entry, found
}

// ByName retrieves a doc by component name.
func (idx *DocIndex) ByName(name string) (*IndexedDoc, bool) {
	idx.mu.RLock()
	path, ok := idx.byName[name]
	idx.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return idx.Get(path)
}

// All returns a snapshot of the cached docs sorted by path.
func (idx *DocIndex) All() []*IndexedDoc {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	keys := idx.docs.Keys()
	result := make([]*IndexedDoc, 0, len(keys))
	for _, key := range keys {
		if entry, ok := idx.docs.Peek(key); ok {
			result = append(result, entry)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result
}

// Refresh returns the doc for path, re-analyzing when the file is dirty,
// unknown, or its content hash changed. changed reports whether a new
// analysis was stored.
func (idx *DocIndex) Refresh(path string, an Analyzer, src SourceReader) (*IndexedDoc, bool, error) {
	source, err := src.Read(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	hash := ComputeContentHash(source)
	if entry, ok := idx.Get(path); ok && !idx.IsDirty(path) && entry.ContentHash == hash {
		return entry, false, nil
	}

	start := time.Now()
	doc := an.Analyze(source, path)
	idx.totalIndexTime.Add(time.Since(start).Microseconds())

	return idx.Put(path, source, doc), true, nil
}

// Invalidate marks a file as dirty for lazy recomputation.
//
// The cached doc is kept until the next Refresh.
func (idx *DocIndex) Invalidate(path string) {
	idx.mu.Lock()
	idx.dirty[path] = true
	idx.mu.Unlock()

	if idx.config.Debug {
		idx.logger.Debug("Invalidated doc", "path", path)
	}
}

// IsDirty checks if a file is marked for recomputation.
func (idx *DocIndex) IsDirty(path string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dirty[path]
}

// Remove drops a file from the index.
func (idx *DocIndex) Remove(path string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.docs.Remove(path)
	delete(idx.dirty, path)
}

// GetStats returns current index statistics.
func (idx *DocIndex) GetStats() DocIndexStats {
	idx.mu.RLock()
	cached := idx.docs.Len()
	dirty := len(idx.dirty)
	idx.mu.RUnlock()

	hits := idx.cacheHits.Load()
	misses := idx.cacheMisses.Load()
	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	indexed := idx.indexedFiles.Load()
	avgTime := 0.0
	if indexed > 0 {
		avgTime = float64(idx.totalIndexTime.Load()) / float64(indexed) / 1000.0
	}

	return DocIndexStats{
		IndexedFiles:       int(indexed),
		CachedFiles:        cached,
		DirtyFiles:         dirty,
		CacheHits:          hits,
		CacheMisses:        misses,
		CacheHitRate:       hitRate,
		Evictions:          idx.evictions.Load(),
		AverageIndexTimeMs: avgTime,
	}
}

// ComputeContentHash computes the SHA-256 hash of file content.
func ComputeContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Close releases all cached docs. The index cannot be used afterwards.
func (idx *DocIndex) Close() {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.docs.Purge()
	idx.byName = nil
	idx.dirty = nil
}
