package util

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
)

// SourceCache serves component sources from memory-mapped files.
//
// Read returns a private copy of the file contents, so callers may keep
// the bytes after the mapping is released. Files that cannot be mapped
// are read with os.ReadFile instead. Invalidate drops a single entry and
// must be called when a file changes on disk; the watcher does this before
// re-analyzing.
//
// Safe for concurrent use.
type SourceCache struct {
	maxFiles int
	logger   *slog.Logger

	mu      sync.RWMutex
	entries map[string]*sourceEntry

	statsMu sync.Mutex
	stats   SourceCacheStats
}

type sourceEntry struct {
	data mmap.MMap
	file *os.File
	// heap holds the contents when mmap failed or the file was empty.
	heap []byte
}

func (e *sourceEntry) bytes() []byte {
	if e.data != nil {
		return e.data
	}
	return e.heap
}

func (e *sourceEntry) release() error {
	var err error
	if e.data != nil {
		err = e.data.Unmap()
	}
	if e.file != nil {
		if cerr := e.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// SourceCacheStats tracks cache behavior.
type SourceCacheStats struct {
	Hits          int64
	Misses        int64
	MmapFailures  int64
	Invalidations int64
	Cached        int
}

// DefaultMaxCachedSources caps the mappings a long-lived cache keeps open,
// which bounds its file descriptor use.
const DefaultMaxCachedSources = 10000

// NewSourceCache creates a cache holding at most maxFiles mappings
// (0 means unlimited). When the limit is reached further files are read
// without being cached.
func NewSourceCache(maxFiles int, logger *slog.Logger) *SourceCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceCache{
		maxFiles: maxFiles,
		logger:   logger,
		entries:  make(map[string]*sourceEntry),
	}
}

// Limit returns the maximum number of cached files (0 means unlimited).
func (c *SourceCache) Limit() int {
	return c.maxFiles
}

// Read returns the contents of path.
func (c *SourceCache) Read(path string) ([]byte, error) {
	c.mu.RLock()
	if e, ok := c.entries[path]; ok {
		out := clone(e.bytes())
		c.mu.RUnlock()
		c.record(func(s *SourceCacheStats) { s.Hits++ })
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok {
		c.record(func(s *SourceCacheStats) { s.Hits++ })
		return clone(e.bytes()), nil
	}
	c.record(func(s *SourceCacheStats) { s.Misses++ })

	e, err := c.load(path)
	if err != nil {
		return nil, err
	}

	if c.maxFiles > 0 && len(c.entries) >= c.maxFiles {
		out := clone(e.bytes())
		if err := e.release(); err != nil {
			c.logger.Warn("failed to release uncached source", "path", path, "error", err)
		}
		return out, nil
	}

	c.entries[path] = e
	return clone(e.bytes()), nil
}

// load maps path read-only. Must be called with mu held.
func (c *SourceCache) load(path string) (*sourceEntry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}

	stat, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if stat.IsDir() {
		file.Close()
		return nil, fmt.Errorf("%q is a directory", path)
	}

	// Zero-length files cannot be mapped.
	if stat.Size() == 0 {
		file.Close()
		return &sourceEntry{heap: []byte{}}, nil
	}

	data, err := mmap.Map(file, mmap.RDONLY, 0)
	if err != nil {
		file.Close()
		c.logger.Warn("mmap failed, reading file instead", "path", path, "error", err)
		c.record(func(s *SourceCacheStats) { s.MmapFailures++ })

		heap, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read %q: %w", path, readErr)
		}
		return &sourceEntry{heap: heap}, nil
	}

	return &sourceEntry{data: data, file: file}, nil
}

// Invalidate drops the cached mapping for path, if any.
func (c *SourceCache) Invalidate(path string) {
	c.mu.Lock()
	e, ok := c.entries[path]
	delete(c.entries, path)
	c.mu.Unlock()

	if !ok {
		return
	}
	c.record(func(s *SourceCacheStats) { s.Invalidations++ })
	if err := e.release(); err != nil {
		c.logger.Warn("failed to release source", "path", path, "error", err)
	}
}

// Len returns the number of cached files.
func (c *SourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Stats returns a snapshot of cache counters.
func (c *SourceCache) Stats() SourceCacheStats {
	cached := c.Len()

	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	stats := c.stats
	stats.Cached = cached
	return stats
}

// Close unmaps every cached file.
func (c *SourceCache) Close() error {
	return c.Clear()
}

// Clear unmaps every cached file. The cache stays usable and refills on
// the next Read.
func (c *SourceCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	for path, e := range c.entries {
		if err := e.release(); err != nil {
			errs = append(errs, fmt.Errorf("release %q: %w", path, err))
		}
	}
	c.entries = make(map[string]*sourceEntry)

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}
	return nil
}

func (c *SourceCache) record(update func(*SourceCacheStats)) {
	c.statsMu.Lock()
	update(&c.stats)
	c.statsMu.Unlock()
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
