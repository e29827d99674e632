package indexer

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/gnana997/sveltedoc/pkg/parser"
)

// Invalidator drops cached source bytes for a path.
type Invalidator interface {
	Invalidate(path string)
}

// CachedSource is a SourceReader whose entries can be invalidated.
type CachedSource interface {
	SourceReader
	Invalidator
}

// FileWatcher watches component files and re-analyzes them when they change.
//
// **Features:**
//   - Debouncing - Groups rapid writes to one file into a single analysis
//   - Selective - Only re-analyzes the changed file
//   - Content-aware - Writes that leave the content unchanged are ignored
//
// **Usage:**
//
//	watcher, err := NewFileWatcher(index, introspector, cache, opts, logger)
//	if err != nil {
//	    return err
//	}
//	if err := watcher.Start(root); err != nil {
//	    return err
//	}
//	defer watcher.Stop()
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	index    *DocIndex
	analyzer Analyzer
	source   CachedSource
	logger   *slog.Logger
	options  WatchOptions
	root     string

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	mu       sync.Mutex
}

// NewFileWatcher creates a new file watcher.
func NewFileWatcher(
	index *DocIndex,
	analyzer Analyzer,
	source CachedSource,
	options WatchOptions,
	logger *slog.Logger,
) (*FileWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	for _, pattern := range options.IgnorePatterns {
		if !doublestar.ValidatePattern(pattern) {
			watcher.Close()
			return nil, fmt.Errorf("invalid ignore pattern: %s", pattern)
		}
	}
	if options.DebounceMs <= 0 {
		options.DebounceMs = 200
	}

	return &FileWatcher{
		watcher:        watcher,
		index:          index,
		analyzer:       analyzer,
		source:         source,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start begins watching rootPath and its subdirectories.
func (fw *FileWatcher) Start(rootPath string) error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return fmt.Errorf("watcher already stopped")
	}
	fw.mu.Unlock()

	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", rootPath, err)
	}
	fw.root = abs

	if err := fw.watcher.Add(abs); err != nil {
		return fmt.Errorf("failed to watch %s: %w", rootPath, err)
	}
	if err := fw.addTree(abs); err != nil {
		return fmt.Errorf("failed to setup watches: %w", err)
	}

	fw.logger.Info("File watcher started", "root", abs)

	go fw.eventLoop()
	return nil
}

// addTree watches every non-ignored directory below dir.
func (fw *FileWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() || path == fw.root {
			return nil
		}
		if fw.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := fw.watcher.Add(path); err != nil {
			fw.logger.Warn("Failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

// Stop stops the file watcher. Safe to call multiple times.
func (fw *FileWatcher) Stop() error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return nil
	}

	fw.stopped = true
	close(fw.stopChan)

	fw.debounceMu.Lock()
	for _, timer := range fw.debounceTimers {
		timer.Stop()
	}
	fw.debounceTimers = make(map[string]*time.Timer)
	fw.debounceMu.Unlock()

	err := fw.watcher.Close()
	fw.logger.Info("File watcher stopped")
	return err
}

func (fw *FileWatcher) eventLoop() {
	for {
		select {
		case <-fw.stopChan:
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handleEvent(event)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Error("File watcher error", "error", err)
		}
	}
}

func (fw *FileWatcher) handleEvent(event fsnotify.Event) {
	filePath := event.Name

	if fw.shouldIgnore(filePath) {
		return
	}

	// New directories need their own watch.
	if event.Has(fsnotify.Create) && isDir(filePath) {
		if err := fw.watcher.Add(filePath); err != nil {
			fw.logger.Warn("Failed to watch directory", "path", filePath, "error", err)
		}
		if err := fw.addTree(filePath); err != nil {
			fw.logger.Warn("Failed to watch directory tree", "path", filePath, "error", err)
		}
		return
	}

	if !parser.IsComponentFile(filePath) {
		return
	}

	fw.logger.Debug("File event", "op", event.Op.String(), "file", filePath)

	switch {
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		fw.debounceReanalyze(filePath)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		fw.removeFile(filePath)
	}
}

// debounceReanalyze schedules an analysis after the debounce delay. Only
// the last event inside the window triggers it.
func (fw *FileWatcher) debounceReanalyze(filePath string) {
	fw.debounceMu.Lock()
	defer fw.debounceMu.Unlock()

	if timer, exists := fw.debounceTimers[filePath]; exists {
		timer.Stop()
	}

	// The callback reads timer under debounceMu, which is held until the
	// assignment below is done.
	var timer *time.Timer
	timer = time.AfterFunc(
		time.Duration(fw.options.DebounceMs)*time.Millisecond,
		func() {
			fw.reanalyzeFile(filePath)

			// A newer event may have scheduled a successor meanwhile.
			fw.debounceMu.Lock()
			if fw.debounceTimers[filePath] == timer {
				delete(fw.debounceTimers, filePath)
			}
			fw.debounceMu.Unlock()
		},
	)
	fw.debounceTimers[filePath] = timer
}

// reanalyzeFile drops the cached source so Refresh sees the new bytes; the
// content hash then decides whether the doc actually changed.
func (fw *FileWatcher) reanalyzeFile(filePath string) {
	fw.source.Invalidate(filePath)

	entry, changed, err := fw.index.Refresh(filePath, fw.analyzer, fw.source)
	if err != nil {
		fw.logger.Warn("Failed to re-analyze file", "file", filePath, "error", err)
		return
	}
	if !changed {
		return
	}

	fw.logger.Debug("File re-analyzed",
		"file", filePath,
		"component", entry.Doc.Name,
		"props", len(entry.Doc.Props),
		"events", len(entry.Doc.Events),
		"slots", len(entry.Doc.Slots))

	if fw.options.OnUpdate != nil {
		fw.options.OnUpdate(entry)
	}
}

func (fw *FileWatcher) removeFile(filePath string) {
	fw.logger.Debug("Removing file from index", "file", filePath)
	fw.index.Remove(filePath)
	fw.source.Invalidate(filePath)

	if fw.options.OnRemove != nil {
		fw.options.OnRemove(filePath)
	}
}

// shouldIgnore matches path, relative to the watched root, against the
// ignore patterns.
func (fw *FileWatcher) shouldIgnore(path string) bool {
	rel := path
	if fw.root != "" {
		if r, err := filepath.Rel(fw.root, path); err == nil {
			rel = r
		}
	}
	rel = filepath.ToSlash(rel)

	for _, pattern := range fw.options.IgnorePatterns {
		if matched, _ := doublestar.PathMatch(pattern, rel); matched {
			return true
		}
		if matched, _ := doublestar.PathMatch(pattern, rel+"/"); matched {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// GetStats returns file watcher statistics.
func (fw *FileWatcher) GetStats() FileWatcherStats {
	fw.debounceMu.Lock()
	pending := len(fw.debounceTimers)
	fw.debounceMu.Unlock()

	fw.mu.Lock()
	running := !fw.stopped
	fw.mu.Unlock()

	return FileWatcherStats{
		PendingAnalyses: pending,
		IsRunning:       running,
	}
}

// FileWatcherStats contains file watcher statistics.
type FileWatcherStats struct {
	PendingAnalyses int
	IsRunning       bool
}
