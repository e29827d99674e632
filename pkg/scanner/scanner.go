package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	"github.com/gnana997/sveltedoc/pkg/introspect"
	"github.com/gnana997/sveltedoc/pkg/util"
)

// Scanner orchestrates discovery, analysis and doc generation.
type Scanner struct {
	intro *introspect.Introspector
	cache *util.SourceCache
	log   *slog.Logger
}

// NewScanner creates a scanner with its own introspector and source cache.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{
		intro: introspect.New(nil, logger),
		cache: util.NewSourceCache(util.DefaultMaxCachedSources, logger),
		log:   logger,
	}
}

// Introspector exposes the analyzer used by the scanner.
func (s *Scanner) Introspector() *introspect.Introspector {
	return s.intro
}

// Cache exposes the source cache used by the scanner.
func (s *Scanner) Cache() *util.SourceCache {
	return s.cache
}

// Run discovers and analyzes component files under path. path may also
// name a single component file.
func (s *Scanner) Run(path string, cfg ScanConfig) (*ScanResult, error) {
	totalStart := time.Now()
	stats := ScanStats{}

	root, err := scanRoot(path)
	if err != nil {
		return nil, err
	}

	discoveryStart := time.Now()
	files, err := DiscoverFiles(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(files)
	stats.DiscoveryTimeMs = time.Since(discoveryStart).Milliseconds()

	s.log.Info("discovery complete", "files", len(files), "ms", stats.DiscoveryTimeMs)

	analysisStart := time.Now()
	results, failed := AnalyzeAll(files, s.intro, s.cache, cfg.Workers, s.log)
	stats.FilesAnalyzed = len(results)
	stats.FilesFailed = failed
	stats.AnalysisTimeMs = time.Since(analysisStart).Milliseconds()

	for _, r := range results {
		stats.PropsFound += len(r.Doc.Props)
		stats.EventsFound += len(r.Doc.Events)
		stats.SlotsFound += len(r.Doc.Slots)
	}

	s.log.Info("analysis complete",
		"analyzed", len(results), "failed", failed, "ms", stats.AnalysisTimeMs)

	stats.TotalTimeMs = time.Since(totalStart).Milliseconds()
	return &ScanResult{Root: root, Files: results, Stats: stats}, nil
}

// Generate runs the scan and writes docs plus the catalog manifest.
func (s *Scanner) Generate(path string, cfg ScanConfig, genCfg GenerateConfig) (*catalog.Catalog, *ScanStats, error) {
	totalStart := time.Now()

	result, err := s.Run(path, cfg)
	if err != nil {
		return nil, nil, err
	}
	stats := result.Stats

	if len(result.Files) == 0 {
		stats.TotalTimeMs = time.Since(totalStart).Milliseconds()
		return nil, &stats, fmt.Errorf("no component files found in %s", path)
	}

	writeStart := time.Now()
	cat, skipped := BuildCatalog(result.Files, result.Root, genCfg)
	for _, f := range skipped {
		s.log.Warn("duplicate component name, skipping", "component", f.Doc.Name, "file", f.Path)
	}
	stats.DocsSkipped = len(skipped)

	written, err := WriteDocs(cat, genCfg, s.log)
	stats.DocsWritten = written
	stats.WriteTimeMs = time.Since(writeStart).Milliseconds()
	stats.TotalTimeMs = time.Since(totalStart).Milliseconds()
	if err != nil {
		return cat, &stats, err
	}

	s.log.Info("docs written",
		"dir", genCfg.OutputDir, "docs", written, "ms", stats.WriteTimeMs)

	return cat, &stats, nil
}

// Close releases the introspector and source cache.
func (s *Scanner) Close() {
	s.cache.Close()
	s.intro.Close()
}

// scanRoot returns the directory component paths are made relative to.
func scanRoot(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}
