package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ParserManager manages tree-sitter parsers for component documents and
// their scripts with lazy initialization and thread-safe concurrent access.
//
// Memory Management:
// - One parser pool per language, created on first use
// - ParserManager owns the pools and must be closed via Close()
// - Callers own Tree instances and must call tree.Close() after use
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, err := manager.Parse([]byte("export let x = 1;"), LanguageJavaScript)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	// pools stores parser pools per language (lazily initialized)
	pools map[Language]*parserPool

	// mutex provides thread-safe access to pools map and stats
	mutex sync.RWMutex

	logger *slog.Logger

	stats struct {
		parsesCalled int
		parseErrors  int
	}
}

// NewParserManager creates a new ParserManager instance.
//
// The returned manager must be closed via Close() to free resources.
func NewParserManager(logger *slog.Logger) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParserManager{
		pools:  make(map[Language]*parserPool),
		logger: logger,
	}
}

// Parse parses source using the grammar for lang.
//
// Returns a Tree that MUST be closed by the caller via tree.Close(). Trees
// containing syntax errors are still returned: tree-sitter recovers around
// the error and the remaining declarations are usable.
//
// Safe for concurrent use from multiple goroutines.
func (pm *ParserManager) Parse(source []byte, lang Language) (*ts.Tree, error) {
	if lang == LanguageUnknown {
		return nil, fmt.Errorf("cannot parse unknown language")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", lang, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}

	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	if tree.RootNode().HasError() {
		pm.mutex.Lock()
		pm.stats.parseErrors++
		pm.mutex.Unlock()
		pm.logger.Debug("parse tree contains errors",
			"language", lang.String())
	}

	return tree, nil
}

// Close releases all parser pool resources.
//
// After Close(), the ParserManager cannot be used.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager",
		"parses_called", pm.stats.parsesCalled,
		"parse_errors", pm.stats.parseErrors)

	for lang, pool := range pm.pools {
		if pool != nil {
			pool.close()
			pm.logger.Debug("closed parser pool", "language", lang.String())
		}
	}
	pm.pools = make(map[Language]*parserPool)

	return nil
}

// getOrCreatePool returns an existing parser pool or creates a new one.
// Thread-safe using double-checked locking pattern.
func (pm *ParserManager) getOrCreatePool(lang Language) (*parserPool, error) {
	pm.mutex.RLock()
	pool, exists := pm.pools[lang]
	pm.mutex.RUnlock()

	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[lang]; exists {
		return pool, nil
	}

	langPtr, err := languagePointer(lang)
	if err != nil {
		return nil, err
	}

	limit := poolLimit()
	pool = newParserPool(lang, langPtr, limit, pm.logger)
	pm.pools[lang] = pool

	pm.logger.Debug("created parser pool", "language", lang.String(), "limit", limit)

	return pool, nil
}

// languagePointer returns the tree-sitter grammar for lang.
func languagePointer(lang Language) (unsafe.Pointer, error) {
	switch lang {
	case LanguageTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case LanguageJavaScript:
		return ts_javascript.Language(), nil
	case LanguageHTML:
		return ts_html.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported language: %s", lang.String())
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	var created, idle int
	for _, pool := range pm.pools {
		c, i := pool.counts()
		created += c
		idle += i
	}

	return ParserStats{
		ParsersCreated: created,
		IdleParsers:    idle,
		ParsesCalled:   pm.stats.parsesCalled,
		ParseErrors:    pm.stats.parseErrors,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// IdleParsers are created parsers not currently checked out
	IdleParsers int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int

	// ParseErrors counts trees that contained at least one error node
	ParseErrors int
}
