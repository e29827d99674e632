// Package mcp exposes component analysis, the markdown codec, doc
// generation and the generated catalog as MCP tools over stdio.
package mcp

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/mark3labs/mcp-go/server"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	"github.com/gnana997/sveltedoc/pkg/docstore"
	"github.com/gnana997/sveltedoc/pkg/indexer"
	"github.com/gnana997/sveltedoc/pkg/mcplog"
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/scanner"
)

const serverVersion = "0.1.0"

// Config configures a Server.
type Config struct {
	// Root resolves relative paths in tool arguments. Defaults to ".".
	Root string
	// Catalog is served by the catalog tools until generate_docs replaces it.
	// May be nil.
	Catalog *catalog.Catalog
	// ScanConfig is used by generate_docs.
	ScanConfig scanner.ScanConfig
	// CallLog records every tool call when non-nil.
	CallLog *mcplog.Logger
	Logger  *slog.Logger
}

// Server implements the MCP server for sveltedoc.
type Server struct {
	mcpServer *server.MCPServer
	scanner   *scanner.Scanner
	index     *indexer.DocIndex
	store     *docstore.Store
	root      string
	scanCfg   scanner.ScanConfig
	callLog   *mcplog.Logger
	log       *slog.Logger

	mu    sync.RWMutex
	query *catalog.QueryService // nil until a catalog is loaded or generated
}

// NewServer creates a new MCP server.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Root == "" {
		cfg.Root = "."
	}
	if len(cfg.ScanConfig.Include) == 0 {
		cfg.ScanConfig = scanner.DefaultScanConfig()
	}

	s := &Server{
		scanner: scanner.NewScanner(cfg.Logger),
		index:   indexer.NewDocIndex(indexer.DefaultDocIndexConfig(), cfg.Logger),
		store:   docstore.New(),
		root:    cfg.Root,
		scanCfg: cfg.ScanConfig,
		callLog: cfg.CallLog,
		log:     cfg.Logger,
	}
	if cfg.Catalog != nil {
		s.setCatalog(cfg.Catalog)
	}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if s.callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}

	s.mcpServer = server.NewMCPServer("sveltedoc", serverVersion, opts...)
	s.mcpServer.AddTools(s.tools()...)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// Store exposes the display state shared by the tools.
func (s *Server) Store() *docstore.Store {
	return s.store
}

// Close releases the scanner and doc index.
func (s *Server) Close() {
	s.index.Close()
	s.scanner.Close()
}

// setCatalog replaces the served catalog and republishes its docs.
func (s *Server) setCatalog(cat *catalog.Catalog) {
	qs := catalog.NewQueryService(cat, cat.BuildIndex())

	s.mu.Lock()
	s.query = qs
	s.mu.Unlock()

	docs := make([]model.ComponentDoc, 0, len(cat.Components))
	for _, e := range cat.Components {
		docs = append(docs, e.Doc)
	}
	s.store.SetDocs(docs)
}

func (s *Server) queryService() *catalog.QueryService {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Server) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}
