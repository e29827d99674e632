package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/parser"
	"github.com/gnana997/sveltedoc/pkg/scanner"
)

const defaultFilename = "Component.svelte"

const noCatalogMsg = "no catalog loaded: run generate_docs first or start the server with --catalog"

// --- response types ---

type categoryResponse struct {
	Name       string   `json:"name"`
	Count      int      `json:"count"`
	Components []string `json:"components"`
}

type componentSummary struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Source      string `json:"source"`
	Props       int    `json:"props"`
	Events      int    `json:"events"`
	Slots       int    `json:"slots"`
}

type searchResult struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
	MatchReason string `json:"match_reason"`
}

type generateResponse struct {
	Catalog    string             `json:"catalog"`
	OutputDir  string             `json:"output_dir"`
	Components []string           `json:"components"`
	Stats      *scanner.ScanStats `json:"stats"`
}

type activeResponse struct {
	Active *model.ComponentDoc `json:"active"`
}

// --- handlers ---

func (s *Server) handleAnalyzeComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	source := req.GetString("source", "")

	switch {
	case path != "" && source != "":
		return mcp.NewToolResultError("pass either path or source, not both"), nil

	case path != "":
		if !parser.IsComponentFile(path) {
			return mcp.NewToolResultError(fmt.Sprintf("%s is not a component file", path)), nil
		}
		abs := s.resolve(path)
		// The file may have been replaced since it was last mapped; the
		// content hash still skips re-analysis when nothing changed.
		s.scanner.Cache().Invalidate(abs)
		entry, _, err := s.index.Refresh(abs, s.scanner.Introspector(), s.scanner.Cache())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to analyze component: %v", err)), nil
		}
		return jsonResult(entry.Doc)

	case source != "":
		filename := req.GetString("filename", defaultFilename)
		return jsonResult(s.scanner.Introspector().Analyze([]byte(source), filename))

	default:
		return mcp.NewToolResultError("either path or source is required"), nil
	}
}

func (s *Server) handleRenderMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("doc")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var doc model.ComponentDoc
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid doc JSON: %v", err)), nil
	}
	if doc.Name == "" {
		return mcp.NewToolResultError("doc.name is required"), nil
	}

	text := markdown.Encode(doc)
	if req.GetString("format", "markdown") != "html" {
		return mcp.NewToolResultText(text), nil
	}

	html, err := markdown.RenderHTML([]byte(text))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to render html: %v", err)), nil
	}
	return mcp.NewToolResultText(string(html)), nil
}

func (s *Server) handleParseMarkdown(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("markdown")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := markdown.DecodeOptions{Lenient: req.GetBool("lenient", false)}
	return jsonResult(markdown.DecodeWith(text, opts))
}

func (s *Server) handleGenerateDocs(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	outDir, err := req.RequireString("output_dir")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.scanner.Cache().Clear(); err != nil {
		s.log.Warn("failed to clear source cache", "error", err)
	}

	genCfg := scanner.GenerateConfig{
		OutputDir: s.resolve(outDir),
		Name:      req.GetString("project", ""),
	}
	cat, stats, err := s.scanner.Generate(s.resolve(path), s.scanCfg, genCfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to generate docs: %v", err)), nil
	}

	s.setCatalog(cat)

	names := make([]string, 0, len(cat.Components))
	for _, e := range cat.Components {
		names = append(names, e.Name)
	}
	return jsonResult(generateResponse{
		Catalog:    filepath.Join(genCfg.OutputDir, catalog.FileName),
		OutputDir:  genCfg.OutputDir,
		Components: names,
		Stats:      stats,
	})
}

func (s *Server) handleListCategories(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qs := s.queryService()
	if qs == nil {
		return mcp.NewToolResultError(noCatalogMsg), nil
	}

	cats := qs.ListCategories()
	resp := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		resp = append(resp, categoryResponse{Name: c.Name, Count: len(c.Components), Components: c.Components})
	}
	return jsonResult(resp)
}

func (s *Server) handleListComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	qs := s.queryService()
	if qs == nil {
		return mcp.NewToolResultError(noCatalogMsg), nil
	}

	entries := qs.ListComponents(req.GetString("category", ""), req.GetString("keyword", ""))
	resp := make([]componentSummary, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, componentSummary{
			Name:        e.Name,
			Category:    e.Category,
			Description: e.Doc.Description,
			Source:      e.Source,
			Props:       len(e.Doc.Props),
			Events:      len(e.Doc.Events),
			Slots:       len(e.Doc.Slots),
		})
	}
	return jsonResult(resp)
}

func (s *Server) handleGetComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	qs := s.queryService()
	if qs == nil {
		return mcp.NewToolResultError(noCatalogMsg), nil
	}

	entry, ok := qs.GetComponent(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("component %q not found", name)), nil
	}

	if req.GetString("format", "json") == "markdown" {
		return mcp.NewToolResultText(markdown.Encode(entry.Doc)), nil
	}
	return jsonResult(entry)
}

func (s *Server) handleSearchComponents(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	qs := s.queryService()
	if qs == nil {
		return mcp.NewToolResultError(noCatalogMsg), nil
	}

	results := qs.SearchComponents(query)
	resp := make([]searchResult, 0, len(results))
	for _, r := range results {
		resp = append(resp, searchResult{
			Name:        r.Component.Name,
			Category:    r.Component.Category,
			Description: r.Component.Doc.Description,
			MatchReason: r.MatchReason,
		})
	}
	return jsonResult(resp)
}

func (s *Server) handleSetActiveComponent(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("name", "")

	if name != "" {
		known := false
		for _, d := range s.store.Get().Components {
			if d.Name == name {
				known = true
				break
			}
		}
		if !known {
			return mcp.NewToolResultError(fmt.Sprintf("component %q not found", name)), nil
		}
	}

	s.store.SetActiveComponent(name)

	resp := activeResponse{}
	if doc, ok := s.store.Get().Active(); ok {
		resp.Active = &doc
	}
	return jsonResult(resp)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
