package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Tool names.
const (
	toolAnalyzeComponent   = "analyze_component"
	toolRenderMarkdown     = "render_markdown"
	toolParseMarkdown      = "parse_markdown"
	toolGenerateDocs       = "generate_docs"
	toolListCategories     = "list_categories"
	toolListComponents     = "list_components"
	toolGetComponent       = "get_component"
	toolSearchComponents   = "search_components"
	toolSetActiveComponent = "set_active_component"
)

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: analyzeComponentTool(), Handler: s.handleAnalyzeComponent},
		{Tool: renderMarkdownTool(), Handler: s.handleRenderMarkdown},
		{Tool: parseMarkdownTool(), Handler: s.handleParseMarkdown},
		{Tool: generateDocsTool(), Handler: s.handleGenerateDocs},
		{Tool: listCategoriesTool(), Handler: s.handleListCategories},
		{Tool: listComponentsTool(), Handler: s.handleListComponents},
		{Tool: getComponentTool(), Handler: s.handleGetComponent},
		{Tool: searchComponentsTool(), Handler: s.handleSearchComponents},
		{Tool: setActiveComponentTool(), Handler: s.handleSetActiveComponent},
	}
}

func analyzeComponentTool() mcp.Tool {
	return mcp.NewTool(toolAnalyzeComponent,
		mcp.WithDescription("Analyze a Svelte component and return its documentation model (props, events, slots). Pass either path or source."),
		mcp.WithString("path",
			mcp.Description("Path to a .svelte file, relative to the server root"),
		),
		mcp.WithString("source",
			mcp.Description("Component source text"),
		),
		mcp.WithString("filename",
			mcp.Description("Name used to derive the component name when source is given (default: Component.svelte)"),
		),
	)
}

func renderMarkdownTool() mcp.Tool {
	return mcp.NewTool(toolRenderMarkdown,
		mcp.WithDescription("Render a documentation model (JSON) as the markdown doc format, or as HTML"),
		mcp.WithString("doc",
			mcp.Required(),
			mcp.Description("ComponentDoc as JSON"),
		),
		mcp.WithString("format",
			mcp.Description("markdown (default) or html"),
			mcp.Enum("markdown", "html"),
		),
	)
}

func parseMarkdownTool() mcp.Tool {
	return mcp.NewTool(toolParseMarkdown,
		mcp.WithDescription("Parse a markdown component doc back into a documentation model"),
		mcp.WithString("markdown",
			mcp.Required(),
			mcp.Description("Markdown document text"),
		),
		mcp.WithBoolean("lenient",
			mcp.Description("Tolerate layout differences such as missing or extra blank lines (default: false)"),
		),
	)
}

func generateDocsTool() mcp.Tool {
	return mcp.NewTool(toolGenerateDocs,
		mcp.WithDescription("Analyze a component file or directory, write <Name>.md docs plus catalog.json, and load the result for the catalog tools"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Component file or directory, relative to the server root"),
		),
		mcp.WithString("output_dir",
			mcp.Required(),
			mcp.Description("Directory to write docs into, relative to the server root"),
		),
		mcp.WithString("project",
			mcp.Description("Catalog name (default: directory name)"),
		),
	)
}

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool(toolListCategories,
		mcp.WithDescription("List component categories with their component names"),
	)
}

func listComponentsTool() mcp.Tool {
	return mcp.NewTool(toolListComponents,
		mcp.WithDescription("List components, optionally filtered by category or keyword"),
		mcp.WithString("category",
			mcp.Description("Category name"),
		),
		mcp.WithString("keyword",
			mcp.Description("Case-insensitive match on name or description"),
		),
	)
}

func getComponentTool() mcp.Tool {
	return mcp.NewTool(toolGetComponent,
		mcp.WithDescription("Get the full documentation of one component"),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Component name"),
		),
		mcp.WithString("format",
			mcp.Description("json (default) or markdown"),
			mcp.Enum("json", "markdown"),
		),
	)
}

func searchComponentsTool() mcp.Tool {
	return mcp.NewTool(toolSearchComponents,
		mcp.WithDescription("Search components by name, description, prop, event or slot"),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text"),
		),
	)
}

func setActiveComponentTool() mcp.Tool {
	return mcp.NewTool(toolSetActiveComponent,
		mcp.WithDescription("Select the component shown as active; an empty name clears the selection"),
		mcp.WithString("name",
			mcp.Description("Component name"),
		),
	)
}
