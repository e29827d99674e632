package enhance

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
)

// Enhancer runs generated docs through a Provider.
type Enhancer struct {
	provider Provider
	prompt   string
	logger   *slog.Logger
}

// New creates an Enhancer. An empty prompt means DefaultPrompt.
func New(provider Provider, prompt string, logger *slog.Logger) *Enhancer {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	return &Enhancer{provider: provider, prompt: prompt, logger: logger}
}

// Result is the outcome of enhancing one file.
type Result struct {
	Path string
	Doc  model.ComponentDoc
}

// EnhanceFile rewrites path with the provider's output and returns the
// decoded model. Provider output rarely keeps the exact blank-line layout,
// so decoding is lenient.
func (e *Enhancer) EnhanceFile(ctx context.Context, path string) (Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	enhanced, err := e.provider.Enhance(ctx, e.prompt, string(content))
	if err != nil {
		return Result{}, fmt.Errorf("failed to enhance %s: %w", filepath.Base(path), err)
	}
	enhanced = stripFence(enhanced)

	if err := os.WriteFile(path, []byte(enhanced), 0o644); err != nil {
		return Result{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	doc := markdown.DecodeWith(enhanced, markdown.DecodeOptions{Lenient: true})
	e.logger.Info("enhanced doc", "file", path, "component", doc.Name)
	return Result{Path: path, Doc: doc}, nil
}

// EnhanceDir enhances every .md file in dir, one at a time in name order.
// It stops at the first failure and returns the results gathered so far.
func (e *Enhancer) EnhanceDir(ctx context.Context, dir string) ([]Result, error) {
	files, err := MarkdownFiles(dir)
	if err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(files))
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := e.EnhanceFile(ctx, path)
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
	return results, nil
}

// MarkdownFiles lists the .md files directly inside dir, sorted by name.
func MarkdownFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read docs directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// stripFence removes a ```markdown fence wrapping the whole reply.
func stripFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return s
	}
	nl := strings.IndexByte(trimmed, '\n')
	if nl < 0 {
		return s
	}
	inner := trimmed[nl+1 : len(trimmed)-3]
	return strings.TrimSpace(inner) + "\n"
}
