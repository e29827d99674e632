package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
)

// DocFileName returns the markdown file name for a component.
func DocFileName(name string) string {
	return name + ".md"
}

// WriteDoc encodes doc and writes it to dir/<Name>.md, creating dir.
// Returns the written path.
func WriteDoc(dir string, doc model.ComponentDoc) (string, error) {
	if doc.Name == "" {
		return "", fmt.Errorf("component has no name")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, DocFileName(doc.Name))
	if err := os.WriteFile(path, []byte(markdown.Encode(doc)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// BuildCatalog converts analysis results into a catalog manifest.
//
// Component names must be unique because each one owns <Name>.md. When two
// files share a name the first by path wins and the rest are returned as
// skipped.
func BuildCatalog(files []AnalyzedFile, rootDir string, cfg GenerateConfig) (*catalog.Catalog, []AnalyzedFile) {
	cat := &catalog.Catalog{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Source:      "sveltedoc",
		Root:        filepath.ToSlash(rootDir),
		GeneratedAt: time.Now().UTC(),
		Components:  make([]catalog.Entry, 0, len(files)),
	}
	if cat.Name == "" {
		cat.Name = filepath.Base(rootDir)
	}
	if cat.Version == "" {
		cat.Version = "0.0.0"
	}

	seen := make(map[string]bool, len(files))
	var skipped []AnalyzedFile

	for _, f := range files {
		if seen[f.Doc.Name] {
			skipped = append(skipped, f)
			continue
		}
		seen[f.Doc.Name] = true

		cat.Components = append(cat.Components, catalog.Entry{
			Name:     f.Doc.Name,
			Category: computeCategory(f.Path, rootDir),
			Source:   relativeSource(f.Path, rootDir),
			DocFile:  DocFileName(f.Doc.Name),
			Doc:      f.Doc,
		})
	}

	cat.Rebuild()
	return cat, skipped
}

// WriteDocs writes one document per catalog entry plus catalog.json into
// cfg.OutputDir.
func WriteDocs(cat *catalog.Catalog, cfg GenerateConfig, logger *slog.Logger) (int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	written := 0
	for _, entry := range cat.Components {
		path, err := WriteDoc(cfg.OutputDir, entry.Doc)
		if err != nil {
			logger.Warn("failed to write doc", "component", entry.Name, "error", err)
			continue
		}
		written++
		logger.Debug("wrote doc", "component", entry.Name, "path", path)
	}

	if err := cat.Save(filepath.Join(cfg.OutputDir, catalog.FileName)); err != nil {
		return written, err
	}
	return written, nil
}

// relativeSource returns filePath relative to rootDir with forward slashes.
func relativeSource(filePath, rootDir string) string {
	if rootDir == "" {
		return filepath.ToSlash(filePath)
	}
	rel, err := filepath.Rel(rootDir, filePath)
	if err != nil {
		return filepath.ToSlash(filePath)
	}
	return filepath.ToSlash(rel)
}

// computeCategory names the directory holding the component, relative to
// the scan root. Components directly under the root fall in "components".
func computeCategory(filePath string, rootDir string) string {
	if rootDir == "" {
		return "components"
	}

	rel, err := filepath.Rel(rootDir, filePath)
	if err != nil {
		return "components"
	}

	dir := filepath.Dir(rel)
	if dir == "." || dir == "" || strings.HasPrefix(dir, "..") {
		return "components"
	}
	return filepath.Base(dir)
}
