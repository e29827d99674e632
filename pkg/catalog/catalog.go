package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileName is the manifest name written next to the generated docs.
const FileName = "catalog.json"

// Catalog is the manifest of a documentation run.
type Catalog struct {
	Name        string     `json:"name"`
	Version     string     `json:"version"`
	Source      string     `json:"source"`
	Root        string     `json:"root"`
	GeneratedAt time.Time  `json:"generated_at"`
	Components  []Entry    `json:"components"`
	Categories  []Category `json:"categories"`
}

// CatalogIndex provides O(1) lookups into the catalog.
// Built during LoadFromFile after validation passes.
type CatalogIndex struct {
	// ComponentByName maps component name -> *Entry.
	ComponentByName map[string]*Entry

	// CategoryByName maps category name -> *Category.
	CategoryByName map[string]*Category

	// ComponentsByCategory maps category name -> []*Entry.
	ComponentsByCategory map[string][]*Entry
}

// Validate checks the catalog for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (c *Catalog) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, fmt.Errorf("catalog name is required"))
	}
	if c.Version == "" {
		errs = append(errs, fmt.Errorf("catalog version is required"))
	}

	componentNames := make(map[string]bool, len(c.Components))
	docFiles := make(map[string]string, len(c.Components))
	categoryNames := make(map[string]bool, len(c.Categories))

	for i, cat := range c.Categories {
		if cat.Name == "" {
			errs = append(errs, fmt.Errorf("categories[%d]: name is required", i))
			continue
		}
		if categoryNames[cat.Name] {
			errs = append(errs, fmt.Errorf("categories[%d]: duplicate category name %q", i, cat.Name))
			continue
		}
		categoryNames[cat.Name] = true
	}

	for i, comp := range c.Components {
		if comp.Name == "" {
			errs = append(errs, fmt.Errorf("components[%d]: name is required", i))
			continue
		}
		if comp.DocFile == "" {
			errs = append(errs, fmt.Errorf("component %q: doc_file is required", comp.Name))
		} else if other, ok := docFiles[comp.DocFile]; ok {
			errs = append(errs, fmt.Errorf("component %q: doc_file %q already used by %q", comp.Name, comp.DocFile, other))
		} else {
			docFiles[comp.DocFile] = comp.Name
		}
		if comp.Doc.Name != comp.Name {
			errs = append(errs, fmt.Errorf("component %q: doc name %q does not match", comp.Name, comp.Doc.Name))
		}
		if componentNames[comp.Name] {
			errs = append(errs, fmt.Errorf("component %q: duplicate component name", comp.Name))
			continue
		}
		componentNames[comp.Name] = true

		if comp.Category != "" && !categoryNames[comp.Category] {
			errs = append(errs, fmt.Errorf("component %q: references unknown category %q", comp.Name, comp.Category))
		}

		for j, prop := range comp.Doc.Props {
			if prop.Name == "" {
				errs = append(errs, fmt.Errorf("component %q props[%d]: name is required", comp.Name, j))
			}
			if prop.Type == "" {
				errs = append(errs, fmt.Errorf("component %q props[%d]: type is required", comp.Name, j))
			}
		}
	}

	// Cross-reference: each component listed in a category must exist.
	for _, cat := range c.Categories {
		for _, compName := range cat.Components {
			if !componentNames[compName] {
				errs = append(errs, fmt.Errorf("category %q: references non-existent component %q", cat.Name, compName))
			}
		}
	}

	return errs
}

// BuildIndex creates lookup maps for fast access.
// Should be called after Validate() passes.
func (c *Catalog) BuildIndex() *CatalogIndex {
	idx := &CatalogIndex{
		ComponentByName:      make(map[string]*Entry, len(c.Components)),
		CategoryByName:       make(map[string]*Category, len(c.Categories)),
		ComponentsByCategory: make(map[string][]*Entry),
	}

	for i := range c.Categories {
		idx.CategoryByName[c.Categories[i].Name] = &c.Categories[i]
	}

	for i := range c.Components {
		comp := &c.Components[i]
		idx.ComponentByName[comp.Name] = comp
		idx.ComponentsByCategory[comp.Category] = append(idx.ComponentsByCategory[comp.Category], comp)
	}

	return idx
}

// Rebuild recomputes Categories from the component entries. Components are
// sorted by name and categories by name.
func (c *Catalog) Rebuild() {
	sort.SliceStable(c.Components, func(i, j int) bool {
		return c.Components[i].Name < c.Components[j].Name
	})

	byCategory := make(map[string][]string)
	for _, comp := range c.Components {
		if comp.Category == "" {
			continue
		}
		byCategory[comp.Category] = append(byCategory[comp.Category], comp.Name)
	}

	c.Categories = make([]Category, 0, len(byCategory))
	for name, names := range byCategory {
		c.Categories = append(c.Categories, Category{Name: name, Components: names})
	}
	sort.Slice(c.Categories, func(i, j int) bool {
		return c.Categories[i].Name < c.Categories[j].Name
	})
}

// Save writes the catalog as indented JSON, creating parent directories.
func (c *Catalog) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write catalog file: %w", err)
	}
	return nil
}

// LoadFromFile loads a catalog from a JSON file, validates it, and builds the index.
func LoadFromFile(path string) (*Catalog, *CatalogIndex, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return LoadFromBytes(data)
}

// LoadFromBytes parses a catalog from raw JSON bytes, validates it, and builds the index.
func LoadFromBytes(data []byte) (*Catalog, *CatalogIndex, error) {
	var catalog Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	if errs := catalog.Validate(); len(errs) > 0 {
		return nil, nil, fmt.Errorf("catalog validation failed: %w", errors.Join(errs...))
	}

	index := catalog.BuildIndex()
	return &catalog, index, nil
}
