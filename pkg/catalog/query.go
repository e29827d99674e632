package catalog

import "strings"

// ComponentSearchResult holds a component match with the reason it matched.
type ComponentSearchResult struct {
	Component   *Entry
	MatchReason string
}

// QueryService provides read-only query methods over a loaded catalog.
type QueryService struct {
	Catalog *Catalog
	Index   *CatalogIndex
}

// NewQueryService creates a QueryService from a validated catalog and its index.
func NewQueryService(cat *Catalog, idx *CatalogIndex) *QueryService {
	return &QueryService{Catalog: cat, Index: idx}
}

// LoadAndQuery loads a catalog from file and returns a ready-to-use QueryService.
func LoadAndQuery(path string) (*QueryService, error) {
	cat, idx, err := LoadFromFile(path)
	if err != nil {
		return nil, err
	}
	return NewQueryService(cat, idx), nil
}

// ListCategories returns all categories in the catalog.
func (q *QueryService) ListCategories() []Category {
	return q.Catalog.Categories
}

// ListComponents returns components filtered by category and/or keyword.
// Both filters are optional (pass "" to skip) and combine with AND logic.
// The keyword matches case-insensitively against Name and Description.
func (q *QueryService) ListComponents(category, keyword string) []Entry {
	var candidates []*Entry

	if category != "" {
		candidates = q.Index.ComponentsByCategory[category]
	} else {
		candidates = make([]*Entry, 0, len(q.Catalog.Components))
		for i := range q.Catalog.Components {
			candidates = append(candidates, &q.Catalog.Components[i])
		}
	}

	keyword = strings.ToLower(keyword)
	result := make([]Entry, 0)

	for _, comp := range candidates {
		if keyword != "" &&
			!strings.Contains(strings.ToLower(comp.Name), keyword) &&
			!strings.Contains(strings.ToLower(comp.Doc.Description), keyword) {
			continue
		}
		result = append(result, *comp)
	}

	return result
}

// GetComponent looks up a component by name.
func (q *QueryService) GetComponent(name string) (*Entry, bool) {
	comp, ok := q.Index.ComponentByName[name]
	return comp, ok
}

// GetComponentsByNames returns components matching the given names.
// Unknown names are silently skipped. Duplicates are removed.
func (q *QueryService) GetComponentsByNames(names []string) []*Entry {
	seen := make(map[string]bool, len(names))
	result := make([]*Entry, 0, len(names))

	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		if comp, ok := q.Index.ComponentByName[name]; ok {
			result = append(result, comp)
		}
	}

	return result
}

// SearchComponents performs a case-insensitive search across component
// names, descriptions, prop names, event names and slot names. Each
// component appears at most once, with the first reason that matched.
func (q *QueryService) SearchComponents(query string) []ComponentSearchResult {
	query = strings.ToLower(query)
	if query == "" {
		return nil
	}

	var results []ComponentSearchResult
	for i := range q.Catalog.Components {
		comp := &q.Catalog.Components[i]
		if reason := matchReason(comp, query); reason != "" {
			results = append(results, ComponentSearchResult{Component: comp, MatchReason: reason})
		}
	}
	return results
}

func matchReason(comp *Entry, query string) string {
	contains := func(s string) bool {
		return strings.Contains(strings.ToLower(s), query)
	}

	if contains(comp.Name) {
		return "name"
	}
	if contains(comp.Doc.Description) {
		return "description"
	}
	for _, prop := range comp.Doc.Props {
		if contains(prop.Name) {
			return "prop:" + prop.Name
		}
	}
	for _, ev := range comp.Doc.Events {
		if contains(ev.Name) {
			return "event:" + ev.Name
		}
	}
	for _, slot := range comp.Doc.Slots {
		if contains(slot.Name) {
			return "slot:" + slot.Name
		}
	}
	return ""
}
