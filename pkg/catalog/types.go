package catalog

import "github.com/gnana997/sveltedoc/pkg/model"

// Entry is one generated component document.
type Entry struct {
	Name     string `json:"name"`
	Category string `json:"category"`

	// Source is the component file, slash-separated and relative to Catalog.Root.
	Source string `json:"source"`

	// DocFile is the markdown file name, relative to the catalog directory.
	DocFile string `json:"doc_file"`

	Doc model.ComponentDoc `json:"doc"`
}

// Category groups components by their first source directory.
type Category struct {
	Name       string   `json:"name"`
	Components []string `json:"components"`
}
