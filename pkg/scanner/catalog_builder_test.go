package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
)

func analyzed(root, rel string) AnalyzedFile {
	path := filepath.Join(root, filepath.FromSlash(rel))
	return AnalyzedFile{Path: path, Doc: model.ComponentDoc{Name: model.NameFromPath(path)}}
}

func TestBuildCatalog_Entries(t *testing.T) {
	root := filepath.FromSlash("/project")
	files := []AnalyzedFile{
		analyzed(root, "Icon.svelte"),
		analyzed(root, "lib/forms/Input.svelte"),
		analyzed(root, "lib/overlay/Modal.svelte"),
	}

	cat, skipped := BuildCatalog(files, root, GenerateConfig{Name: "demo", Version: "1.2.0"})

	assert.Empty(t, skipped)
	assert.Equal(t, "demo", cat.Name)
	assert.Equal(t, "1.2.0", cat.Version)
	assert.Empty(t, cat.Validate())

	require.Len(t, cat.Components, 3)
	input := cat.Components[1]
	assert.Equal(t, "Input", input.Name)
	assert.Equal(t, "forms", input.Category)
	assert.Equal(t, "lib/forms/Input.svelte", input.Source)
	assert.Equal(t, "Input.md", input.DocFile)

	assert.Equal(t, "components", cat.Components[0].Category)
	assert.Len(t, cat.Categories, 3)
}

func TestBuildCatalog_Defaults(t *testing.T) {
	root := filepath.FromSlash("/work/my-lib")
	cat, _ := BuildCatalog([]AnalyzedFile{analyzed(root, "A.svelte")}, root, GenerateConfig{})

	assert.Equal(t, "my-lib", cat.Name)
	assert.Equal(t, "0.0.0", cat.Version)
}

func TestBuildCatalog_DuplicateNamesSkipped(t *testing.T) {
	root := filepath.FromSlash("/project")
	files := []AnalyzedFile{
		analyzed(root, "a/Button.svelte"),
		analyzed(root, "b/Button.svelte"),
	}

	cat, skipped := BuildCatalog(files, root, GenerateConfig{Name: "x", Version: "1"})

	require.Len(t, cat.Components, 1)
	assert.Equal(t, "a/Button.svelte", cat.Components[0].Source)
	require.Len(t, skipped, 1)
	assert.Equal(t, files[1].Path, skipped[0].Path)
	assert.Empty(t, cat.Validate())
}

func TestWriteDoc(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")
	doc := model.ComponentDoc{
		Name:  "Toggle",
		Props: []model.PropDoc{{Name: "on", Type: "boolean", DefaultValue: model.StringPtr("false")}},
	}

	path, err := WriteDoc(dir, doc)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Toggle.md"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, markdown.Encode(doc), string(data))
}

func TestWriteDoc_NoName(t *testing.T) {
	_, err := WriteDoc(t.TempDir(), model.ComponentDoc{})
	require.Error(t, err)
}

func TestWriteDocs_WritesCatalog(t *testing.T) {
	root := filepath.FromSlash("/project")
	cat, _ := BuildCatalog([]AnalyzedFile{
		analyzed(root, "A.svelte"),
		analyzed(root, "B.svelte"),
	}, root, GenerateConfig{Name: "x", Version: "1"})

	out := t.TempDir()
	written, err := WriteDocs(cat, GenerateConfig{OutputDir: out}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	assert.FileExists(t, filepath.Join(out, "A.md"))
	assert.FileExists(t, filepath.Join(out, "B.md"))

	loaded, _, err := catalog.LoadFromFile(filepath.Join(out, catalog.FileName))
	require.NoError(t, err)
	assert.Len(t, loaded.Components, 2)
}

func TestComputeCategory(t *testing.T) {
	root := filepath.FromSlash("/r")
	assert.Equal(t, "components", computeCategory(filepath.FromSlash("/r/A.svelte"), root))
	assert.Equal(t, "forms", computeCategory(filepath.FromSlash("/r/src/forms/A.svelte"), root))
	assert.Equal(t, "components", computeCategory(filepath.FromSlash("/elsewhere/x/A.svelte"), root))
	assert.Equal(t, "components", computeCategory("A.svelte", ""))
}
