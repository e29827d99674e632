package parser

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *ParserManager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := NewParserManager(logger)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestParseJavaScript(t *testing.T) {
	manager := newTestManager(t)

	source := []byte(`
		import { createEventDispatcher } from 'svelte';
		/** Button label */
		export let label = 'Click';
		const dispatch = createEventDispatcher();
	`)

	tree, err := manager.Parse(source, LanguageJavaScript)
	require.NoError(t, err)
	require.NotNil(t, tree)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, root.HasError())
	assert.Greater(t, int(root.NamedChildCount()), 2)
}

func TestParseTypeScript(t *testing.T) {
	manager := newTestManager(t)

	source := []byte(`export let size: 'sm' | 'md' = 'md';
export let onClose: (() => void) | undefined = undefined;`)

	tree, err := manager.Parse(source, LanguageTypeScript)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "program", root.Kind())
	assert.False(t, root.HasError())
	assert.Equal(t, uint(2), root.NamedChildCount())
}

func TestParseHTMLDocument(t *testing.T) {
	manager := newTestManager(t)

	source := []byte("<script lang=\"ts\">export let a = 1;</script>\n<style>p { color: red; }</style>")

	tree, err := manager.Parse(source, LanguageHTML)
	require.NoError(t, err)
	defer tree.Close()

	root := tree.RootNode()
	assert.Equal(t, "document", root.Kind())
	assert.False(t, root.HasError())

	var kinds []string
	for i := uint(0); i < root.NamedChildCount(); i++ {
		kinds = append(kinds, root.NamedChild(i).Kind())
	}
	assert.Equal(t, []string{"script_element", "style_element"}, kinds)
}

func TestParseTypeAnnotationFailsAsJavaScript(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.Parse([]byte("export let size: number = 1;"), LanguageJavaScript)
	require.NoError(t, err, "error recovery still yields a tree")
	defer tree.Close()

	assert.True(t, tree.RootNode().HasError())
	assert.Equal(t, 1, manager.GetStats().ParseErrors)
}

func TestParseUnknownLanguage(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.Parse([]byte("x"), LanguageUnknown)
	assert.Error(t, err)
	assert.Nil(t, tree)
}

func TestParseEmptySource(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.Parse(nil, LanguageJavaScript)
	require.NoError(t, err)
	defer tree.Close()

	assert.Equal(t, uint(0), tree.RootNode().NamedChildCount())
}

func TestStatsReuseParsers(t *testing.T) {
	manager := newTestManager(t)

	for i := 0; i < 5; i++ {
		tree, err := manager.Parse([]byte("let a = 1;"), LanguageJavaScript)
		require.NoError(t, err)
		tree.Close()
	}

	stats := manager.GetStats()
	assert.Equal(t, 5, stats.ParsesCalled)
	assert.Equal(t, 1, stats.ParsersCreated, "sequential parses reuse one parser")
}

func TestCloseResetsPools(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.Parse([]byte("let a;"), LanguageTypeScript)
	require.NoError(t, err)
	tree.Close()

	require.NoError(t, manager.Close())
	assert.Equal(t, 0, manager.GetStats().ParsersCreated)
}

func TestScriptLanguage(t *testing.T) {
	tests := []struct {
		attr string
		want Language
	}{
		{"", LanguageJavaScript},
		{"js", LanguageJavaScript},
		{"ts", LanguageTypeScript},
		{"TypeScript", LanguageTypeScript},
		{" ts ", LanguageTypeScript},
		{"coffee", LanguageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.attr, func(t *testing.T) {
			assert.Equal(t, tt.want, ScriptLanguage(tt.attr))
		})
	}
}

func TestLanguageString(t *testing.T) {
	assert.Equal(t, "javascript", LanguageJavaScript.String())
	assert.Equal(t, "typescript", LanguageTypeScript.String())
	assert.Equal(t, "html", LanguageHTML.String())
	assert.Equal(t, "unknown", LanguageUnknown.String())
	assert.Len(t, SupportedLanguages(), 3)
}

func TestIsComponentFile(t *testing.T) {
	assert.True(t, IsComponentFile("src/Button.svelte"))
	assert.True(t, IsComponentFile("Button.SVELTE"))
	assert.False(t, IsComponentFile("Button.svelte.md"))
	assert.False(t, IsComponentFile("index.ts"))
}
