package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tsparser "github.com/gnana997/sveltedoc/pkg/parser"
	"github.com/gnana997/sveltedoc/pkg/util"
)

func TestParse_ElementsAndText(t *testing.T) {
	frag := Parse([]byte(`<div class="box"><p>Hello {name}!</p><br><img src="a.png"/></div>`))

	require.Len(t, frag.Children, 1)
	div, ok := frag.Children[0].(*Element)
	require.True(t, ok)
	assert.Equal(t, "div", div.Name)

	class, ok := div.Attr("class")
	require.True(t, ok)
	assert.Equal(t, "box", class.Value)

	require.Len(t, div.Children, 3)
	p := div.Children[0].(*Element)
	require.Len(t, p.Children, 3)
	assert.Equal(t, "Hello ", p.Children[0].(*Text).Data)
	assert.Equal(t, "name", p.Children[1].(*Mustache).Expr)
	assert.Equal(t, "br", div.Children[1].(*Element).Name, "void element has no children")
	assert.Equal(t, "img", div.Children[2].(*Element).Name)
}

func TestParse_NodeKinds(t *testing.T) {
	frag := Parse([]byte(`<Button /><Icons.Close /><svelte:window /><svelte:element this="div"/><slot/>`))

	require.Len(t, frag.Children, 5)
	assert.IsType(t, &Component{}, frag.Children[0])
	assert.IsType(t, &Component{}, frag.Children[1])
	assert.IsType(t, &Special{}, frag.Children[2])
	assert.IsType(t, &Element{}, frag.Children[3])
	assert.IsType(t, &Slot{}, frag.Children[4])
}

func TestParse_Attributes(t *testing.T) {
	frag := Parse([]byte(`<button
		disabled
		type=submit
		title="Save {item}"
		aria-label="{label}"
		on:click|preventDefault|once={handle}
		on:focus
		bind:value
		{id}
		{...rest}
		data-x = 'y'
	>`))

	btn := frag.Children[0].(*Element)
	attrs := btn.Attributes
	require.Len(t, attrs, 10)

	assert.Equal(t, Attribute{Kind: AttrPlain, Name: "disabled", Pos: attrs[0].Pos}, attrs[0])
	assert.Equal(t, "submit", attrs[1].Value)

	assert.Equal(t, "Save {item}", attrs[2].Value)
	assert.False(t, attrs[2].HasExpr, "mixed text is not a single expression")

	assert.True(t, attrs[3].HasExpr)
	assert.Equal(t, "label", attrs[3].Expr)

	click := attrs[4]
	assert.True(t, click.IsEventHandler())
	assert.Equal(t, "click", click.Name)
	assert.Equal(t, []string{"preventDefault", "once"}, click.Modifiers)
	assert.Equal(t, "handle", click.Expr)

	focus := attrs[5]
	assert.True(t, focus.IsEventHandler())
	assert.False(t, focus.HasExpr)

	assert.Equal(t, "bind", attrs[6].Directive)
	assert.False(t, attrs[6].IsEventHandler())

	assert.Equal(t, AttrShorthand, attrs[7].Kind)
	assert.Equal(t, "id", attrs[7].Name)

	assert.Equal(t, AttrSpread, attrs[8].Kind)
	assert.Equal(t, "rest", attrs[8].Expr)
	assert.Empty(t, attrs[8].Name)

	assert.Equal(t, "data-x", attrs[9].Name)
	assert.Equal(t, "y", attrs[9].Value)
}

func TestParse_Blocks(t *testing.T) {
	frag := Parse([]byte(`{#if open}<slot name="body" />{:else if loading}<p>...</p>{:else}<slot />{/if}`))

	require.Len(t, frag.Children, 1)
	block := frag.Children[0].(*Block)
	assert.Equal(t, "if", block.Keyword)
	require.Len(t, block.Branches, 3)
	assert.Equal(t, "open", block.Branches[0].Expr)
	assert.Equal(t, "else if", block.Branches[1].Keyword)
	assert.Equal(t, "loading", block.Branches[1].Expr)
	assert.Equal(t, "else", block.Branches[2].Keyword)

	var slots int
	Walk(frag, func(n Node) bool {
		if _, ok := n.(*Slot); ok {
			slots++
		}
		return true
	})
	assert.Equal(t, 2, slots)
}

func TestParse_NestedEachAndAwait(t *testing.T) {
	frag := Parse([]byte(`{#each items as item (item.id)}{#await load(item)}<span/>{:then v}<b>{v}</b>{/await}{/each}<footer/>`))

	require.Len(t, frag.Children, 2)
	each := frag.Children[0].(*Block)
	assert.Equal(t, "each", each.Keyword)
	assert.Equal(t, "items as item (item.id)", each.Branches[0].Expr)

	await := each.Branches[0].Children[0].(*Block)
	require.Len(t, await.Branches, 2)
	assert.Equal(t, "then", await.Branches[1].Keyword)
	assert.Equal(t, "footer", frag.Children[1].(*Element).Name)
}

func TestParse_MustacheTags(t *testing.T) {
	frag := Parse([]byte(`{@html "<b>{x}</b>"}{@const a = 1}`))

	require.Len(t, frag.Children, 2)
	html := frag.Children[0].(*Mustache)
	assert.Equal(t, "html", html.Tag)
	assert.Equal(t, `"<b>{x}</b>"`, html.Expr)
	assert.Equal(t, "const", frag.Children[1].(*Mustache).Tag)
}

func TestParse_Comments(t *testing.T) {
	frag := Parse([]byte("<!-- @component\n  A button.\n-->\n<button/>"))

	require.GreaterOrEqual(t, len(frag.Children), 2)
	c := frag.Children[0].(*Comment)
	assert.Equal(t, " @component\n  A button.\n", c.Data)
}

func TestParse_Lenient(t *testing.T) {
	tests := []string{
		"<div><span>unclosed",
		"</p>stray close",
		"<div {",
		"{#if a}<p>",
		"a < b and {x",
		"<!-- never closed",
		"{/if}{:else}",
		"<",
	}

	for _, src := range tests {
		t.Run(src, func(t *testing.T) {
			assert.NotPanics(t, func() { Parse([]byte(src)) })
		})
	}
}

func TestParse_StrayCloseDoesNotCrossBlock(t *testing.T) {
	frag := Parse([]byte(`<div>{#if a}</div><slot/>{/if}</div>`))

	div := frag.Children[0].(*Element)
	block := div.Children[0].(*Block)
	require.Len(t, block.Branches[0].Children, 1)
	assert.IsType(t, &Slot{}, block.Branches[0].Children[0])
}

func TestParse_TextWithLessThan(t *testing.T) {
	frag := Parse([]byte(`<p>a < b</p>`))

	p := frag.Children[0].(*Element)
	require.Len(t, p.Children, 1)
	assert.Equal(t, "a < b", p.Children[0].(*Text).Data)
}

func TestWalk_SkipChildren(t *testing.T) {
	frag := Parse([]byte(`<Wrapper><slot/></Wrapper><slot name="x"/>`))

	var slots []string
	Walk(frag, func(n Node) bool {
		if s, ok := n.(*Slot); ok {
			name, _ := s.Attr("name")
			slots = append(slots, name.Value)
		}
		_, isComponent := n.(*Component)
		return !isComponent
	})
	assert.Equal(t, []string{"x"}, slots)
}

// The HTML grammar used to split components cannot read template syntax:
// directive expressions and block tags come back as error nodes.
func TestParse_TemplateSyntaxTheHTMLGrammarRejects(t *testing.T) {
	src := []byte(`<button on:click={() => n++}>{#if a < b}<slot name="x" />{/if}</button>`)

	pm := tsparser.NewParserManager(util.DiscardLogger())
	defer pm.Close()
	tree, err := pm.Parse(src, tsparser.LanguageHTML)
	require.NoError(t, err)
	defer tree.Close()
	assert.True(t, tree.RootNode().HasError())

	frag := Parse(src)
	require.Len(t, frag.Children, 1)
	btn, ok := frag.Children[0].(*Element)
	require.True(t, ok)
	require.Len(t, btn.Attributes, 1)
	assert.True(t, btn.Attributes[0].IsEventHandler())
	assert.Equal(t, "() => n++", btn.Attributes[0].Expr)

	require.Len(t, btn.Children, 1)
	block, ok := btn.Children[0].(*Block)
	require.True(t, ok)
	assert.Equal(t, "if", block.Keyword)
	require.Len(t, block.Branches, 1)
	assert.Equal(t, "a < b", block.Branches[0].Expr)
	assert.IsType(t, &Slot{}, block.Branches[0].Children[0])
}
