// Package markup parses the template part of a component into a tree.
//
// The parser is lenient: it never fails, closes unterminated elements at
// end of input and ignores stray closing tags. Expressions inside braces
// are kept as raw text.
package markup

import "strings"

// Node is implemented by every markup node.
type Node interface {
	Offset() int
	node()
}

// Fragment is the root of a parsed template.
type Fragment struct {
	Children []Node
}

// Tag holds what every tag-like node shares.
type Tag struct {
	Name       string
	Attributes []Attribute
	Children   []Node
	Pos        int
}

// Element is a regular HTML element such as <div> or <button>, or a
// <svelte:element> dynamic element.
type Element struct{ Tag }

// Component is a reference to another component: a capitalized tag or a
// dotted member such as <Icons.Close>.
type Component struct{ Tag }

// Special is a <svelte:*> tag other than svelte:element.
type Special struct{ Tag }

// Slot is a <slot> insertion point.
type Slot struct{ Tag }

// Text is literal character data.
type Text struct {
	Data string
	Pos  int
}

// Mustache is a {expression} or {@tag expression} interpolation.
type Mustache struct {
	// Tag is "html", "const", "debug" or "render" for {@...} forms.
	Tag  string
	Expr string
	Pos  int
}

// Block is an {#if}, {#each}, {#await}, {#key} or {#snippet} block.
type Block struct {
	Keyword  string
	Branches []*Branch
	Pos      int
}

// Branch is one arm of a block. The first branch carries the block's own
// keyword and expression; later ones come from {:else}, {:then} and so on.
type Branch struct {
	Keyword  string
	Expr     string
	Children []Node
	Pos      int
}

// Comment is an HTML comment.
type Comment struct {
	Data string
	Pos  int
}

func (*Fragment) Offset() int    { return 0 }
func (n *Element) Offset() int   { return n.Pos }
func (n *Component) Offset() int { return n.Pos }
func (n *Special) Offset() int   { return n.Pos }
func (n *Slot) Offset() int      { return n.Pos }
func (n *Text) Offset() int      { return n.Pos }
func (n *Mustache) Offset() int  { return n.Pos }
func (n *Block) Offset() int     { return n.Pos }
func (n *Branch) Offset() int    { return n.Pos }
func (n *Comment) Offset() int   { return n.Pos }

func (*Fragment) node()  {}
func (*Element) node()   {}
func (*Component) node() {}
func (*Special) node()   {}
func (*Slot) node()      {}
func (*Text) node()      {}
func (*Mustache) node()  {}
func (*Block) node()     {}
func (*Branch) node()    {}
func (*Comment) node()   {}

// AttrKind classifies an attribute.
type AttrKind int

const (
	// AttrPlain is name, name="value" or name={expr}.
	AttrPlain AttrKind = iota
	// AttrShorthand is {name}.
	AttrShorthand
	// AttrSpread is {...expr}. It has no name.
	AttrSpread
	// AttrDirective is prefix:name such as on:click or bind:value.
	AttrDirective
)

// Attribute is one attribute of a tag.
type Attribute struct {
	Kind AttrKind
	// Name is the attribute name. For directives it is the part after the
	// colon without modifiers: "click" for on:click|once.
	Name string
	// Directive is the prefix of a directive ("on", "bind", ...).
	Directive string
	Modifiers []string
	// Value is the raw value text without quotes.
	Value    string
	HasValue bool
	// Expr is the expression of a {...} value, shorthand or spread.
	Expr    string
	HasExpr bool
	Pos     int
}

// IsEventHandler reports whether a is an on: directive.
func (a Attribute) IsEventHandler() bool {
	return a.Kind == AttrDirective && a.Directive == "on"
}

// Attr returns the first plain attribute called name.
func (t *Tag) Attr(name string) (Attribute, bool) {
	for _, a := range t.Attributes {
		if a.Kind == AttrPlain && a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// classify builds the node type for a tag name.
func classify(tag Tag) Node {
	switch {
	case tag.Name == "slot":
		return &Slot{tag}
	case tag.Name == "svelte:element":
		return &Element{tag}
	case strings.HasPrefix(tag.Name, "svelte:"):
		return &Special{tag}
	case isComponentName(tag.Name):
		return &Component{tag}
	default:
		return &Element{tag}
	}
}

func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return (c >= 'A' && c <= 'Z') || strings.Contains(name, ".")
}

// tagOf returns the shared Tag of a tag-like node.
func tagOf(n Node) *Tag {
	switch n := n.(type) {
	case *Element:
		return &n.Tag
	case *Component:
		return &n.Tag
	case *Special:
		return &n.Tag
	case *Slot:
		return &n.Tag
	}
	return nil
}
