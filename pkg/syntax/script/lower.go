package script

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sveltedoc/pkg/parser"
)

// Parse parses script source with the manager's pooled parsers and lowers
// the result. The tree-sitter tree is closed before returning.
func Parse(pm *parser.ParserManager, source []byte, lang parser.Language) (*Program, error) {
	tree, err := pm.Parse(source, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	defer tree.Close()

	return Lower(tree, source), nil
}

// Lower converts a tree-sitter parse of source into a Program.
//
// Comments between two top-level statements are attached to the second one
// as its leading comments.
func Lower(tree *ts.Tree, source []byte) *Program {
	prog := &Program{}
	if tree == nil {
		return prog
	}

	root := tree.RootNode()
	prog.HasError = root.HasError()
	l := lowerer{source: source}

	var pending []Comment
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child == nil || !child.IsNamed() {
			continue
		}

		switch child.Kind() {
		case "comment":
			pending = append(pending, l.comment(child))
			continue
		case "export_statement":
			prog.Body = append(prog.Body, l.export(child, pending))
		case "lexical_declaration", "variable_declaration":
			decl := l.varDecl(child)
			decl.Leading = pending
			prog.Body = append(prog.Body, decl)
		default:
			prog.Body = append(prog.Body, l.other(child))
		}
		pending = nil
	}

	l.collectComments(root, &prog.Comments)
	return prog
}

type lowerer struct {
	source []byte
}

func (l *lowerer) text(n *ts.Node) string {
	return n.Utf8Text(l.source)
}

func span(n *ts.Node) Span {
	return Span{Start: int(n.StartByte()), End: int(n.EndByte())}
}

func (l *lowerer) comment(n *ts.Node) Comment {
	raw := l.text(n)
	c := Comment{Pos: span(n)}
	switch {
	case strings.HasPrefix(raw, "/*"):
		c.Block = true
		c.Text = strings.TrimSuffix(raw[2:], "*/")
	case strings.HasPrefix(raw, "//"):
		c.Text = raw[2:]
	default:
		c.Text = raw
	}
	return c
}

func (l *lowerer) collectComments(n *ts.Node, out *[]Comment) {
	if n.Kind() == "comment" {
		*out = append(*out, l.comment(n))
		return
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if child := n.Child(i); child != nil {
			l.collectComments(child, out)
		}
	}
}

func (l *lowerer) export(n *ts.Node, leading []Comment) *ExportDecl {
	exp := &ExportDecl{Leading: leading, Pos: span(n)}

	if decl := n.ChildByFieldName("declaration"); decl != nil {
		switch decl.Kind() {
		case "lexical_declaration", "variable_declaration":
			exp.Decl = l.varDecl(decl)
			return exp
		}
	}

	exp.Rest = l.children(n)
	return exp
}

func (l *lowerer) varDecl(n *ts.Node) *VarDecl {
	decl := &VarDecl{Pos: span(n)}
	if first := n.Child(0); first != nil {
		decl.Kind = l.text(first)
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() != "variable_declarator" {
			continue
		}

		d := &Declarator{Pos: span(child)}
		if name := child.ChildByFieldName("name"); name != nil {
			if name.Kind() == "identifier" {
				d.Name = l.text(name)
			} else {
				d.Pattern = l.expr(name)
			}
		}
		if value := child.ChildByFieldName("value"); value != nil {
			d.Init = l.expr(value)
		}
		decl.Declarators = append(decl.Declarators, d)
	}

	return decl
}

func (l *lowerer) expr(n *ts.Node) Expr {
	switch n.Kind() {
	case "parenthesized_expression":
		inner := l.children(n)
		if len(inner) == 1 {
			if e, ok := inner[0].(Expr); ok {
				return e
			}
		}
		return l.other(n)

	case "string":
		return &Literal{Kind: LiteralString, Raw: l.text(n), Value: l.stringValue(n), Pos: span(n)}

	case "number":
		raw := l.text(n)
		if strings.HasSuffix(raw, "n") {
			return &Literal{Kind: LiteralBigInt, Raw: raw, Value: bigIntString(raw), Pos: span(n)}
		}
		return &Literal{Kind: LiteralNumber, Raw: raw, Value: numberString(raw), Pos: span(n)}

	case "true", "false":
		raw := l.text(n)
		return &Literal{Kind: LiteralBoolean, Raw: raw, Value: raw, Pos: span(n)}

	case "null":
		return &Literal{Kind: LiteralNull, Raw: "null", Value: "null", Pos: span(n)}

	case "regex":
		raw := l.text(n)
		return &Literal{Kind: LiteralRegex, Raw: raw, Value: raw, Pos: span(n)}

	case "array":
		return &ArrayLit{Elements: l.children(n), Pos: span(n)}

	case "object":
		return &ObjectLit{Members: l.children(n), Pos: span(n)}

	case "identifier", "undefined":
		return &Ident{Name: l.text(n), Pos: span(n)}

	case "call_expression":
		fn := n.ChildByFieldName("function")
		args := n.ChildByFieldName("arguments")
		if fn == nil || args == nil || args.Kind() != "arguments" {
			// Tagged templates are not calls.
			return l.other(n)
		}
		call := &Call{Callee: l.expr(fn), Pos: span(n)}
		for _, arg := range l.children(args) {
			if e, ok := arg.(Expr); ok {
				call.Args = append(call.Args, e)
			}
		}
		return call

	default:
		return l.other(n)
	}
}

func (l *lowerer) other(n *ts.Node) *Other {
	o := &Other{Kind: n.Kind(), Pos: span(n)}
	o.Children = l.children(n)
	if len(o.Children) == 0 {
		o.Text = l.text(n)
	}
	return o
}

// children lowers the named, non-comment children of n.
func (l *lowerer) children(n *ts.Node) []Node {
	var out []Node
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Kind() == "comment" {
			continue
		}
		out = append(out, l.expr(child))
	}
	return out
}

// stringValue returns the runtime value of a string literal node.
func (l *lowerer) stringValue(n *ts.Node) string {
	var sb strings.Builder
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "string_fragment":
			sb.WriteString(l.text(child))
		case "escape_sequence":
			sb.WriteString(unescape(l.text(child)))
		}
	}
	return sb.String()
}
