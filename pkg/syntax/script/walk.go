package script

// Walk traverses the tree rooted at n depth-first in source order. fn is
// called for every node before its children; returning false skips the
// children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// WalkProgram walks every top-level statement of p.
func WalkProgram(p *Program, fn func(Node) bool) {
	if p == nil {
		return
	}
	for _, stmt := range p.Body {
		Walk(stmt, fn)
	}
}

// Children returns the direct children of n in source order.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *ExportDecl:
		var out []Node
		if n.Decl != nil {
			out = append(out, n.Decl)
		}
		return append(out, n.Rest...)
	case *VarDecl:
		out := make([]Node, 0, len(n.Declarators))
		for _, d := range n.Declarators {
			out = append(out, d)
		}
		return out
	case *Declarator:
		var out []Node
		if n.Pattern != nil {
			out = append(out, n.Pattern)
		}
		if n.Init != nil {
			out = append(out, n.Init)
		}
		return out
	case *ArrayLit:
		return n.Elements
	case *ObjectLit:
		return n.Members
	case *Call:
		out := make([]Node, 0, len(n.Args)+1)
		out = append(out, n.Callee)
		for _, a := range n.Args {
			out = append(out, a)
		}
		return out
	case *Other:
		return n.Children
	default:
		return nil
	}
}
