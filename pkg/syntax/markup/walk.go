package markup

// Walk traverses the tree rooted at n depth-first in document order,
// calling fn before visiting a node's children. Returning false skips the
// children.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range Children(n) {
		Walk(child, fn)
	}
}

// Children returns the direct children of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case *Fragment:
		return n.Children
	case *Block:
		out := make([]Node, 0, len(n.Branches))
		for _, b := range n.Branches {
			out = append(out, b)
		}
		return out
	case *Branch:
		return n.Children
	}
	if tag := tagOf(n); tag != nil {
		return tag.Children
	}
	return nil
}
