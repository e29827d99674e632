// Package script holds the syntax tree of a component script block.
//
// The tree is a closed set of node types lowered from a tree-sitter parse.
// Only the shapes the analyzers care about get their own type; everything
// else becomes an Other node that keeps its lowered children, so a full
// traversal still reaches every nested call expression.
package script

// Span is a byte range within the script content.
type Span struct {
	Start int
	End   int
}

// Node is implemented by every syntax node.
type Node interface {
	Span() Span
	node()
}

// Stmt is a top-level statement.
type Stmt interface {
	Node
	stmt()
}

// Expr is an expression.
type Expr interface {
	Node
	expr()
}

// Comment is a comment attached to a statement or collected from the
// whole script.
type Comment struct {
	// Text is the comment body without its delimiters.
	Text string
	// Block is true for /* */ comments.
	Block bool
	Pos   Span
}

// Program is the root of a lowered script.
type Program struct {
	Body []Stmt
	// Comments holds every comment in source order, nested ones included.
	Comments []Comment
	// HasError is set when the parser had to recover from a syntax error.
	HasError bool
}

// ExportDecl is an export statement. Decl is nil unless the export wraps a
// variable declaration.
type ExportDecl struct {
	Decl *VarDecl
	// Leading holds the comments between the previous statement and this one.
	Leading []Comment
	// Rest holds the lowered contents of non-variable exports.
	Rest []Node
	Pos  Span
}

// VarDecl is a let, const or var declaration.
type VarDecl struct {
	Kind        string
	Declarators []*Declarator
	Leading     []Comment
	Pos         Span
}

// Declarator binds one name or pattern.
type Declarator struct {
	// Name is empty when the binding is a destructuring pattern.
	Name    string
	Pattern Node
	// Init is nil when there is no initializer.
	Init Expr
	Pos  Span
}

// LiteralKind classifies a Literal.
type LiteralKind int

const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBigInt
	LiteralBoolean
	LiteralNull
	LiteralRegex
)

// Literal is a primitive literal. Value is the runtime text of the literal:
// strings are unescaped, numbers are in canonical decimal form and regexes
// keep their /source/flags form.
type Literal struct {
	Kind  LiteralKind
	Raw   string
	Value string
	Pos   Span
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Elements []Node
	Pos      Span
}

// ObjectLit is an object literal.
type ObjectLit struct {
	Members []Node
	Pos     Span
}

// Ident is an identifier reference.
type Ident struct {
	Name string
	Pos  Span
}

// Call is a call expression with a parenthesized argument list.
type Call struct {
	Callee Expr
	Args   []Expr
	Pos    Span
}

// Other is any node without a dedicated type. Kind is the grammar's node
// kind. It may appear in statement or expression position.
type Other struct {
	Kind     string
	Text     string
	Children []Node
	Pos      Span
}

func (n *ExportDecl) Span() Span { return n.Pos }
func (n *VarDecl) Span() Span    { return n.Pos }
func (n *Declarator) Span() Span { return n.Pos }
func (n *Literal) Span() Span    { return n.Pos }
func (n *ArrayLit) Span() Span   { return n.Pos }
func (n *ObjectLit) Span() Span  { return n.Pos }
func (n *Ident) Span() Span      { return n.Pos }
func (n *Call) Span() Span       { return n.Pos }
func (n *Other) Span() Span      { return n.Pos }

func (*ExportDecl) node() {}
func (*VarDecl) node()    {}
func (*Declarator) node() {}
func (*Literal) node()    {}
func (*ArrayLit) node()   {}
func (*ObjectLit) node()  {}
func (*Ident) node()      {}
func (*Call) node()       {}
func (*Other) node()      {}

func (*ExportDecl) stmt() {}
func (*VarDecl) stmt()    {}
func (*Other) stmt()      {}

func (*Literal) expr()   {}
func (*ArrayLit) expr()  {}
func (*ObjectLit) expr() {}
func (*Ident) expr()     {}
func (*Call) expr()      {}
func (*Other) expr()     {}

// IsCallTo reports whether e is a call whose callee is the identifier name.
func IsCallTo(e Expr, name string) (*Call, bool) {
	call, ok := e.(*Call)
	if !ok {
		return nil, false
	}
	id, ok := call.Callee.(*Ident)
	if !ok || id.Name != name {
		return nil, false
	}
	return call, true
}
