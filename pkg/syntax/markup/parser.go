package markup

import (
	"bytes"
	"strings"
)

// voidElements never have children.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// directivePrefixes are the attribute prefixes that form directives.
var directivePrefixes = map[string]bool{
	"on": true, "bind": true, "class": true, "style": true, "use": true,
	"transition": true, "in": true, "out": true, "animate": true, "let": true,
}

// frame is an open container on the parse stack.
type frame struct {
	// name is the tag name of an open element; empty for blocks and the root.
	name     string
	children *[]Node
	block    *Block
}

type parser struct {
	src   []byte
	pos   int
	stack []frame
}

// Parse parses a template. It never fails.
func Parse(src []byte) *Fragment {
	root := &Fragment{}
	p := &parser{src: src, stack: []frame{{children: &root.Children}}}
	p.run()
	return root
}

func (p *parser) run() {
	for p.pos < len(p.src) {
		switch {
		case p.has("<!--"):
			p.comment()
		case p.has("</"):
			p.closeTag()
		case p.src[p.pos] == '<' && p.pos+1 < len(p.src) && isTagStart(p.src[p.pos+1]):
			p.openTag()
		case p.src[p.pos] == '{':
			p.mustache()
		default:
			p.text()
		}
	}
}

func (p *parser) has(prefix string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(prefix))
}

func (p *parser) append(n Node) {
	top := &p.stack[len(p.stack)-1]
	*top.children = append(*top.children, n)
}

func (p *parser) text() {
	start := p.pos
	p.pos++
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '{' {
			break
		}
		if c == '<' && p.pos+1 < len(p.src) {
			next := p.src[p.pos+1]
			if isTagStart(next) || next == '/' || next == '!' {
				break
			}
		}
		p.pos++
	}
	p.append(&Text{Data: string(p.src[start:p.pos]), Pos: start})
}

func (p *parser) comment() {
	start := p.pos
	body := p.pos + 4
	end := bytes.Index(p.src[body:], []byte("-->"))
	if end < 0 {
		p.append(&Comment{Data: string(p.src[body:]), Pos: start})
		p.pos = len(p.src)
		return
	}
	p.append(&Comment{Data: string(p.src[body : body+end]), Pos: start})
	p.pos = body + end + 3
}

func (p *parser) closeTag() {
	p.pos += 2
	start := p.pos
	gt := bytes.IndexByte(p.src[p.pos:], '>')
	if gt < 0 {
		p.pos = len(p.src)
		return
	}
	name := strings.TrimSpace(string(p.src[start : start+gt]))
	p.pos = start + gt + 1

	// Close the nearest matching element without crossing a block.
	for i := len(p.stack) - 1; i > 0; i-- {
		f := p.stack[i]
		if f.block != nil {
			return
		}
		if f.name == name {
			p.stack = p.stack[:i]
			return
		}
	}
}

func (p *parser) openTag() {
	start := p.pos
	p.pos++
	nameStart := p.pos
	for p.pos < len(p.src) && !isSpace(p.src[p.pos]) && p.src[p.pos] != '>' && p.src[p.pos] != '/' {
		p.pos++
	}
	name := string(p.src[nameStart:p.pos])

	attrs, selfClosing := p.attributes()
	n := classify(Tag{Name: name, Attributes: attrs, Pos: start})
	p.append(n)

	if selfClosing {
		return
	}
	if _, isElement := n.(*Element); isElement && voidElements[strings.ToLower(name)] {
		return
	}
	p.stack = append(p.stack, frame{name: name, children: &tagOf(n).Children})
}

func (p *parser) attributes() ([]Attribute, bool) {
	var attrs []Attribute
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return attrs, false
		}

		c := p.src[p.pos]
		switch {
		case c == '>':
			p.pos++
			return attrs, false
		case c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>':
			p.pos += 2
			return attrs, true
		case c == '{':
			start := p.pos
			expr := strings.TrimSpace(p.braced())
			if rest, ok := strings.CutPrefix(expr, "..."); ok {
				attrs = append(attrs, Attribute{Kind: AttrSpread, Expr: strings.TrimSpace(rest), HasExpr: true, Pos: start})
			} else {
				attrs = append(attrs, Attribute{Kind: AttrShorthand, Name: expr, Expr: expr, HasExpr: true, Pos: start})
			}
			continue
		}

		start := p.pos
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if isSpace(c) || c == '=' || c == '>' || (c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>') {
				break
			}
			p.pos++
		}
		if p.pos == start {
			p.pos++
			continue
		}

		attr := newAttribute(string(p.src[start:p.pos]), start)

		save := p.pos
		p.skipSpace()
		if p.pos < len(p.src) && p.src[p.pos] == '=' {
			p.pos++
			p.skipSpace()
			p.attrValue(&attr)
		} else {
			p.pos = save
		}

		attrs = append(attrs, attr)
	}
}

func newAttribute(name string, pos int) Attribute {
	if prefix, rest, ok := strings.Cut(name, ":"); ok && directivePrefixes[prefix] {
		parts := strings.Split(rest, "|")
		return Attribute{
			Kind:      AttrDirective,
			Directive: prefix,
			Name:      parts[0],
			Modifiers: parts[1:],
			Pos:       pos,
		}
	}
	return Attribute{Kind: AttrPlain, Name: name, Pos: pos}
}

func (p *parser) attrValue(attr *Attribute) {
	if p.pos >= len(p.src) {
		return
	}
	attr.HasValue = true

	switch q := p.src[p.pos]; q {
	case '"', '\'':
		p.pos++
		start := p.pos
		depth := 0
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if c == '{' {
				depth++
			} else if c == '}' && depth > 0 {
				depth--
			} else if c == q && depth == 0 {
				break
			}
			p.pos++
		}
		attr.Value = string(p.src[start:p.pos])
		if p.pos < len(p.src) {
			p.pos++
		}
		if expr, ok := singleExpression(attr.Value); ok {
			attr.Expr, attr.HasExpr = expr, true
		}

	case '{':
		start := p.pos
		expr := p.braced()
		attr.Value = string(p.src[start:p.pos])
		attr.Expr, attr.HasExpr = strings.TrimSpace(expr), true

	default:
		start := p.pos
		for p.pos < len(p.src) {
			c := p.src[p.pos]
			if isSpace(c) || c == '>' || (c == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '>') {
				break
			}
			p.pos++
		}
		attr.Value = string(p.src[start:p.pos])
	}
}

// singleExpression reports whether a quoted value is exactly one {expr}.
func singleExpression(value string) (string, bool) {
	v := strings.TrimSpace(value)
	if !strings.HasPrefix(v, "{") {
		return "", false
	}
	end := matchBrace(v, 0)
	if end != len(v)-1 {
		return "", false
	}
	return strings.TrimSpace(v[1:end]), true
}

func (p *parser) mustache() {
	start := p.pos
	t := strings.TrimSpace(p.braced())

	switch {
	case strings.HasPrefix(t, "#"):
		keyword, expr := splitWord(t[1:])
		block := &Block{Keyword: keyword, Pos: start}
		branch := &Branch{Keyword: keyword, Expr: expr, Pos: start}
		block.Branches = append(block.Branches, branch)
		p.append(block)
		p.stack = append(p.stack, frame{block: block, children: &branch.Children})

	case strings.HasPrefix(t, ":"):
		keyword, expr := splitWord(t[1:])
		if keyword == "else" {
			if next, rest := splitWord(expr); next == "if" {
				keyword, expr = "else if", rest
			}
		}
		i := p.nearestBlock("")
		if i < 0 {
			return
		}
		branch := &Branch{Keyword: keyword, Expr: expr, Pos: start}
		block := p.stack[i].block
		block.Branches = append(block.Branches, branch)
		p.stack = p.stack[:i+1]
		p.stack[i].children = &branch.Children

	case strings.HasPrefix(t, "/"):
		if i := p.nearestBlock(strings.TrimSpace(t[1:])); i >= 0 {
			p.stack = p.stack[:i]
		}

	case strings.HasPrefix(t, "@"):
		tag, expr := splitWord(t[1:])
		p.append(&Mustache{Tag: tag, Expr: expr, Pos: start})

	default:
		p.append(&Mustache{Expr: t, Pos: start})
	}
}

// nearestBlock returns the stack index of the innermost open block with
// the given keyword (any keyword when empty), or -1.
func (p *parser) nearestBlock(keyword string) int {
	for i := len(p.stack) - 1; i > 0; i-- {
		if b := p.stack[i].block; b != nil && (keyword == "" || b.Keyword == keyword) {
			return i
		}
	}
	return -1
}

// braced consumes a {...} group starting at p.pos and returns its inner
// text. An unterminated group runs to the end of input.
func (p *parser) braced() string {
	start := p.pos
	end := matchBrace(string(p.src), start)
	if end < 0 {
		p.pos = len(p.src)
		return string(p.src[start+1:])
	}
	p.pos = end + 1
	return string(p.src[start+1 : end])
}

// matchBrace returns the index of the brace closing the one at open,
// skipping string and template literals. Returns -1 if unbalanced.
func matchBrace(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch c := s[i]; c {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		case '"', '\'', '`':
			i = skipQuoted(s, i)
		}
	}
	return -1
}

// skipQuoted returns the index of the quote closing the one at i.
func skipQuoted(s string, i int) int {
	q := s[i]
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case q:
			return j
		}
	}
	return len(s) - 1
}

func splitWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	i := strings.IndexAny(s, " \t\r\n")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimSpace(s[i+1:])
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isTagStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
