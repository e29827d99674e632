// Package sfc splits a single-file component into its script, style and
// markup regions.
//
// The component is read with the tree-sitter HTML grammar, which treats
// script and style contents as raw text. Svelte expressions in the markup
// produce error nodes in that tree, but the script and style elements around
// them are still recovered. A missing closing tag extends the block to the
// end of the source, and anything that is not a block is markup.
package sfc

import (
	"fmt"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/sveltedoc/pkg/parser"
)

// Script is one <script> block.
type Script struct {
	// Content is the text between the opening and closing tags.
	Content []byte
	// Offset is the byte offset of Content within the original source.
	Offset int
	// Attrs holds the opening tag's attributes. Bare attributes map to "".
	Attrs map[string]string
}

// Lang returns the script's declared language ("" when absent).
func (s *Script) Lang() string {
	if s == nil {
		return ""
	}
	return strings.ToLower(s.Attrs["lang"])
}

// IsTypeScript reports whether the script declares lang="ts".
func (s *Script) IsTypeScript() bool {
	switch s.Lang() {
	case "ts", "typescript":
		return true
	}
	return false
}

// Blocks is the result of splitting a component.
type Blocks struct {
	// Instance is the component's instance script (nil if absent).
	Instance *Script
	// Module is the context="module" script (nil if absent).
	Module *Script
	// Styles holds the contents of every <style> block.
	Styles [][]byte
	// Markup is the source with script and style blocks blanked out. It has
	// the same length as the source so byte offsets stay valid.
	Markup []byte
}

// Split locates the script and style blocks of source using pm's HTML
// parsers. If the document cannot be parsed at all, the error is returned
// together with Blocks that treat the whole source as markup.
func Split(pm *parser.ParserManager, source []byte) (Blocks, error) {
	markup := make([]byte, len(source))
	copy(markup, source)
	blocks := Blocks{Markup: markup}

	tree, err := pm.Parse(source, parser.LanguageHTML)
	if err != nil {
		return blocks, fmt.Errorf("failed to parse component document: %w", err)
	}
	defer tree.Close()

	s := splitter{source: source, blocks: &blocks}
	s.visit(tree.RootNode())
	return blocks, nil
}

type splitter struct {
	source []byte
	blocks *Blocks
}

// block is the extent of one script or style element.
type block struct {
	start, end uint
	tag        *ts.Node
	raw        *ts.Node
}

// visit walks the document in source order. Comments are leaves, so a
// commented-out <script> is never picked up.
func (s *splitter) visit(n *ts.Node) {
	switch n.Kind() {
	case "script_element", "style_element":
		tag := firstNamed(n, "start_tag")
		s.add(s.tagName(tag), block{
			start: n.StartByte(),
			end:   n.EndByte(),
			tag:   tag,
			raw:   firstNamed(n, "raw_text"),
		})
		return
	case "self_closing_tag":
		s.add(s.tagName(n), block{start: n.StartByte(), end: n.EndByte(), tag: n})
		return
	case "comment":
		return
	}

	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child == nil {
			continue
		}
		// Error recovery can leave a script's tag and text as loose
		// children instead of a script_element.
		if child.Kind() == "start_tag" && n.Kind() == "ERROR" {
			if name := s.tagName(child); name == "script" || name == "style" {
				b := block{start: child.StartByte(), end: child.EndByte(), tag: child}
				if next := n.NamedChild(i + 1); next != nil && next.Kind() == "raw_text" {
					b.raw, b.end = next, next.EndByte()
					i++
				}
				if next := n.NamedChild(i + 1); next != nil && next.Kind() == "end_tag" {
					b.end = next.EndByte()
					i++
				}
				s.add(name, b)
				continue
			}
		}
		s.visit(child)
	}
}

func (s *splitter) add(name string, b block) {
	switch name {
	case "script":
		content, offset := s.content(b)
		script := &Script{Content: content, Offset: offset, Attrs: s.attributes(b.tag)}
		if isModule(script.Attrs) {
			if s.blocks.Module == nil {
				s.blocks.Module = script
			}
		} else if s.blocks.Instance == nil {
			s.blocks.Instance = script
		}
	case "style":
		content, _ := s.content(b)
		s.blocks.Styles = append(s.blocks.Styles, content)
	default:
		return
	}
	s.blank(b.start, b.end)
}

// content returns the block's raw text and its offset. An empty block has
// no raw_text node; its content starts where the tag ends.
func (s *splitter) content(b block) ([]byte, int) {
	if b.raw != nil {
		return s.source[b.raw.StartByte():b.raw.EndByte()], int(b.raw.StartByte())
	}
	end := int(b.end)
	if b.tag != nil {
		end = int(b.tag.EndByte())
	}
	return s.source[end:end], end
}

// attributes reads tag's attributes. Names are lowercased and quoted
// values are returned without their quotes.
func (s *splitter) attributes(tag *ts.Node) map[string]string {
	attrs := make(map[string]string)
	if tag == nil {
		return attrs
	}

	for i := uint(0); i < tag.NamedChildCount(); i++ {
		attr := tag.NamedChild(i)
		if attr == nil || attr.Kind() != "attribute" {
			continue
		}

		var name, value string
		for j := uint(0); j < attr.NamedChildCount(); j++ {
			part := attr.NamedChild(j)
			if part == nil {
				continue
			}
			switch part.Kind() {
			case "attribute_name":
				name = strings.ToLower(part.Utf8Text(s.source))
			case "attribute_value":
				value = part.Utf8Text(s.source)
			case "quoted_attribute_value":
				if inner := firstNamed(part, "attribute_value"); inner != nil {
					value = inner.Utf8Text(s.source)
				}
			}
		}
		if name != "" {
			attrs[name] = value
		}
	}
	return attrs
}

func (s *splitter) tagName(tag *ts.Node) string {
	if tag == nil {
		return ""
	}
	if name := firstNamed(tag, "tag_name"); name != nil {
		return strings.ToLower(name.Utf8Text(s.source))
	}
	return ""
}

// blank replaces every byte in [start, end) except newlines with a space.
func (s *splitter) blank(start, end uint) {
	b := s.blocks.Markup[start:end]
	for i, c := range b {
		if c != '\n' {
			b[i] = ' '
		}
	}
}

func firstNamed(n *ts.Node, kind string) *ts.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		if child := n.NamedChild(i); child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func isModule(attrs map[string]string) bool {
	if strings.EqualFold(attrs["context"], "module") {
		return true
	}
	_, ok := attrs["module"]
	return ok
}
