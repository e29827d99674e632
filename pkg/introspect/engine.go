// Package introspect recovers the documentation model of a component from
// its source: props from exported script bindings, events from dispatcher
// calls and on: directives, slots from <slot> elements, and descriptions
// from doc comments.
//
// Analysis never fails. Shapes it does not understand degrade to "any" or
// to an absent default, and a script that cannot be parsed contributes
// nothing while the markup is still analyzed.
package introspect

import (
	"log/slog"

	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/parser"
	"github.com/gnana997/sveltedoc/pkg/sfc"
	"github.com/gnana997/sveltedoc/pkg/syntax/markup"
	"github.com/gnana997/sveltedoc/pkg/syntax/script"
)

// Introspector builds ComponentDocs. It is safe for concurrent use; the
// only shared state is the parser pool.
type Introspector struct {
	parsers   *parser.ParserManager
	ownParser bool
	logger    *slog.Logger
}

// New creates an Introspector that parses scripts with parsers. When
// parsers is nil the Introspector creates its own manager, released by
// Close.
func New(parsers *parser.ParserManager, logger *slog.Logger) *Introspector {
	if logger == nil {
		logger = slog.Default()
	}
	in := &Introspector{parsers: parsers, logger: logger}
	if parsers == nil {
		in.parsers = parser.NewParserManager(logger)
		in.ownParser = true
	}
	return in
}

// Close releases the parser manager if the Introspector created it.
func (in *Introspector) Close() error {
	if in.ownParser {
		return in.parsers.Close()
	}
	return nil
}

// Analyze builds the documentation model of one component. filename is
// only used to derive the component name.
//
// The instance script is analyzed before the markup, so when a dispatched
// event and an on: directive share a name the dispatched one is kept.
func (in *Introspector) Analyze(source []byte, filename string) model.ComponentDoc {
	blocks, err := sfc.Split(in.parsers, source)
	if err != nil {
		in.logger.Warn("failed to split component, analyzing source as markup",
			"file", filename,
			"error", err)
	}
	frag := markup.Parse(blocks.Markup)
	events := newEventSet()

	doc := model.ComponentDoc{
		Name:  model.NameFromPath(filename),
		Props: []model.PropDoc{},
	}

	doc.Description = in.description(blocks.Module, frag, filename)

	if prog := in.parseScript(blocks.Instance, filename); prog != nil {
		doc.Props = analyzeScript(prog, events)
	}

	doc.Slots = analyzeMarkup(frag, events)
	doc.Events = events.list()

	in.logger.Debug("analyzed component",
		"component", doc.Name,
		"props", len(doc.Props),
		"events", len(doc.Events),
		"slots", len(doc.Slots))

	return doc
}

// description reads the module script's doc comments, falling back to a
// top-level <!-- @component --> comment.
func (in *Introspector) description(module *sfc.Script, frag *markup.Fragment, filename string) string {
	if prog := in.parseScript(module, filename); prog != nil {
		if text := ExtractDescription(prog.Comments); text != "" {
			return text
		}
	}

	for _, child := range frag.Children {
		if c, ok := child.(*markup.Comment); ok {
			if text, ok := componentComment(c.Data); ok {
				return text
			}
		}
	}
	return ""
}

func (in *Introspector) parseScript(s *sfc.Script, filename string) *script.Program {
	if s == nil {
		return nil
	}

	lang := parser.ScriptLanguage(s.Lang())
	if lang == parser.LanguageUnknown {
		in.logger.Warn("unsupported script language, skipping script analysis",
			"file", filename,
			"lang", s.Lang())
		return nil
	}

	prog, err := script.Parse(in.parsers, s.Content, lang)
	if err != nil {
		in.logger.Warn("failed to parse script, skipping script analysis",
			"file", filename,
			"error", err)
		return nil
	}
	if prog.HasError {
		in.logger.Debug("script contains syntax errors", "file", filename)
	}

	return prog
}
