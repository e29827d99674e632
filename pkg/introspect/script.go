package introspect

import (
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/syntax/script"
)

// DispatcherFactory is the function whose zero-argument call creates an
// event dispatcher.
const DispatcherFactory = "createEventDispatcher"

// analyzeScript collects props from the top-level exported variable
// declarations of prog and records dispatched events into events.
//
// Only top-level statements are examined for props and dispatchers. Once
// the walk is done, the whole tree is scanned once for dispatcher calls.
func analyzeScript(prog *script.Program, events *eventSet) []model.PropDoc {
	props := []model.PropDoc{}
	dispatchers := make(map[string]bool)

	for _, stmt := range prog.Body {
		switch s := stmt.(type) {
		case *script.ExportDecl:
			if s.Decl == nil {
				continue
			}
			description := ExtractDescription(s.Leading)
			for _, d := range s.Decl.Declarators {
				if d.Name == "" {
					// Destructuring patterns do not declare a prop.
					continue
				}
				props = append(props, model.PropDoc{
					Name:         d.Name,
					Type:         InferType(d.Init),
					DefaultValue: InferValue(d.Init),
					Required:     d.Init == nil,
					Description:  description,
				})
			}

		case *script.VarDecl:
			for _, d := range s.Declarators {
				if d.Name == "" {
					continue
				}
				if call, ok := script.IsCallTo(d.Init, DispatcherFactory); ok && len(call.Args) == 0 {
					dispatchers[d.Name] = true
				}
			}
		}
	}

	if len(dispatchers) > 0 {
		scanDispatches(prog, dispatchers, events)
	}

	return props
}

// scanDispatches walks every node of prog and records each call to a
// dispatcher whose first argument is a non-empty string literal.
func scanDispatches(prog *script.Program, dispatchers map[string]bool, events *eventSet) {
	script.WalkProgram(prog, func(n script.Node) bool {
		call, ok := n.(*script.Call)
		if !ok || len(call.Args) == 0 {
			return true
		}
		callee, ok := call.Callee.(*script.Ident)
		if !ok || !dispatchers[callee.Name] {
			return true
		}

		name, ok := call.Args[0].(*script.Literal)
		if !ok || name.Kind != script.LiteralString || name.Value == "" {
			return true
		}

		detail := model.DetailVoid
		if len(call.Args) > 1 {
			detail = InferType(call.Args[1])
		}
		events.add(name.Value, detail)
		return true
	})
}
