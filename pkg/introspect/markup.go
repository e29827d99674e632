package introspect

import (
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/syntax/markup"
)

// analyzeMarkup collects slots from frag and records on: directives of
// elements into events. Components and special tags are traversed, but
// their directives are not events of this component.
func analyzeMarkup(frag *markup.Fragment, events *eventSet) []model.SlotDoc {
	slots := []model.SlotDoc{}

	markup.Walk(frag, func(n markup.Node) bool {
		switch n := n.(type) {
		case *markup.Slot:
			slots = append(slots, slotDoc(n))
		case *markup.Element:
			for _, attr := range n.Attributes {
				if !attr.IsEventHandler() || attr.Name == "" {
					continue
				}
				detail := model.DetailVoid
				if attr.HasExpr || attr.HasValue {
					detail = model.TypeAny
				}
				events.add(attr.Name, detail)
			}
		}
		return true
	})

	return slots
}

func slotDoc(s *markup.Slot) model.SlotDoc {
	doc := model.SlotDoc{
		Name:  model.DefaultSlotName,
		Props: []string{},
	}

	// Every named attribute is a prop, including name itself.
	for _, attr := range s.Attributes {
		if attr.Kind == markup.AttrSpread {
			continue
		}
		if attr.Kind == markup.AttrPlain && attr.Name == "name" && attr.Value != "" {
			doc.Name = attr.Value
		}
		doc.Props = append(doc.Props, attr.Name)
	}

	return doc
}
