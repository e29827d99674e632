package introspect

import "github.com/gnana997/sveltedoc/pkg/model"

// eventSet accumulates events in the order they are first seen. A later
// event with a name already present is dropped.
type eventSet struct {
	events []model.EventDoc
	seen   map[string]struct{}
}

func newEventSet() *eventSet {
	return &eventSet{
		events: []model.EventDoc{},
		seen:   make(map[string]struct{}),
	}
}

// add records an event and reports whether it was new.
func (s *eventSet) add(name, detail string) bool {
	if _, dup := s.seen[name]; dup {
		return false
	}
	s.seen[name] = struct{}{}
	s.events = append(s.events, model.EventDoc{Name: name, Detail: detail})
	return true
}

func (s *eventSet) list() []model.EventDoc {
	return s.events
}
