// Package docstore holds the documentation shown by the display surfaces:
// the loaded component docs and the name of the active one.
package docstore

import (
	"sync"

	"github.com/gnana997/sveltedoc/pkg/model"
)

// State is a snapshot of the store.
type State struct {
	Components      []model.ComponentDoc `json:"components"`
	ActiveComponent string               `json:"activeComponent,omitempty"`
}

// Active returns the doc of the active component.
func (s State) Active() (model.ComponentDoc, bool) {
	if s.ActiveComponent == "" {
		return model.ComponentDoc{}, false
	}
	for _, c := range s.Components {
		if c.Name == s.ActiveComponent {
			return c, true
		}
	}
	return model.ComponentDoc{}, false
}

// Store is a concurrency-safe key-value store with change notification.
// Subscribers are called synchronously with the new state after every
// update.
type Store struct {
	mu     sync.RWMutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		state: State{Components: []model.ComponentDoc{}},
		subs:  make(map[int]func(State)),
	}
}

// Get returns a snapshot of the current state.
func (s *Store) Get() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// Subscribe registers fn and immediately calls it with the current state.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	current := s.snapshot()
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetDocs replaces the component list, keeping the active name.
func (s *Store) SetDocs(docs []model.ComponentDoc) {
	s.update(func(st *State) {
		st.Components = append([]model.ComponentDoc{}, docs...)
	})
}

// SetActiveComponent records the active component name. The name is not
// required to match a loaded doc.
func (s *Store) SetActiveComponent(name string) {
	s.update(func(st *State) {
		st.ActiveComponent = name
	})
}

// Clear resets the store to its empty state.
func (s *Store) Clear() {
	s.update(func(st *State) {
		*st = State{Components: []model.ComponentDoc{}}
	})
}

func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	current := s.snapshot()
	subs := make([]func(State), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(current)
	}
}

// snapshot copies the state. Must be called with mu held.
func (s *Store) snapshot() State {
	return State{
		Components:      append([]model.ComponentDoc{}, s.state.Components...),
		ActiveComponent: s.state.ActiveComponent,
	}
}
