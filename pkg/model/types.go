// Package model defines the documentation records produced by introspection
// and consumed by the markdown codec, the catalog, and the display surfaces.
//
// All records are plain values. They are created fresh per analysis (or per
// decode) run and are never mutated once returned; an enhancement step yields
// a new ComponentDoc by decoding a newly rendered document.
package model

import (
	"path/filepath"
	"strings"
	"time"
)

// ComponentDoc is the documentation model of a single component.
type ComponentDoc struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Props       []PropDoc  `json:"props"`
	Events      []EventDoc `json:"events"`
	Slots       []SlotDoc  `json:"slots"`

	// LastUpdated is only set by the markdown decoder.
	LastUpdated *time.Time `json:"lastUpdated,omitempty"`
}

// PropDoc describes an exported script binding.
type PropDoc struct {
	Name string `json:"name"`
	Type string `json:"type"` // string, number, boolean, array, object, any

	// DefaultValue is nil when no initializer was syntactically present or
	// the initializer is not a literal-like expression.
	DefaultValue *string `json:"defaultValue,omitempty"`
	Required     bool    `json:"required"`
	Description  string  `json:"description"`
}

// EventDoc describes an event the component emits.
type EventDoc struct {
	Name        string `json:"name"`
	Detail      string `json:"detail"` // coarse type label, "void" when no payload
	Description string `json:"description"`
}

// SlotDoc describes a content insertion point.
type SlotDoc struct {
	Name        string   `json:"name"`
	Props       []string `json:"props"`
	Description string   `json:"description"`
}

// Coarse type labels produced by the inferencer.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
	TypeAny     = "any"

	// DetailVoid marks an event emitted without a payload.
	DetailVoid = "void"

	// DefaultSlotName is used for slots without an explicit name.
	DefaultSlotName = "default"
)

// NameFromPath derives a component name from a source identifier: the base
// name with its final extension stripped.
//
//	NameFromPath("src/lib/Button.svelte") == "Button"
func NameFromPath(path string) string {
	base := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		base = path[i+1:]
	}
	if ext := filepath.Ext(base); ext != "" && ext != base {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// StringPtr returns a pointer to s. Handy for building PropDoc defaults.
func StringPtr(s string) *string {
	return &s
}

// HasProp reports whether the component declares a prop with the given name.
func (c ComponentDoc) HasProp(name string) bool {
	for _, p := range c.Props {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Event returns the event with the given name.
func (c ComponentDoc) Event(name string) (EventDoc, bool) {
	for _, e := range c.Events {
		if e.Name == name {
			return e, true
		}
	}
	return EventDoc{}, false
}
