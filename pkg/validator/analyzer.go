package validator

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
)

// DocDrift describes how a persisted doc differs from a fresh analysis.
type DocDrift struct {
	// Sections lists the differing parts in document order: description,
	// props, events, slots.
	Sections []string
	// Diff is a cmp diff, -persisted +fresh.
	Diff string
}

// CompareDocs compares the analyzed doc with a persisted markdown document.
// It returns nil when they agree. The persisted text is decoded leniently
// since it may have been rewritten by hand or by a provider.
func (v *Validator) CompareDocs(analyzed model.ComponentDoc, persistedText string) *DocDrift {
	fresh := freshDoc(analyzed)
	persisted := markdown.DecodeWith(persistedText, markdown.DecodeOptions{Lenient: true})

	opts := v.cmpOptions()
	if cmp.Equal(persisted, fresh, opts...) {
		return nil
	}

	var sections []string
	if !v.opts.IgnoreDescriptions && persisted.Description != fresh.Description {
		sections = append(sections, "description")
	}
	if persisted.Name != fresh.Name {
		sections = append(sections, "name")
	}
	if !cmp.Equal(persisted.Props, fresh.Props, opts...) {
		sections = append(sections, "props")
	}
	if !cmp.Equal(persisted.Events, fresh.Events, opts...) {
		sections = append(sections, "events")
	}
	if !cmp.Equal(persisted.Slots, fresh.Slots, opts...) {
		sections = append(sections, "slots")
	}

	return &DocDrift{
		Sections: sections,
		Diff:     cmp.Diff(persisted, fresh, opts...),
	}
}

func (v *Validator) cmpOptions() []cmp.Option {
	opts := []cmp.Option{
		cmpopts.IgnoreFields(model.ComponentDoc{}, "LastUpdated"),
		cmpopts.EquateEmpty(),
	}
	if v.opts.IgnoreDescriptions {
		opts = append(opts,
			cmpopts.IgnoreFields(model.ComponentDoc{}, "Description"),
			cmpopts.IgnoreFields(model.PropDoc{}, "Description"),
			cmpopts.IgnoreFields(model.EventDoc{}, "Description"),
			cmpopts.IgnoreFields(model.SlotDoc{}, "Description"),
		)
	}
	return opts
}
