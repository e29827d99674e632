package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"Button.svelte", "Button"},
		{"src/lib/components/Modal.svelte", "Modal"},
		{`C:\work\ui\Card.svelte`, "Card"},
		{"nested/Dialog.test.svelte", "Dialog.test"},
		{"NoExtension", "NoExtension"},
		{".svelte", ".svelte"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NameFromPath(tt.path))
		})
	}
}

func TestComponentDocLookups(t *testing.T) {
	doc := ComponentDoc{
		Props:  []PropDoc{{Name: "count", Type: TypeNumber}},
		Events: []EventDoc{{Name: "click", Detail: TypeAny}},
	}

	assert.True(t, doc.HasProp("count"))
	assert.False(t, doc.HasProp("label"))

	ev, ok := doc.Event("click")
	assert.True(t, ok)
	assert.Equal(t, TypeAny, ev.Detail)

	_, ok = doc.Event("submit")
	assert.False(t, ok)
}
