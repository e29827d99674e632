package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
)

func TestCompareDocs_Equal(t *testing.T) {
	v := testValidator(Options{})
	assert.Nil(t, v.CompareDocs(buttonDoc(), markdown.Encode(buttonDoc())))
}

func TestCompareDocs_CodecNormalization(t *testing.T) {
	doc := model.ComponentDoc{
		Name:        "Note",
		Description: "First paragraph.\n\nSecond paragraph.",
		Props: []model.PropDoc{{
			Name:        "pattern",
			Type:        "string",
			Description: "a|b\nsecond line",
		}},
	}

	// Generation collapses the blank line in the description; that alone
	// is not drift.
	v := testValidator(Options{})
	assert.Nil(t, v.CompareDocs(doc, markdown.Encode(doc)))
}

func TestCompareDocs_Sections(t *testing.T) {
	v := testValidator(Options{})
	persisted := markdown.Encode(buttonDoc())

	changed := buttonDoc()
	changed.Events = append(changed.Events, model.EventDoc{Name: "focus", Detail: "void"})
	changed.Slots = nil

	d := v.CompareDocs(changed, persisted)
	require.NotNil(t, d)
	assert.Equal(t, []string{"events", "slots"}, d.Sections)
	assert.Contains(t, d.Diff, "focus")
}

func TestCompareDocs_RewrittenLayout(t *testing.T) {
	// A rewritten doc without the blank lines the encoder emits.
	persisted := "# Button\nA clickable button.\n## Props\n\n" +
		"| Name | Type | Default | Required | Description |\n" +
		"|---|---|---|---|---|\n" +
		"| label | string | Click | No | Visible text |\n" +
		"| disabled | boolean | false | No | - |\n" +
		"## Events\n| Name | Detail | Description |\n|---|---|---|\n| press | object | - |\n" +
		"## Slots\n| Name | Props | Description |\n|---|---|---|\n| icon | size | - |\n"

	v := testValidator(Options{})
	assert.Nil(t, v.CompareDocs(buttonDoc(), persisted))
}
