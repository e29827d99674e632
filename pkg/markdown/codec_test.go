package markdown

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/sveltedoc/pkg/model"
)

var ignoreUpdated = cmpopts.IgnoreFields(model.ComponentDoc{}, "LastUpdated")

func counterDoc() model.ComponentDoc {
	return model.ComponentDoc{
		Name:   "Counter",
		Props:  []model.PropDoc{{Name: "count", Type: "number", DefaultValue: model.StringPtr("0")}},
		Events: []model.EventDoc{{Name: "click", Detail: "any"}},
		Slots:  []model.SlotDoc{{Name: "default", Props: []string{"a", "b"}}},
	}
}

const counterMarkdown = `# Counter

## Props
| Name | Type | Default | Required | Description |
|------|------|---------|----------|-------------|
| count | number | 0 | No | - |

## Events
| Name | Detail | Description |
|------|--------|-------------|
| click | any | - |

## Slots
| Name | Props | Description |
|------|-------|-------------|
| default | a, b | - |

`

func TestEncode_ExactLayout(t *testing.T) {
	assert.Equal(t, counterMarkdown, Encode(counterDoc()))
}

func TestEncode_Deterministic(t *testing.T) {
	doc := counterDoc()
	assert.Equal(t, Encode(doc), Encode(doc))
}

func TestEncode_OmitsEmptySections(t *testing.T) {
	out := Encode(model.ComponentDoc{Name: "Empty", Description: "Nothing here."})

	assert.Equal(t, "# Empty\n\nNothing here.\n\n", out)
}

func TestEncode_Sentinels(t *testing.T) {
	out := Encode(model.ComponentDoc{
		Name: "S",
		Props: []model.PropDoc{
			{Name: "a", Type: "any", Required: true},
			{Name: "b", Type: "string", DefaultValue: model.StringPtr("")},
		},
		Slots: []model.SlotDoc{{Name: "default", Props: []string{}}},
	})

	assert.Contains(t, out, "| a | any | - | Yes | - |\n")
	assert.Contains(t, out, "| b | string | - | No | - |\n", "empty default renders as -")
	assert.Contains(t, out, "| default | - | - |\n")
}

func TestDecode_Counter(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	restore := Now
	Now = func() time.Time { return fixed }
	defer func() { Now = restore }()

	doc := Decode(counterMarkdown)

	require.NotNil(t, doc.LastUpdated)
	assert.Equal(t, fixed, *doc.LastUpdated)
	if diff := cmp.Diff(counterDoc(), doc, ignoreUpdated); diff != "" {
		t.Errorf("decoded model mismatch (-want +got):\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	docs := []model.ComponentDoc{
		counterDoc(),
		{
			Name:        "Dialog",
			Description: "A modal dialog.\nTraps focus.",
			Props: []model.PropDoc{
				{Name: "open", Type: "boolean", DefaultValue: model.StringPtr("false"), Description: "Whether the dialog is shown"},
				{Name: "title", Type: "any", Required: true, Description: "Heading text"},
				{Name: "items", Type: "array", DefaultValue: model.StringPtr("[]")},
			},
			Events: []model.EventDoc{
				{Name: "close", Detail: "void", Description: "Fired on escape"},
				{Name: "submit", Detail: "object"},
			},
			Slots: []model.SlotDoc{
				{Name: "default", Props: []string{}},
				{Name: "footer", Props: []string{"close", "close"}, Description: "Action row"},
			},
		},
	}

	for _, doc := range docs {
		t.Run(doc.Name, func(t *testing.T) {
			got := Decode(Encode(doc))
			if diff := cmp.Diff(doc, got, ignoreUpdated); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTrip_EmptyDefaultBecomesAbsent(t *testing.T) {
	doc := model.ComponentDoc{
		Name:  "Field",
		Props: []model.PropDoc{{Name: "label", Type: "string", DefaultValue: model.StringPtr("")}},
	}

	got := Decode(Encode(doc))

	require.Len(t, got.Props, 1)
	assert.Nil(t, got.Props[0].DefaultValue, "an empty default shares the - sentinel with no default")
	assert.False(t, got.Props[0].Required)
}

func TestRoundTrip_EscapedCells(t *testing.T) {
	doc := model.ComponentDoc{
		Name: "Pipes",
		Props: []model.PropDoc{{
			Name:         "mode",
			Type:         "string",
			DefaultValue: model.StringPtr("a|b"),
			Description:  "One of a|b.\nSecond line.",
		}},
		Events: []model.EventDoc{},
		Slots:  []model.SlotDoc{},
	}

	encoded := Encode(doc)
	assert.Contains(t, encoded, `| mode | string | a\|b | No | One of a\|b.<br>Second line. |`)

	got := Decode(encoded)
	if diff := cmp.Diff(doc, got, ignoreUpdated); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_ShortRowsSkipped(t *testing.T) {
	doc := Decode(`# Short
## Props
| Name | Type | Default | Required | Description |
|------|------|---------|----------|-------------|
| a | string | x | No |
| b | string | y | No | ok |
## Events
| Name | Detail | Description |
|------|--------|-------------|
| only | two |
`)

	require.Len(t, doc.Props, 1)
	assert.Equal(t, "b", doc.Props[0].Name)
	assert.Empty(t, doc.Events)
}

func TestDecode_DescriptionStopsAtFirstSection(t *testing.T) {
	doc := Decode(`# Card

  First line.

Second line.
## Notes
| x |
|---|
this line is not description
`)

	assert.Equal(t, "First line.\nSecond line.", doc.Description)
	assert.Empty(t, doc.Props)
}

func TestDecode_SectionTitleCaseInsensitive(t *testing.T) {
	doc := Decode("# A\n## PROPS\nheader\nseparator\n| x | any | - | Yes | - |\n")

	require.Len(t, doc.Props, 1)
	assert.True(t, doc.Props[0].Required)
	assert.Nil(t, doc.Props[0].DefaultValue)
}

func TestDecode_EmptyInput(t *testing.T) {
	doc := Decode("")

	assert.Empty(t, doc.Name)
	assert.NotNil(t, doc.Props)
	assert.NotNil(t, doc.LastUpdated)
}

func TestDecode_CRLF(t *testing.T) {
	doc := Decode(strings.ReplaceAll(counterMarkdown, "\n", "\r\n"))

	if diff := cmp.Diff(counterDoc(), doc, ignoreUpdated); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// A blank line after the section header shifts the positional skip by one
// row, so strict mode reads the separator as data. Lenient mode does not.
const looseMarkdown = `# Loose

Rewritten description.

## Props

| Name | Type | Default | Required | Description |
| :--- | :---: | --- | --- | --- |
| size | string | md | No | Size of the control |

## Events

| Name | Detail | Description |
|---|---|---|

| change | object | Fired when the value changes |
`

func TestDecode_StrictPositionalSkip(t *testing.T) {
	doc := Decode(looseMarkdown)

	require.Len(t, doc.Props, 2)
	assert.Equal(t, ":---", doc.Props[0].Name, "separator row read as data")
	assert.Equal(t, "size", doc.Props[1].Name)
}

func TestDecode_Lenient(t *testing.T) {
	doc := DecodeWith(looseMarkdown, DecodeOptions{Lenient: true})

	assert.Equal(t, "Rewritten description.", doc.Description)
	assert.Equal(t, []model.PropDoc{{
		Name:         "size",
		Type:         "string",
		DefaultValue: model.StringPtr("md"),
		Description:  "Size of the control",
	}}, doc.Props)
	assert.Equal(t, []model.EventDoc{{
		Name:        "change",
		Detail:      "object",
		Description: "Fired when the value changes",
	}}, doc.Events)
}

func TestDecode_LenientWithoutHeaderRow(t *testing.T) {
	doc := DecodeWith("# A\n## Slots\n| header | x | - |\n", DecodeOptions{Lenient: true})

	require.Len(t, doc.Slots, 1)
	assert.Equal(t, "header", doc.Slots[0].Name)
	assert.Equal(t, []string{"x"}, doc.Slots[0].Props)
}

func TestDecode_LenientMatchesStrictOnEncoderOutput(t *testing.T) {
	encoded := Encode(counterDoc())

	strict := Decode(encoded)
	lenient := DecodeWith(encoded, DecodeOptions{Lenient: true})
	if diff := cmp.Diff(strict, lenient, ignoreUpdated); diff != "" {
		t.Errorf("strict and lenient differ (-strict +lenient):\n%s", diff)
	}
}

func TestSplitRow(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitRow("| a | b |"))
	assert.Equal(t, []string{"a"}, splitRow("| a | b"), "last field is always dropped")
	assert.Equal(t, []string{"x|y", "z"}, splitRow(`| x\|y | z |`))
	assert.Nil(t, splitRow("|"))
}

func TestIsSeparatorRow(t *testing.T) {
	assert.True(t, isSeparatorRow([]string{"---", ":--:", "--:"}))
	assert.False(t, isSeparatorRow([]string{"---", "text"}))
	assert.False(t, isSeparatorRow([]string{""}))
	assert.False(t, isSeparatorRow(nil))
}
