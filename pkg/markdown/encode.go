// Package markdown converts documentation models to and from the tabular
// markdown format written to <Name>.md, and renders that format as HTML.
package markdown

import (
	"strings"

	"github.com/gnana997/sveltedoc/pkg/model"
)

// Empty is written for cells without a value.
const Empty = "-"

const (
	propsHeader  = "| Name | Type | Default | Required | Description |\n|------|------|---------|----------|-------------|\n"
	eventsHeader = "| Name | Detail | Description |\n|------|--------|-------------|\n"
	slotsHeader  = "| Name | Props | Description |\n|------|-------|-------------|\n"
)

// Encode renders doc. The output depends only on doc, so encoding the same
// model twice yields identical text. LastUpdated is not written.
//
// Each section header is followed directly by the table header and
// separator rows; Decode relies on that layout.
func Encode(doc model.ComponentDoc) string {
	var sb strings.Builder

	sb.WriteString("# " + doc.Name + "\n\n")

	if doc.Description != "" {
		sb.WriteString(doc.Description + "\n\n")
	}

	if len(doc.Props) > 0 {
		sb.WriteString("## Props\n")
		sb.WriteString(propsHeader)
		for _, p := range doc.Props {
			def := ""
			if p.DefaultValue != nil {
				def = *p.DefaultValue
			}
			required := "No"
			if p.Required {
				required = "Yes"
			}
			writeRow(&sb, escape(p.Name), escape(p.Type), cell(def), required, cell(p.Description))
		}
		sb.WriteString("\n")
	}

	if len(doc.Events) > 0 {
		sb.WriteString("## Events\n")
		sb.WriteString(eventsHeader)
		for _, e := range doc.Events {
			writeRow(&sb, escape(e.Name), escape(e.Detail), cell(e.Description))
		}
		sb.WriteString("\n")
	}

	if len(doc.Slots) > 0 {
		sb.WriteString("## Slots\n")
		sb.WriteString(slotsHeader)
		for _, s := range doc.Slots {
			writeRow(&sb, escape(s.Name), cell(strings.Join(s.Props, ", ")), cell(s.Description))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeRow(sb *strings.Builder, cells ...string) {
	sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
}

// cell escapes s, writing Empty for the empty string.
func cell(s string) string {
	if s == "" {
		return Empty
	}
	return escape(s)
}

var cellEscaper = strings.NewReplacer(
	"|", `\|`,
	"\r\n", "<br>",
	"\n", "<br>",
)

// escape keeps a value on one table row: pipes are backslash-escaped and
// newlines become <br>.
func escape(s string) string {
	return cellEscaper.Replace(s)
}

var cellUnescaper = strings.NewReplacer(
	`\|`, "|",
	"<br>", "\n",
)

func unescape(s string) string {
	return cellUnescaper.Replace(s)
}
