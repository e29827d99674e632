package markdown

import (
	"strings"
	"time"

	"github.com/gnana997/sveltedoc/pkg/model"
)

// Now stamps LastUpdated on decoded models. Tests may replace it.
var Now = func() time.Time {
	return time.Now()
}

// DecodeOptions tunes the decoder.
type DecodeOptions struct {
	// Lenient replaces the fixed two-line skip after a section header with
	// pattern matching: blank lines, table header rows and separator rows
	// are ignored wherever they appear. Use it for documents that were not
	// produced by Encode, such as rewritten ones.
	Lenient bool
}

// Decode parses a document produced by Encode. It never fails: rows it
// cannot use are skipped and the result may be partial.
func Decode(text string) model.ComponentDoc {
	return DecodeWith(text, DecodeOptions{})
}

// DecodeWith parses text with the given options.
//
// The first line is the component name. Non-blank lines before the first
// "## " header form the description. A header switches the current section
// to its lower-cased title; in strict mode the two lines after it are
// skipped unconditionally. Rows of the props, events and slots sections
// need at least 5, 3 and 3 cells respectively.
func DecodeWith(text string, opts DecodeOptions) model.ComponentDoc {
	lines := strings.Split(text, "\n")
	updated := Now()

	doc := model.ComponentDoc{
		Name:        strings.TrimSpace(strings.Replace(lines[0], "# ", "", 1)),
		Props:       []model.PropDoc{},
		Events:      []model.EventDoc{},
		Slots:       []model.SlotDoc{},
		LastUpdated: &updated,
	}

	var (
		section     string
		inSection   bool
		description []string
		// headerDue is set after a header in lenient mode until the first row.
		headerDue bool
	)

	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if strings.HasPrefix(line, "## ") {
			section = strings.ToLower(strings.Replace(line, "## ", "", 1))
			inSection = true
			if opts.Lenient {
				headerDue = true
			} else {
				i += 2
			}
			continue
		}

		if !inSection {
			if line != "" {
				description = append(description, line)
			}
			continue
		}

		if !strings.HasPrefix(line, "|") {
			continue
		}

		cells := splitRow(line)

		if opts.Lenient {
			if isSeparatorRow(cells) {
				continue
			}
			if headerDue {
				headerDue = false
				if isHeaderRow(cells) {
					continue
				}
			}
		}

		switch section {
		case "props":
			if len(cells) >= 5 {
				doc.Props = append(doc.Props, model.PropDoc{
					Name:         cells[0],
					Type:         cells[1],
					DefaultValue: optional(cells[2]),
					Required:     cells[3] == "Yes",
					Description:  plain(cells[4]),
				})
			}
		case "events":
			if len(cells) >= 3 {
				doc.Events = append(doc.Events, model.EventDoc{
					Name:        cells[0],
					Detail:      cells[1],
					Description: plain(cells[2]),
				})
			}
		case "slots":
			if len(cells) >= 3 {
				doc.Slots = append(doc.Slots, model.SlotDoc{
					Name:        cells[0],
					Props:       list(cells[1]),
					Description: plain(cells[2]),
				})
			}
		}
	}

	doc.Description = strings.TrimSpace(strings.Join(description, "\n"))
	return doc
}

// splitRow splits a table row on unescaped pipes, drops the first and last
// fields and trims the rest.
func splitRow(line string) []string {
	var fields []string
	start := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '|':
			fields = append(fields, line[start:i])
			start = i + 1
		}
	}
	fields = append(fields, line[start:])

	if len(fields) <= 2 {
		return nil
	}
	fields = fields[1 : len(fields)-1]

	cells := make([]string, len(fields))
	for i, f := range fields {
		cells[i] = unescape(strings.TrimSpace(f))
	}
	return cells
}

func optional(cell string) *string {
	if cell == Empty {
		return nil
	}
	return model.StringPtr(cell)
}

func plain(cell string) string {
	if cell == Empty {
		return ""
	}
	return cell
}

func list(cell string) []string {
	if cell == Empty || cell == "" {
		return []string{}
	}
	parts := strings.Split(cell, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// isSeparatorRow matches rows such as |---|:--:|---:|.
func isSeparatorRow(cells []string) bool {
	if len(cells) == 0 {
		return false
	}
	for _, c := range cells {
		c = strings.TrimSuffix(strings.TrimPrefix(c, ":"), ":")
		if c == "" || strings.Trim(c, "-") != "" {
			return false
		}
	}
	return true
}

func isHeaderRow(cells []string) bool {
	return len(cells) > 0 && strings.EqualFold(cells[0], "Name")
}
