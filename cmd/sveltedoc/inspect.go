package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/docstore"
	"github.com/gnana997/sveltedoc/pkg/introspect"
	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/parser"
)

const maxWidth = 80

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	countStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("cyan"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	bodyStyle    = lipgloss.NewStyle().Width(maxWidth)
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		asJSON    bool
		lenient   bool
		component string
	)

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Show the documentation model of .svelte or .md files",
		Long: `Analyzes .svelte files or decodes .md docs and prints their props, events
and slots. With several inputs, --component selects the one to show.

Example:
  sveltedoc inspect src/lib/Button.svelte
  sveltedoc inspect docs/*.md --component Dialog --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocs(a, args, lenient)
			if err != nil {
				return err
			}

			store := docstore.New()
			store.SetDocs(docs)
			if component == "" && len(docs) == 1 {
				component = docs[0].Name
			}
			store.SetActiveComponent(component)

			shown := store.Get().Components
			if component != "" {
				active, ok := store.Get().Active()
				if !ok {
					return fmt.Errorf("component %q is not among the inputs", component)
				}
				shown = []model.ComponentDoc{active}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				var v any = shown
				if len(shown) == 1 {
					v = shown[0]
				}
				return writeJSON(out, v)
			}
			for i, doc := range shown {
				if i > 0 {
					fmt.Fprintln(out)
				}
				printComponentHuman(out, doc)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the model as JSON")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "Decode .md inputs leniently")
	cmd.Flags().StringVar(&component, "component", "", "Component to show when several inputs are given")
	return cmd
}

// loadDocs analyzes .svelte inputs and decodes .md inputs, in argument order.
func loadDocs(a *app, paths []string, lenient bool) ([]model.ComponentDoc, error) {
	var intro *introspect.Introspector
	defer func() {
		if intro != nil {
			intro.Close()
		}
	}()

	docs := make([]model.ComponentDoc, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		switch {
		case parser.IsComponentFile(path):
			if intro == nil {
				intro = introspect.New(nil, a.logger)
			}
			docs = append(docs, intro.Analyze(data, path))
		case strings.EqualFold(filepath.Ext(path), ".md"):
			docs = append(docs, markdown.DecodeWith(string(data), markdown.DecodeOptions{Lenient: lenient}))
		default:
			return nil, fmt.Errorf("%s: expected a .svelte or .md file", path)
		}
	}
	return docs, nil
}

// printComponentHuman prints a styled component summary.
func printComponentHuman(w io.Writer, doc model.ComponentDoc) {
	counts := fmt.Sprintf("[%s, %s, %s]",
		plural(len(doc.Props), "prop"), plural(len(doc.Events), "event"), plural(len(doc.Slots), "slot"))
	fmt.Fprintln(w, titleStyle.Render(doc.Name)+"  "+countStyle.Render(counts))

	if doc.Description != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, bodyStyle.Render(doc.Description))
	}

	props := make([][]string, 0, len(doc.Props))
	for _, p := range doc.Props {
		def := markdown.Empty
		if p.DefaultValue != nil {
			def = *p.DefaultValue
		}
		req := "no"
		if p.Required {
			req = "yes"
		}
		props = append(props, []string{p.Name, p.Type, def, req, orDash(p.Description)})
	}
	printSection(w, "Props", []string{"Name", "Type", "Default", "Required", "Description"}, props)

	events := make([][]string, 0, len(doc.Events))
	for _, e := range doc.Events {
		events = append(events, []string{e.Name, e.Detail, orDash(e.Description)})
	}
	printSection(w, "Events", []string{"Name", "Detail", "Description"}, events)

	slots := make([][]string, 0, len(doc.Slots))
	for _, s := range doc.Slots {
		slots = append(slots, []string{s.Name, orDash(strings.Join(s.Props, ", ")), orDash(s.Description)})
	}
	printSection(w, "Slots", []string{"Name", "Props", "Description"}, slots)
}

// printSection renders one table, or a "(none)" line when rows is empty.
func printSection(w io.Writer, title string, headers []string, rows [][]string) {
	fmt.Fprintln(w)
	if len(rows) == 0 {
		fmt.Fprintln(w, sectionStyle.Render(title)+"  "+mutedStyle.Render("(none)"))
		return
	}
	fmt.Fprintln(w, sectionStyle.Render(title))

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func orDash(s string) string {
	if s == "" {
		return markdown.Empty
	}
	return s
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
