package introspect

import (
	"strings"

	"github.com/gnana997/sveltedoc/pkg/syntax/script"
)

// ExtractDescription returns the text of the doc comments among comments,
// joined with newlines in source order. A doc comment is a block comment
// whose body starts with '*'. Other comments are ignored.
func ExtractDescription(comments []script.Comment) string {
	var parts []string
	for _, c := range comments {
		if !c.Block || !strings.HasPrefix(c.Text, "*") {
			continue
		}
		parts = append(parts, cleanDocComment(c.Text))
	}
	return strings.Join(parts, "\n")
}

// cleanDocComment strips the leading '*', the '*' margin of every line and
// any trailing '*' run.
func cleanDocComment(body string) string {
	body = strings.TrimPrefix(body, "*")
	body = strings.TrimRight(strings.TrimSpace(body), "*")

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "*")
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// componentComment returns the text of a markup comment that starts with
// @component, or false.
func componentComment(data string) (string, bool) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(data), "@component")
	if !ok {
		return "", false
	}
	lines := strings.Split(rest, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), true
}
