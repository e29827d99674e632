// Package validator reports drift between persisted component docs and a
// fresh analysis of the component sources.
package validator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnana997/sveltedoc/pkg/markdown"
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/scanner"
)

// Rule names.
const (
	RuleUndocumented = "undocumented-component"
	RuleStale        = "stale-doc"
	RuleOrphaned     = "orphaned-doc"
)

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Options tunes the comparison.
type Options struct {
	// IgnoreDescriptions skips free-text fields, so docs that were rewritten
	// by an enhancement pass only drift when their structure does.
	IgnoreDescriptions bool
}

// Validator checks a docs directory against analyzed sources.
type Validator struct {
	opts   Options
	logger *slog.Logger
}

// ValidationResult is the outcome of one check.
type ValidationResult struct {
	DocsDir    string      `json:"docs_dir"`
	Valid      bool        `json:"valid"`
	Checked    int         `json:"checked"`
	Violations []Violation `json:"violations"`
	Summary    string      `json:"summary"`
}

// Violation represents a single drift finding.
type Violation struct {
	Rule       string   `json:"rule"`
	Severity   string   `json:"severity"`
	Component  string   `json:"component"`
	Message    string   `json:"message"`
	Source     string   `json:"source,omitempty"`
	DocFile    string   `json:"doc_file,omitempty"`
	Sections   []string `json:"sections,omitempty"`
	Diff       string   `json:"diff,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`

	Fix *AutoFix `json:"-"`
}

// NewValidator creates a validator.
func NewValidator(opts Options, logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{opts: opts, logger: logger}
}

// Check compares every analyzed file with <docsDir>/<Name>.md. A missing
// docs directory counts as empty. When two files share a component name the
// first by path is checked, matching what generation writes.
func (v *Validator) Check(files []scanner.AnalyzedFile, docsDir string) (*ValidationResult, error) {
	persisted, err := readDocs(docsDir)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{DocsDir: docsDir, Violations: []Violation{}}
	seen := make(map[string]bool, len(files))

	for _, f := range files {
		name := f.Doc.Name
		if seen[name] {
			continue
		}
		seen[name] = true
		result.Checked++

		docFile := scanner.DocFileName(name)
		docPath := filepath.Join(docsDir, docFile)
		fix := &AutoFix{Path: docPath, Content: markdown.Encode(f.Doc)}

		text, ok := persisted[docFile]
		if !ok {
			fix.Reason = "write missing doc"
			result.Violations = append(result.Violations, Violation{
				Rule:       RuleUndocumented,
				Severity:   SeverityError,
				Component:  name,
				Message:    fmt.Sprintf("%s has no doc in %s", name, docsDir),
				Source:     f.Path,
				DocFile:    docFile,
				Suggestion: "run generate or check --fix",
				Fix:        fix,
			})
			continue
		}

		d := v.CompareDocs(f.Doc, text)
		if d == nil {
			continue
		}
		fix.Reason = "regenerate " + strings.Join(d.Sections, ", ")
		result.Violations = append(result.Violations, Violation{
			Rule:       RuleStale,
			Severity:   SeverityError,
			Component:  name,
			Message:    fmt.Sprintf("%s doc is out of date (%s)", name, strings.Join(d.Sections, ", ")),
			Source:     f.Path,
			DocFile:    docFile,
			Sections:   d.Sections,
			Diff:       d.Diff,
			Suggestion: "run check --fix to regenerate it",
			Fix:        fix,
		})
	}

	orphans := make([]string, 0)
	for docFile := range persisted {
		if !seen[strings.TrimSuffix(docFile, ".md")] {
			orphans = append(orphans, docFile)
		}
	}
	sort.Strings(orphans)
	for _, docFile := range orphans {
		result.Violations = append(result.Violations, Violation{
			Rule:       RuleOrphaned,
			Severity:   SeverityWarning,
			Component:  strings.TrimSuffix(docFile, ".md"),
			Message:    fmt.Sprintf("%s has no matching component source", docFile),
			DocFile:    docFile,
			Suggestion: "delete the doc or restore the component",
		})
	}

	result.Valid = len(result.Violations) == 0
	result.Summary = summarize(result.Violations)

	v.logger.Debug("drift check complete",
		"docs_dir", docsDir, "checked", result.Checked, "violations", len(result.Violations))
	return result, nil
}

// readDocs loads the .md files directly inside dir, keyed by file name.
func readDocs(dir string) (map[string]string, error) {
	docs := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return docs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read docs directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}
		docs[entry.Name()] = string(data)
	}
	return docs, nil
}

func summarize(violations []Violation) string {
	if len(violations) == 0 {
		return "no issues found"
	}

	counts := make(map[string]int)
	for _, v := range violations {
		counts[v.Rule]++
	}

	var parts []string
	for _, rule := range []string{RuleStale, RuleUndocumented, RuleOrphaned} {
		if n := counts[rule]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, rule))
		}
	}
	return fmt.Sprintf("%d issue(s): %s", len(violations), strings.Join(parts, ", "))
}

// freshDoc is what generation would persist for doc, read back. Comparing
// against it keeps codec normalization (collapsed blank lines, escaped
// cells) from showing up as drift.
func freshDoc(doc model.ComponentDoc) model.ComponentDoc {
	return markdown.DecodeWith(markdown.Encode(doc), markdown.DecodeOptions{Lenient: true})
}
