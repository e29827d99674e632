package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/scanner"
	"github.com/gnana997/sveltedoc/pkg/validator"
)

// errDrift is returned when docs disagree with their sources.
var errDrift = errors.New("documentation is out of date")

func newCheckCmd(a *app) *cobra.Command {
	var (
		docsDir            string
		project            string
		ignoreDescriptions bool
		fix                bool
		asJSON             bool
	)

	cmd := &cobra.Command{
		Use:   "check <path>",
		Short: "Report drift between persisted docs and the component sources",
		Long: `Re-analyzes the components under <path> and compares the result with the
docs in --docs. Exits non-zero when a doc is missing or out of date.

--fix rewrites missing and stale docs. Docs without a matching component
are reported but never deleted.

Example:
  sveltedoc check src/lib --docs src/lib/docs/projects/lib
  sveltedoc check src/lib --ignore-descriptions   # after an enhance pass`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			project = a.cfg.resolveProject(project, input)
			docsDir = a.cfg.resolveOutputDir(docsDir, input, project)

			s := scanner.NewScanner(a.logger)
			defer s.Close()

			scan, err := s.Run(input, a.cfg.scanConfig())
			if err != nil {
				return err
			}

			v := validator.NewValidator(validator.Options{IgnoreDescriptions: ignoreDescriptions}, a.logger)
			result, err := v.Check(scan.Files, docsDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if fix && !result.Valid {
				n, err := validator.ApplyFixes(result)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Fixed %d doc(s)\n", n)
				if result, err = v.Check(scan.Files, docsDir); err != nil {
					return err
				}
			}

			if asJSON {
				if err := writeJSON(out, result); err != nil {
					return err
				}
			} else {
				printValidation(out, result)
			}

			if hasErrors(result) {
				return errDrift
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&docsDir, "docs", "", "Docs directory (default: same resolution as generate -o)")
	cmd.Flags().StringVar(&project, "project", "", "Project name used to resolve the default docs directory")
	cmd.Flags().BoolVar(&ignoreDescriptions, "ignore-descriptions", false, "Only compare structure, not free text")
	cmd.Flags().BoolVar(&fix, "fix", false, "Rewrite missing and stale docs")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func printValidation(w io.Writer, result *validator.ValidationResult) {
	fmt.Fprintf(w, "Checked %d component(s) against %s: %s\n", result.Checked, result.DocsDir, result.Summary)
	for _, v := range result.Violations {
		fmt.Fprintf(w, "  [%s] %s: %s\n", v.Severity, v.Rule, v.Message)
		if v.Suggestion != "" {
			fmt.Fprintf(w, "      %s\n", v.Suggestion)
		}
		if v.Diff != "" {
			for _, line := range strings.Split(strings.TrimRight(v.Diff, "\n"), "\n") {
				fmt.Fprintf(w, "      %s\n", line)
			}
		}
	}
}

func hasErrors(result *validator.ValidationResult) bool {
	for _, v := range result.Violations {
		if v.Severity == validator.SeverityError {
			return true
		}
	}
	return false
}
