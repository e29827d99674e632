package validator

import (
	"fmt"
	"os"
	"path/filepath"
)

// AutoFix is a deterministic fix: overwrite Path with Content.
type AutoFix struct {
	Path    string
	Content string
	Reason  string
}

// ApplyFixes writes the fix of every violation that carries one and returns
// the number of files written. Orphaned docs have no fix; removing them is
// left to the user.
func ApplyFixes(result *ValidationResult) (int, error) {
	applied := 0
	for _, v := range result.Violations {
		if v.Fix == nil {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(v.Fix.Path), 0o755); err != nil {
			return applied, fmt.Errorf("failed to create docs directory: %w", err)
		}
		if err := os.WriteFile(v.Fix.Path, []byte(v.Fix.Content), 0o644); err != nil {
			return applied, fmt.Errorf("failed to apply fix to %s: %w", v.Fix.Path, err)
		}
		applied++
	}
	return applied, nil
}
