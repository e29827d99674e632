// Package scanner discovers component files under a directory, analyzes
// them in parallel and writes one markdown document per component plus a
// catalog manifest.
package scanner

import (
	"github.com/gnana997/sveltedoc/pkg/model"
)

// ScanConfig configures file discovery.
type ScanConfig struct {
	// Include glob patterns for file matching.
	Include []string
	// Exclude glob patterns.
	Exclude []string
	// Workers bounds parallel analysis. Zero picks a size from the CPU count.
	Workers int
}

// DefaultScanConfig returns the default scan configuration: every component
// file outside dependency, build and tooling directories.
func DefaultScanConfig() ScanConfig {
	return ScanConfig{
		Include: []string{
			"**/*.svelte",
		},
		Exclude: []string{
			"node_modules/**",
			"**/node_modules/**",
			".git/**",
			"dist/**",
			"build/**",
			".svelte-kit/**",
			"coverage/**",
			".vscode/**",
			".sveltedoc/**",
			"**/*.test.svelte",
			"**/*.stories.svelte",
			"**/__tests__/**",
		},
	}
}

// Analyzer produces the documentation model of one component source.
type Analyzer interface {
	Analyze(source []byte, filename string) model.ComponentDoc
}

// AnalyzedFile is the analysis output for one component file.
type AnalyzedFile struct {
	// Path is the absolute path of the component file.
	Path string
	Doc  model.ComponentDoc
}

// ScanResult is the output of discovery plus analysis.
type ScanResult struct {
	Root  string
	Files []AnalyzedFile
	Stats ScanStats
}

// ScanStats tracks scan performance metrics.
type ScanStats struct {
	FilesDiscovered int
	FilesAnalyzed   int
	FilesFailed     int
	DocsWritten     int
	DocsSkipped     int
	PropsFound      int
	EventsFound     int
	SlotsFound      int
	DiscoveryTimeMs int64
	AnalysisTimeMs  int64
	WriteTimeMs     int64
	TotalTimeMs     int64
}

// GenerateConfig configures doc generation.
type GenerateConfig struct {
	// OutputDir receives one <Name>.md per component and catalog.json.
	OutputDir string
	// Name is the catalog name (project name or directory basename).
	Name string
	// Version is recorded in the catalog manifest.
	Version string
}
