package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/scanner"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		outputDir  string
		project    string
		catVersion string
	)

	cmd := &cobra.Command{
		Use:   "generate <path>",
		Short: "Write <Name>.md docs and catalog.json for a component file or directory",
		Long: `Analyzes one .svelte file or every component below a directory and writes
one markdown doc per component plus a catalog.json manifest.

Without -o, docs go to output_dir from the project config, else to
src/lib/docs/single for a file and src/lib/docs/projects/<project> for a
directory.

Example:
  sveltedoc generate src/lib/Button.svelte
  sveltedoc generate src/lib --project ui -o docs/ui`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			project = a.cfg.resolveProject(project, input)
			genCfg := scanner.GenerateConfig{
				OutputDir: a.cfg.resolveOutputDir(outputDir, input, project),
				Name:      project,
				Version:   catVersion,
			}

			s := scanner.NewScanner(a.logger)
			defer s.Close()

			_, stats, err := s.Generate(input, a.cfg.scanConfig(), genCfg)
			if err != nil {
				return fmt.Errorf("generation failed: %w", err)
			}

			printGenerateSummary(cmd.OutOrStdout(), genCfg.OutputDir, stats)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for generated docs")
	cmd.Flags().StringVar(&project, "project", "", "Project name used for the catalog and default output directory")
	cmd.Flags().StringVar(&catVersion, "catalog-version", "", "Version recorded in catalog.json (default 0.0.0)")
	return cmd
}

func printGenerateSummary(w io.Writer, outDir string, stats *scanner.ScanStats) {
	fmt.Fprintf(w, "Generated %d doc(s) in %s\n", stats.DocsWritten, outDir)
	fmt.Fprintf(w, "  components: %d discovered, %d analyzed", stats.FilesDiscovered, stats.FilesAnalyzed)
	if stats.FilesFailed > 0 {
		fmt.Fprintf(w, ", %d failed", stats.FilesFailed)
	}
	if stats.DocsSkipped > 0 {
		fmt.Fprintf(w, ", %d skipped (duplicate names)", stats.DocsSkipped)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  props: %d  events: %d  slots: %d\n", stats.PropsFound, stats.EventsFound, stats.SlotsFound)
	fmt.Fprintf(w, "  took %dms\n", stats.TotalTimeMs)
}
