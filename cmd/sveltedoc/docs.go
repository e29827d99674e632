package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/markdown"
)

func newDecodeCmd(_ *app) *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "decode <file.md>",
		Short: "Print the documentation model of a markdown doc as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			doc := markdown.DecodeWith(string(data), markdown.DecodeOptions{Lenient: lenient})
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "Tolerate layout differences such as missing blank lines")
	return cmd
}

func newPreviewCmd(a *app) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "preview <file.md>",
		Short: "Render a markdown doc as a standalone HTML page",
		Long: `Renders a doc with its tables to HTML. Writes to stdout unless -o is given.

Example:
  sveltedoc preview docs/Button.md -o Button.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			title := markdown.Decode(string(data)).Name
			if title == "" {
				title = filepath.Base(args[0])
			}
			page, err := markdown.RenderPage(title, data)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(page)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(output, page, 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			a.logger.Info("preview written", "file", output)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "HTML file to write")
	return cmd
}
