package main

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	"github.com/gnana997/sveltedoc/pkg/enhance"
	"github.com/gnana997/sveltedoc/pkg/settings"
)

func newEnhanceCmd(a *app) *cobra.Command {
	var (
		providerName string
		prompt       string
		settingsPath string
	)

	cmd := &cobra.Command{
		Use:   "enhance <docs-dir>",
		Short: "Rewrite generated docs through the configured AI provider",
		Long: `Sends every .md doc in a directory to the selected AI provider, one at a
time, and overwrites it with the reply. Stops at the first provider error.
When the directory holds a catalog.json, the enhanced docs are recorded in it.

Providers are configured in storage/settings.json (see "sveltedoc settings").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]

			s, err := settings.Load(a.cfg.resolveSettingsPath(settingsPath))
			if err != nil {
				return err
			}
			pcfg, err := pickProvider(s, providerName)
			if err != nil {
				return err
			}

			provider, err := enhance.NewProvider(cmd.Context(), pcfg)
			if err != nil {
				return err
			}

			a.logger.Info("enhancing docs", "dir", dir, "provider", pcfg.Name)
			results, err := enhance.New(provider, prompt, a.logger).EnhanceDir(cmd.Context(), dir)

			out := cmd.OutOrStdout()
			for _, r := range results {
				fmt.Fprintf(out, "enhanced %s\n", r.Path)
			}
			if len(results) > 0 {
				if uerr := updateCatalog(dir, results); uerr != nil {
					a.logger.Warn("failed to update catalog", "dir", dir, "error", uerr)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Enhanced %d doc(s) with %s\n", len(results), pcfg.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerName, "provider", "", "Provider name (default: selectedProvider from settings)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "System prompt (default: built-in prompt)")
	cmd.Flags().StringVar(&settingsPath, "settings", "", "Settings file (default: settings_path from config, else storage/settings.json)")
	return cmd
}

func pickProvider(s settings.Settings, name string) (settings.AIProvider, error) {
	if name == "" {
		return s.Selected()
	}
	p, ok := s.Provider(name)
	if !ok {
		return settings.AIProvider{}, fmt.Errorf("provider %q is not configured", name)
	}
	return p, nil
}

// updateCatalog replaces the docs of enhanced components in dir/catalog.json.
// A directory without a catalog is left alone.
func updateCatalog(dir string, results []enhance.Result) error {
	path := filepath.Join(dir, catalog.FileName)
	cat, _, err := catalog.LoadFromFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	byFile := make(map[string]enhance.Result, len(results))
	for _, r := range results {
		byFile[filepath.Base(r.Path)] = r
	}
	for i := range cat.Components {
		e := &cat.Components[i]
		if r, ok := byFile[e.DocFile]; ok && r.Doc.Name == e.Name {
			e.Doc = r.Doc
		}
	}
	return cat.Save(path)
}
