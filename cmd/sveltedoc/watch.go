package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	"github.com/gnana997/sveltedoc/pkg/indexer"
	"github.com/gnana997/sveltedoc/pkg/model"
	"github.com/gnana997/sveltedoc/pkg/scanner"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		outputDir  string
		project    string
		debounceMs int
	)

	cmd := &cobra.Command{
		Use:   "watch <dir>",
		Short: "Regenerate docs whenever a component below <dir> changes",
		Long: `Generates docs for <dir> once, then watches it and rewrites the doc of every
component whose source changes. Deleted components lose their doc. The
catalog.json manifest is kept in sync. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			info, err := os.Stat(input)
			if err != nil {
				return fmt.Errorf("failed to stat %s: %w", input, err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s is not a directory", input)
			}

			project = a.cfg.resolveProject(project, input)
			scanCfg := a.cfg.scanConfig()
			genCfg := scanner.GenerateConfig{
				OutputDir: a.cfg.resolveOutputDir(outputDir, input, project),
				Name:      project,
			}

			s := scanner.NewScanner(a.logger)
			defer s.Close()

			result, err := s.Run(input, scanCfg)
			if err != nil {
				return err
			}

			index := indexer.NewDocIndex(indexer.DefaultDocIndexConfig(), a.logger)
			defer index.Close()

			ds := newDocSync(result.Root, scanCfg, genCfg, cmd.OutOrStdout(), a.logger)
			for _, f := range result.Files {
				if src, err := s.Cache().Read(f.Path); err == nil {
					index.Put(f.Path, src, f.Doc)
				}
			}
			if err := ds.load(result.Files); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d doc(s) in %s\n", len(ds.written), genCfg.OutputDir)

			opts := indexer.DefaultWatchOptions()
			if debounceMs > 0 {
				opts.DebounceMs = debounceMs
			}
			opts.IgnorePatterns = append(opts.IgnorePatterns, scanCfg.Exclude...)
			opts.OnUpdate = ds.update
			opts.OnRemove = ds.remove

			watcher, err := indexer.NewFileWatcher(index, s.Introspector(), s.Cache(), opts, a.logger)
			if err != nil {
				return err
			}
			if err := watcher.Start(result.Root); err != nil {
				return err
			}
			defer watcher.Stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", result.Root)
			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory for generated docs")
	cmd.Flags().StringVar(&project, "project", "", "Project name used for the catalog and default output directory")
	cmd.Flags().IntVar(&debounceMs, "debounce", 0, "Debounce delay in milliseconds (default 200)")
	return cmd
}

// docSync mirrors the watched components into the output directory.
type docSync struct {
	root    string
	scanCfg scanner.ScanConfig
	genCfg  scanner.GenerateConfig
	out     io.Writer
	log     *slog.Logger

	mu      sync.Mutex
	docs    map[string]model.ComponentDoc // by component path
	written map[string]bool               // component names with a doc on disk
}

func newDocSync(root string, scanCfg scanner.ScanConfig, genCfg scanner.GenerateConfig, out io.Writer, logger *slog.Logger) *docSync {
	return &docSync{
		root:    root,
		scanCfg: scanCfg,
		genCfg:  genCfg,
		out:     out,
		log:     logger,
		docs:    make(map[string]model.ComponentDoc),
		written: make(map[string]bool),
	}
}

// load writes the docs of an initial scan.
func (d *docSync) load(files []scanner.AnalyzedFile) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, f := range files {
		d.docs[f.Path] = f.Doc
	}
	return d.flush("")
}

func (d *docSync) update(entry *indexer.IndexedDoc) {
	if !d.tracked(entry.Path) {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.docs[entry.Path] = entry.Doc
	if err := d.flush(entry.Path); err != nil {
		d.log.Warn("failed to sync docs", "file", entry.Path, "error", err)
		return
	}
	fmt.Fprintf(d.out, "updated %s\n", scanner.DocFileName(entry.Doc.Name))
}

func (d *docSync) remove(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	doc, ok := d.docs[path]
	if !ok {
		return
	}
	delete(d.docs, path)
	if err := d.flush(""); err != nil {
		d.log.Warn("failed to sync docs", "file", path, "error", err)
		return
	}
	fmt.Fprintf(d.out, "removed %s\n", doc.Name)
}

// tracked reports whether path falls under the scan include/exclude rules.
func (d *docSync) tracked(path string) bool {
	rel, err := filepath.Rel(d.root, path)
	if err != nil {
		return false
	}
	return d.scanCfg.Matches(filepath.ToSlash(rel))
}

// flush rebuilds the catalog from the tracked docs and saves it. With
// changed empty every doc is written, otherwise only the doc of that path.
// Docs whose component disappeared are deleted. Caller holds d.mu.
func (d *docSync) flush(changed string) error {
	paths := make([]string, 0, len(d.docs))
	for p := range d.docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	files := make([]scanner.AnalyzedFile, 0, len(paths))
	for _, p := range paths {
		files = append(files, scanner.AnalyzedFile{Path: p, Doc: d.docs[p]})
	}
	cat, skipped := scanner.BuildCatalog(files, d.root, d.genCfg)
	for _, f := range skipped {
		if changed == "" || f.Path == changed {
			d.log.Warn("duplicate component name, skipping", "component", f.Doc.Name, "file", f.Path)
		}
	}

	owners := make(map[string]bool, len(cat.Components))
	for _, e := range cat.Components {
		owners[e.Name] = true
		src := filepath.Join(d.root, filepath.FromSlash(e.Source))
		if changed != "" && src != changed && d.written[e.Name] {
			continue
		}
		if _, err := scanner.WriteDoc(d.genCfg.OutputDir, e.Doc); err != nil {
			return err
		}
		d.written[e.Name] = true
	}

	for name := range d.written {
		if owners[name] {
			continue
		}
		path := filepath.Join(d.genCfg.OutputDir, scanner.DocFileName(name))
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
		delete(d.written, name)
	}

	if err := os.MkdirAll(d.genCfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return cat.Save(filepath.Join(d.genCfg.OutputDir, catalog.FileName))
}
