package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/catalog"
	mcpserver "github.com/gnana997/sveltedoc/pkg/mcp"
	"github.com/gnana997/sveltedoc/pkg/mcplog"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		catalogPath string
		root        string
		logPath     string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Serves component analysis, the markdown codec, doc generation and the
component catalog as MCP tools over stdin/stdout.

The catalog defaults to <output_dir>/catalog.json from the project config
when that file exists. Without a catalog the catalog tools answer once
generate_docs has run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := loadServeCatalog(a, catalogPath)
			if err != nil {
				return err
			}

			var callLog *mcplog.Logger
			if path := firstNonEmpty(logPath, a.cfg.MCPLog); path != "" {
				if callLog, err = mcplog.NewLogger(path); err != nil {
					return err
				}
				defer callLog.Close()
			}

			srv := mcpserver.NewServer(mcpserver.Config{
				Root:       root,
				Catalog:    cat,
				ScanConfig: a.cfg.scanConfig(),
				CallLog:    callLog,
				Logger:     a.logger,
			})
			defer srv.Close()

			if err := srv.ServeStdio(); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog.json to serve")
	cmd.Flags().StringVar(&root, "root", ".", "Directory relative tool paths are resolved against")
	cmd.Flags().StringVar(&logPath, "log", "", "Append a JSON line per tool call to this file")
	return cmd
}

// loadServeCatalog loads the --catalog file, else the catalog in the
// configured output directory. Only an explicit path must exist.
func loadServeCatalog(a *app, path string) (*catalog.Catalog, error) {
	explicit := path != ""
	if !explicit {
		if a.cfg.OutputDir == "" {
			return nil, nil
		}
		path = filepath.Join(a.cfg.OutputDir, catalog.FileName)
	}

	cat, _, err := catalog.LoadFromFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if errs := cat.Validate(); len(errs) > 0 {
		for _, e := range errs {
			a.logger.Warn("catalog validation", "file", path, "error", e)
		}
	}
	a.logger.Info("catalog loaded", "file", path, "components", len(cat.Components))
	return cat, nil
}

func newMCPStatsCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "mcp-stats [logfile]",
		Short: "Summarize an MCP tool call log per tool",
		Long: `Reads a log written by "serve --log" and prints calls, errors, total time
and response size per tool. Defaults to mcp_log from the project config.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.MCPLog
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no log file given and mcp_log is not configured")
			}

			entries, bad, err := mcplog.ReadFile(path)
			if err != nil {
				return err
			}
			if bad > 0 {
				a.logger.Warn("skipped malformed log lines", "file", path, "lines", bad)
			}
			stats := mcplog.Summarize(entries)

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			printToolStats(cmd.OutOrStdout(), len(entries), stats)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the summary as JSON")
	return cmd
}

func printToolStats(w io.Writer, calls int, stats []mcplog.ToolStats) {
	fmt.Fprintln(w, titleStyle.Render("MCP tool calls")+"  "+countStyle.Render(plural(calls, "call")))
	if len(stats) == 0 {
		return
	}

	rows := make([][]string, 0, len(stats))
	for _, st := range stats {
		avg := int64(0)
		if st.Calls > 0 {
			avg = st.TotalMs / int64(st.Calls)
		}
		rows = append(rows, []string{
			st.Tool,
			strconv.Itoa(st.Calls),
			strconv.Itoa(st.Errors),
			strconv.FormatInt(avg, 10),
			strconv.Itoa(st.ResponseBytes),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers("Tool", "Calls", "Errors", "Avg ms", "Bytes").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	fmt.Fprintln(w, t.Render())
}
