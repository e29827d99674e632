package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/sveltedoc/pkg/util"
)

const version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries state shared by every command, filled in before each run.
type app struct {
	configPath string
	logLevel   string
	logFormat  string
	workers    int

	cfg    *ProjectConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "sveltedoc",
		Short: "Generate markdown documentation for Svelte components",
		Long: `sveltedoc analyzes Svelte single-file components and documents their
props, events and slots as markdown tables.

Project defaults are read from .sveltedoc/config.yaml when present.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.prepare(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", defaultConfigPath, "Project config file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error (default warn)")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "", "Log format: text or json (default text)")
	root.PersistentFlags().IntVar(&a.workers, "workers", 0, "Parallel analysis workers (default: 2x CPU, 4-32)")

	root.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(a),
		newDecodeCmd(a),
		newPreviewCmd(a),
		newEnhanceCmd(a),
		newCheckCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newMCPStatsCmd(a),
		newSettingsCmd(a),
		newSetupCmd(a),
		newVersionCmd(),
	)
	return root
}

// prepare loads the project config and builds the logger. Flags win over the
// config file. Logs always go to stderr.
func (a *app) prepare(cmd *cobra.Command) error {
	cfg, err := loadProjectConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.workers > 0 {
		cfg.Workers = a.workers
	}
	a.cfg = cfg

	logCfg := util.DefaultLoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	if level := firstNonEmpty(a.logLevel, cfg.LogLevel); level != "" {
		logCfg.Level = util.ParseLogLevel(level)
	}
	if format := firstNonEmpty(a.logFormat, cfg.LogFormat); format != "" {
		logCfg.Format = util.ParseLogFormat(format)
	}
	a.logger = util.NewLogger(logCfg)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "sveltedoc %s\n", version)
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
