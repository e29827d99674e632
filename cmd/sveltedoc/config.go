package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/gnana997/sveltedoc/pkg/scanner"
	"github.com/gnana997/sveltedoc/pkg/settings"
)

const defaultConfigPath = ".sveltedoc/config.yaml"

// Output locations used when neither a flag nor the config names one.
const (
	defaultSingleDir   = "src/lib/docs/single"
	defaultProjectsDir = "src/lib/docs/projects"
)

// ProjectConfig holds the contents of .sveltedoc/config.yaml.
type ProjectConfig struct {
	Include      []string `yaml:"include"`
	Exclude      []string `yaml:"exclude"`
	OutputDir    string   `yaml:"output_dir"`
	Project      string   `yaml:"project"`
	SettingsPath string   `yaml:"settings_path"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"`
	MCPLog       string   `yaml:"mcp_log"`
	Workers      int      `yaml:"workers"`
}

// loadProjectConfig reads the config at path. A missing file yields an
// empty config.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	var cfg ProjectConfig

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.scanConfig().Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &cfg, nil
}

// scanConfig returns the discovery patterns. Configured include patterns
// replace the defaults; exclude patterns extend them.
func (c *ProjectConfig) scanConfig() scanner.ScanConfig {
	sc := scanner.DefaultScanConfig()
	if len(c.Include) > 0 {
		sc.Include = append([]string(nil), c.Include...)
	}
	sc.Exclude = append(sc.Exclude, c.Exclude...)
	sc.Workers = c.Workers
	return sc
}

// resolveProject returns the catalog name, applying the fallback chain:
//  1. Explicit --project flag value
//  2. project from the config file
//  3. Base name of the input directory
func (c *ProjectConfig) resolveProject(flagValue, input string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.Project != "" {
		return c.Project
	}
	abs, err := filepath.Abs(input)
	if err != nil {
		return filepath.Base(input)
	}
	return filepath.Base(abs)
}

// resolveOutputDir returns the docs directory, applying the fallback chain:
//  1. Explicit --output flag value
//  2. output_dir from the config file
//  3. src/lib/docs/single for a file input,
//     src/lib/docs/projects/<project> for a directory
func (c *ProjectConfig) resolveOutputDir(flagValue, input, project string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.OutputDir != "" {
		return c.OutputDir
	}
	if info, err := os.Stat(input); err == nil && !info.IsDir() {
		return defaultSingleDir
	}
	return filepath.Join(defaultProjectsDir, project)
}

// resolveSettingsPath returns the provider settings file: flag, then
// config, then storage/settings.json.
func (c *ProjectConfig) resolveSettingsPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if c.SettingsPath != "" {
		return c.SettingsPath
	}
	return settings.DefaultPath
}
