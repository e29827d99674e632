package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
)

// serverName is the key the MCP server is registered under in agent configs.
const serverName = "sveltedoc"

type agentMethod int

const (
	methodCLI  agentMethod = iota // registered through "<binary> mcp add"
	methodFile                    // registered by editing a JSON config file
)

// agentDef describes how to detect and configure one coding agent.
type agentDef struct {
	ID          string
	DisplayName string
	Method      agentMethod
	Binary      string            // CLI agents: binary looked up on PATH
	DirMarkers  []string          // file agents: project dirs that signal the agent
	ConfigPath  func() string     // file agents: config file location
	ServersKey  string            // "servers" (VS Code) or "mcpServers"
	Global      bool              // launched outside the project, needs --root
	ExtraFields map[string]string // e.g. "type": "stdio" for VS Code
}

// detectedAgent is an agent found on this machine.
type detectedAgent struct {
	Def          agentDef
	Configured   bool
	ConfigTarget string
}

type setupOptions struct {
	auto bool
	only string // agent ID; empty means every detected agent
	root string // absolute project root passed to global agents
}

// Replaceable for testing.
var (
	lookPathFunc = exec.LookPath
	statFunc     = os.Stat
	runAgentCLI  = func(w io.Writer, binary string, args ...string) error {
		cmd := exec.Command(binary, args...)
		cmd.Stdout = w
		cmd.Stderr = w
		return cmd.Run()
	}
)

var agentRegistry = []agentDef{
	{
		ID: "claude_code", DisplayName: "Claude Code",
		Method: methodCLI, Binary: "claude",
	},
	{
		ID: "openai_codex", DisplayName: "OpenAI Codex",
		Method: methodCLI, Binary: "codex",
	},
	{
		ID: "vscode_copilot", DisplayName: "VS Code Copilot",
		Method: methodFile, DirMarkers: []string{".vscode"},
		ConfigPath:  func() string { return filepath.Join(".vscode", "mcp.json") },
		ServersKey:  "servers",
		ExtraFields: map[string]string{"type": "stdio"},
	},
	{
		ID: "cursor", DisplayName: "Cursor",
		Method: methodFile, DirMarkers: []string{".cursor"},
		ConfigPath: func() string { return filepath.Join(".cursor", "mcp.json") },
		ServersKey: "mcpServers",
	},
	{
		ID: "claude_desktop", DisplayName: "Claude Desktop",
		Method:     methodFile,
		ConfigPath: claudeDesktopConfigPath,
		ServersKey: "mcpServers",
		Global:     true,
	},
}

func newSetupCmd(_ *app) *cobra.Command {
	var opts setupOptions

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the sveltedoc MCP server with installed coding agents",
		Long: `Detects Claude Code, Codex, VS Code Copilot, Cursor and Claude Desktop and
adds a "sveltedoc serve" entry to each. Existing entries are left untouched.

Example:
  sveltedoc setup            # asks before each agent
  sveltedoc setup --auto     # project scope, no questions
  sveltedoc setup --agent cursor`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to resolve working directory: %w", err)
			}
			opts.root = wd
			return executeSetup(cmd.InOrStdin(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.auto, "auto", false, "Configure every detected agent without prompting")
	cmd.Flags().StringVar(&opts.only, "agent", "", "Only configure this agent (claude_code, openai_codex, vscode_copilot, cursor, claude_desktop)")
	return cmd
}

func claudeDesktopConfigPath() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Claude", "claude_desktop_config.json")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Claude", "claude_desktop_config.json")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "Claude", "claude_desktop_config.json")
	}
}

// detectAgents returns the agents present on this machine in registry order.
func detectAgents() []detectedAgent {
	var detected []detectedAgent

	for _, def := range agentRegistry {
		switch def.Method {
		case methodCLI:
			if _, err := lookPathFunc(def.Binary); err == nil {
				detected = append(detected, detectedAgent{
					Def:        def,
					Configured: hasServerEntry(".mcp.json", "mcpServers"),
				})
			}

		case methodFile:
			target, ok := fileAgentTarget(def)
			if ok {
				detected = append(detected, detectedAgent{
					Def:          def,
					Configured:   hasServerEntry(target, def.ServersKey),
					ConfigTarget: target,
				})
			}
		}
	}
	return detected
}

// fileAgentTarget reports whether a file agent is present and where its
// config lives. Project agents are found by their marker directory, global
// ones by the parent directory of their config.
func fileAgentTarget(def agentDef) (string, bool) {
	if def.ConfigPath == nil {
		return "", false
	}
	for _, marker := range def.DirMarkers {
		if _, err := statFunc(marker); err == nil {
			return def.ConfigPath(), true
		}
	}
	if len(def.DirMarkers) == 0 {
		path := def.ConfigPath()
		if _, err := statFunc(filepath.Dir(path)); err == nil {
			return path, true
		}
	}
	return "", false
}

// hasServerEntry reports whether the JSON file at path already registers
// the server under serversKey.
func hasServerEntry(path, serversKey string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	var config map[string]any
	if err := json.Unmarshal(data, &config); err != nil {
		return false
	}
	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		return false
	}
	_, exists := servers[serverName]
	return exists
}

// serverArgs returns the serve invocation. Global agents start the server
// outside the project, so they get the project root explicitly.
func serverArgs(def agentDef, root string) []string {
	args := []string{"serve"}
	if def.Global && root != "" {
		args = append(args, "--root", root)
	}
	return args
}

func serverEntry(args []string, extra map[string]string) map[string]any {
	list := make([]any, len(args))
	for i, a := range args {
		list[i] = a
	}
	entry := map[string]any{
		"command": serverName,
		"args":    list,
	}
	for k, v := range extra {
		entry[k] = v
	}
	return entry
}

// mergeServerEntry adds the server entry under serversKey to the existing
// JSON document, preserving every other key. Returns nil, nil when the
// entry is already present.
func mergeServerEntry(existing []byte, serversKey string, args []string, extra map[string]string) ([]byte, error) {
	config := make(map[string]any)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &config); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	}

	servers, ok := config[serversKey].(map[string]any)
	if !ok {
		servers = make(map[string]any)
	}
	if _, exists := servers[serverName]; exists {
		return nil, nil
	}

	servers[serverName] = serverEntry(args, extra)
	config[serversKey] = servers

	out, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func configureCLIAgent(w io.Writer, def agentDef, scope string) error {
	args := []string{"mcp", "add"}
	if scope != "" {
		args = append(args, "--scope", scope)
	}
	args = append(args, serverName, "--", serverName, "serve")
	return runAgentCLI(w, def.Binary, args...)
}

func configureFileAgent(def agentDef, configPath, root string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var existing []byte
	if data, err := os.ReadFile(configPath); err == nil {
		existing = data
	}

	merged, err := mergeServerEntry(existing, def.ServersKey, serverArgs(def, root), def.ExtraFields)
	if err != nil {
		return fmt.Errorf("%s: %w", configPath, err)
	}
	if merged == nil {
		return nil
	}
	return os.WriteFile(configPath, merged, 0o644)
}

// promptYesNo asks a Y/n question. Empty input and EOF mean yes.
func promptYesNo(br *bufio.Reader, w io.Writer, question string) bool {
	fmt.Fprintf(w, "%s ", question)
	answer, err := br.ReadString('\n')
	if err != nil && answer == "" {
		return true
	}
	answer = strings.TrimSpace(strings.ToLower(answer))
	return answer == "" || answer == "y" || answer == "yes"
}

// promptScope returns "project", "user", or "" to skip.
func promptScope(br *bufio.Reader, w io.Writer, agentName string) string {
	fmt.Fprintf(w, "\n%s: add the %s MCP server?\n", agentName, serverName)
	fmt.Fprintln(w, "  [1] Project scope (shared with team)")
	fmt.Fprintln(w, "  [2] User scope (personal, global)")
	fmt.Fprintln(w, "  [3] Skip")
	fmt.Fprint(w, "  > ")

	answer, err := br.ReadString('\n')
	if err != nil && answer == "" {
		return "project"
	}
	switch strings.TrimSpace(answer) {
	case "1", "":
		return "project"
	case "2":
		return "user"
	default:
		return ""
	}
}

// executeSetup detects agents and configures them, prompting on r unless
// opts.auto is set. Per-agent failures are reported and do not stop the run.
func executeSetup(r io.Reader, w io.Writer, opts setupOptions) error {
	detected := detectAgents()
	if opts.only != "" {
		var picked []detectedAgent
		for _, d := range detected {
			if d.Def.ID == opts.only {
				picked = append(picked, d)
			}
		}
		if len(picked) == 0 {
			return fmt.Errorf("agent %q not detected", opts.only)
		}
		detected = picked
	}
	if len(detected) == 0 {
		fmt.Fprintln(w, "No supported AI agents detected.")
		return nil
	}

	fmt.Fprintln(w, "Detected AI agents:")
	for _, d := range detected {
		if d.Configured {
			fmt.Fprintf(w, "  * %s (already configured)\n", d.Def.DisplayName)
		} else {
			fmt.Fprintf(w, "  * %s\n", d.Def.DisplayName)
		}
	}
	fmt.Fprintln(w)

	// One reader for every prompt so buffered input is not lost between them.
	br := bufio.NewReader(r)
	if !opts.auto && !promptYesNo(br, w, "Configure agents? [Y/n]") {
		return nil
	}

	for _, d := range detected {
		if d.Configured {
			fmt.Fprintf(w, "\n%s: already configured, skipping\n", d.Def.DisplayName)
			continue
		}
		configureOneAgent(br, w, d, opts)
	}
	return nil
}

func configureOneAgent(br *bufio.Reader, w io.Writer, d detectedAgent, opts setupOptions) {
	switch d.Def.Method {
	case methodCLI:
		scope := "project"
		if !opts.auto {
			if scope = promptScope(br, w, d.Def.DisplayName); scope == "" {
				fmt.Fprintln(w, "  skipped")
				return
			}
		}
		if err := configureCLIAgent(w, d.Def, scope); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (scope: %s)\n", d.Def.DisplayName, scope)

	case methodFile:
		if !opts.auto && !promptYesNo(br, w, fmt.Sprintf("\n%s: add to %s? [Y/n]", d.Def.DisplayName, d.ConfigTarget)) {
			fmt.Fprintln(w, "  skipped")
			return
		}
		if err := configureFileAgent(d.Def, d.ConfigTarget, opts.root); err != nil {
			fmt.Fprintf(w, "  ! %s: failed: %v\n", d.Def.DisplayName, err)
			return
		}
		fmt.Fprintf(w, "  + %s configured (%s)\n", d.Def.DisplayName, d.ConfigTarget)
	}
}
