package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubDetection replaces PATH lookup and stat for the duration of a test.
func stubDetection(t *testing.T, lookPath func(string) (string, error), stat func(string) (os.FileInfo, error)) {
	t.Helper()
	origLookPath, origStat := lookPathFunc, statFunc
	t.Cleanup(func() {
		lookPathFunc = origLookPath
		statFunc = origStat
	})
	lookPathFunc = lookPath
	statFunc = stat
}

func notFound(string) (string, error)     { return "", exec.ErrNotFound }
func noFiles(string) (os.FileInfo, error) { return nil, os.ErrNotExist }
func reader(s string) *bufio.Reader       { return bufio.NewReader(strings.NewReader(s)) }

func decodeConfig(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var config map[string]any
	require.NoError(t, json.Unmarshal(data, &config))
	return config
}

// chdir moves into dir for the rest of the test. HOME is pointed at dir
// too so global agent configs are never touched.
func chdir(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("HOME", dir)
	t.Setenv("APPDATA", dir)
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(orig) })
}

// --- JSON merge tests ---

func TestMergeServerEntry_EmptyFile(t *testing.T) {
	out, err := mergeServerEntry(nil, "mcpServers", []string{"serve"}, nil)
	require.NoError(t, err)
	require.NotNil(t, out)

	servers := decodeConfig(t, out)["mcpServers"].(map[string]any)
	entry := servers["sveltedoc"].(map[string]any)
	assert.Equal(t, "sveltedoc", entry["command"])
	assert.Equal(t, []any{"serve"}, entry["args"])
	assert.Equal(t, byte('\n'), out[len(out)-1])
}

func TestMergeServerEntry_ExistingServers(t *testing.T) {
	existing := []byte(`{
  "theme": "dark",
  "mcpServers": {
    "other-server": {"command": "other", "args": ["start"]}
  }
}`)
	out, err := mergeServerEntry(existing, "mcpServers", []string{"serve"}, nil)
	require.NoError(t, err)

	config := decodeConfig(t, out)
	assert.Equal(t, "dark", config["theme"])
	servers := config["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other-server")
	assert.Contains(t, servers, "sveltedoc")
}

func TestMergeServerEntry_AlreadyConfigured(t *testing.T) {
	existing := []byte(`{"mcpServers": {"sveltedoc": {"command": "sveltedoc", "args": ["serve"]}}}`)
	out, err := mergeServerEntry(existing, "mcpServers", []string{"serve"}, nil)
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestMergeServerEntry_VSCodeFormat(t *testing.T) {
	out, err := mergeServerEntry(nil, "servers", []string{"serve"}, map[string]string{"type": "stdio"})
	require.NoError(t, err)

	entry := decodeConfig(t, out)["servers"].(map[string]any)["sveltedoc"].(map[string]any)
	assert.Equal(t, "stdio", entry["type"])
}

func TestMergeServerEntry_InvalidJSON(t *testing.T) {
	_, err := mergeServerEntry([]byte("not json"), "mcpServers", []string{"serve"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid JSON")
}

func TestServerArgs(t *testing.T) {
	project := agentDef{ID: "cursor"}
	global := agentDef{ID: "claude_desktop", Global: true}

	assert.Equal(t, []string{"serve"}, serverArgs(project, "/work/app"))
	assert.Equal(t, []string{"serve", "--root", "/work/app"}, serverArgs(global, "/work/app"))
	assert.Equal(t, []string{"serve"}, serverArgs(global, ""))
}

// --- Prompt tests ---

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"\n", true},
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"no", false},
		{"", true},
	}
	for _, tt := range tests {
		w := &bytes.Buffer{}
		assert.Equal(t, tt.want, promptYesNo(reader(tt.input), w, "Continue?"), "input %q", tt.input)
		assert.Contains(t, w.String(), "Continue?")
	}
}

func TestPromptScope(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"1\n", "project"},
		{"2\n", "user"},
		{"3\n", ""},
		{"\n", "project"},
		{"", "project"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, promptScope(reader(tt.input), io.Discard, "Claude Code"), "input %q", tt.input)
	}
}

func TestPrompts_ShareReader(t *testing.T) {
	br := reader("n\n2\n")
	assert.False(t, promptYesNo(br, io.Discard, "first?"))
	assert.Equal(t, "user", promptScope(br, io.Discard, "Codex"))
}

// --- Detection tests ---

func TestDetectAgents_CLIOnPath(t *testing.T) {
	stubDetection(t, func(name string) (string, error) {
		if name == "claude" {
			return "/usr/bin/claude", nil
		}
		return "", exec.ErrNotFound
	}, noFiles)

	detected := detectAgents()
	require.Len(t, detected, 1)
	assert.Equal(t, "claude_code", detected[0].Def.ID)
	assert.Empty(t, detected[0].ConfigTarget)
}

func TestDetectAgents_NoneDetected(t *testing.T) {
	stubDetection(t, notFound, noFiles)
	assert.Empty(t, detectAgents())
}

func TestDetectAgents_FileBasedAgent(t *testing.T) {
	stubDetection(t, notFound, func(name string) (os.FileInfo, error) {
		if name == ".vscode" {
			return nil, nil
		}
		return nil, os.ErrNotExist
	})

	detected := detectAgents()
	require.Len(t, detected, 1)
	assert.Equal(t, "vscode_copilot", detected[0].Def.ID)
	assert.Equal(t, filepath.Join(".vscode", "mcp.json"), detected[0].ConfigTarget)
}

func TestDetectAgents_AlreadyConfigured(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll(".cursor", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(".cursor", "mcp.json"),
		[]byte(`{"mcpServers": {"sveltedoc": {"command": "sveltedoc"}}}`), 0o644))

	stubDetection(t, notFound, func(name string) (os.FileInfo, error) {
		if name == ".cursor" {
			return os.Stat(name)
		}
		return nil, os.ErrNotExist
	})

	detected := detectAgents()
	require.Len(t, detected, 1)
	assert.True(t, detected[0].Configured)
}

// --- Setup runs ---

func TestExecuteSetup_NoAgents(t *testing.T) {
	stubDetection(t, notFound, noFiles)

	w := &bytes.Buffer{}
	require.NoError(t, executeSetup(strings.NewReader(""), w, setupOptions{}))
	assert.Contains(t, w.String(), "No supported AI agents detected.")
}

func TestExecuteSetup_UnknownAgentFilter(t *testing.T) {
	stubDetection(t, notFound, noFiles)

	err := executeSetup(strings.NewReader(""), io.Discard, setupOptions{only: "cursor"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `agent "cursor" not detected`)
}

func TestExecuteSetup_AutoModeFileAgent(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll(".vscode", 0o755))
	stubDetection(t, notFound, os.Stat)

	w := &bytes.Buffer{}
	require.NoError(t, executeSetup(strings.NewReader(""), w, setupOptions{auto: true}))

	data, err := os.ReadFile(filepath.Join(".vscode", "mcp.json"))
	require.NoError(t, err)
	entry := decodeConfig(t, data)["servers"].(map[string]any)["sveltedoc"].(map[string]any)
	assert.Equal(t, "sveltedoc", entry["command"])
	assert.Equal(t, "stdio", entry["type"])
	assert.Contains(t, w.String(), "VS Code Copilot configured")
}

func TestExecuteSetup_DeclinedWritesNothing(t *testing.T) {
	chdir(t, t.TempDir())
	require.NoError(t, os.MkdirAll(".cursor", 0o755))
	stubDetection(t, notFound, os.Stat)

	require.NoError(t, executeSetup(strings.NewReader("n\n"), io.Discard, setupOptions{}))
	assert.NoFileExists(t, filepath.Join(".cursor", "mcp.json"))
}

func TestExecuteSetup_CLIAgent(t *testing.T) {
	stubDetection(t, func(name string) (string, error) {
		if name == "codex" {
			return "/usr/bin/codex", nil
		}
		return "", exec.ErrNotFound
	}, noFiles)

	var gotBinary string
	var gotArgs []string
	orig := runAgentCLI
	t.Cleanup(func() { runAgentCLI = orig })
	runAgentCLI = func(_ io.Writer, binary string, args ...string) error {
		gotBinary, gotArgs = binary, args
		return nil
	}

	w := &bytes.Buffer{}
	require.NoError(t, executeSetup(strings.NewReader("y\n2\n"), w, setupOptions{}))

	assert.Equal(t, "codex", gotBinary)
	assert.Equal(t, []string{"mcp", "add", "--scope", "user", "sveltedoc", "--", "sveltedoc", "serve"}, gotArgs)
	assert.Contains(t, w.String(), "OpenAI Codex configured (scope: user)")
}

func TestConfigureFileAgent_CreatesAndMerges(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "sub", "mcp.json")
	def := agentDef{ServersKey: "mcpServers", Global: true}

	require.NoError(t, configureFileAgent(def, configPath, "/work/app"))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	entry := decodeConfig(t, data)["mcpServers"].(map[string]any)["sveltedoc"].(map[string]any)
	assert.Equal(t, []any{"serve", "--root", "/work/app"}, entry["args"])
}

func TestConfigureFileAgent_MergesExisting(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "mcp.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{"mcpServers": {"other": {"command": "other"}}}`), 0o644))

	require.NoError(t, configureFileAgent(agentDef{ServersKey: "mcpServers"}, configPath, ""))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	servers := decodeConfig(t, data)["mcpServers"].(map[string]any)
	assert.Contains(t, servers, "other")
	assert.Contains(t, servers, "sveltedoc")
}
