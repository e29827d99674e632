// Package mcplog records MCP tool calls as JSONL, one object per line.
package mcplog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// shortStringMax is the longest string argument logged verbatim. Component
// sources and markdown documents are replaced by their length.
const shortStringMax = 64

// LogEntry is one logged tool call.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	// IsError is set when the tool answered with an error result.
	IsError bool    `json:"is_error"`
	Error   *string `json:"error"`
}

// NewEntry builds the entry for a call that started at start.
func NewEntry(tool string, args map[string]any, start time.Time, result *mcp.CallToolResult, err error) LogEntry {
	rb := ResponseBytes(result)
	entry := LogEntry{
		Ts:            start.UTC().Format(time.RFC3339),
		Tool:          tool,
		Params:        SanitizeParams(args),
		DurationMs:    Now().Sub(start).Milliseconds(),
		ResponseBytes: rb,
		TokensEst:     rb / 4,
		IsError:       result != nil && result.IsError,
	}
	if err != nil {
		msg := err.Error()
		entry.Error = &msg
	}
	return entry
}

// Logger appends entries to a file. It is safe for concurrent use.
type Logger struct {
	mu  sync.Mutex
	f   *os.File
	enc *json.Encoder
}

// NewLogger opens path for appending, creating parent directories.
// An empty path returns nil, nil; callers treat a nil Logger as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{f: f, enc: json.NewEncoder(f)}, nil
}

// Write appends a single entry.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

// SanitizeParams returns a copy of args safe for logging. Strings longer
// than shortStringMax bytes are replaced by a "<key>_len" entry.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		if s, ok := v.(string); ok && len(s) > shortStringMax {
			out[k+"_len"] = len(s)
		} else {
			out[k] = v
		}
	}
	return out
}

// ResponseBytes returns the serialized length of a result's content, or 0
// for a nil result.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// ToolStats aggregates the entries of one tool.
type ToolStats struct {
	Tool          string `json:"tool"`
	Calls         int    `json:"calls"`
	Errors        int    `json:"errors"`
	TotalMs       int64  `json:"total_ms"`
	ResponseBytes int    `json:"response_bytes"`
}

// ReadFile parses a call log. Malformed lines are counted and skipped.
func ReadFile(path string) ([]LogEntry, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("mcplog: open log file: %w", err)
	}
	defer f.Close()

	var (
		entries []LogEntry
		bad     int
	)
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e LogEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			bad++
			continue
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return entries, bad, fmt.Errorf("mcplog: read log file: %w", err)
	}
	return entries, bad, nil
}

// Summarize groups entries by tool, sorted by tool name.
func Summarize(entries []LogEntry) []ToolStats {
	byTool := make(map[string]*ToolStats)
	for _, e := range entries {
		st, ok := byTool[e.Tool]
		if !ok {
			st = &ToolStats{Tool: e.Tool}
			byTool[e.Tool] = st
		}
		st.Calls++
		if e.IsError || e.Error != nil {
			st.Errors++
		}
		st.TotalMs += e.DurationMs
		st.ResponseBytes += e.ResponseBytes
	}

	out := make([]ToolStats, 0, len(byTool))
	for _, st := range byTool {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tool < out[j].Tool })
	return out
}

// Now is a replaceable clock for testing.
var Now = func() time.Time { return time.Now() }
