// Package settings persists the generative provider configuration used by
// the enhancement step.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultPath is where settings live relative to the working directory.
var DefaultPath = filepath.Join("storage", "settings.json")

// Provider kinds understood by the enhancement step.
const (
	KindChat   = "chat"
	KindGemini = "gemini"
)

// AIProvider describes one generative text endpoint.
type AIProvider struct {
	Name string `json:"name"`

	// Kind selects the client: "chat" (chat-completions HTTP API, the
	// default) or "gemini".
	Kind string `json:"kind,omitempty"`

	APIEndpoint string            `json:"apiEndpoint"`
	Headers     map[string]string `json:"headers"`

	// Body holds extra request fields such as model, temperature and
	// max_tokens. It is merged into every request.
	Body map[string]any `json:"body"`
}

// Settings is the persisted settings document.
type Settings struct {
	AIProviders      []AIProvider `json:"aiProviders"`
	SelectedProvider string       `json:"selectedProvider"`
}

// Default returns the settings written on first read.
func Default() Settings {
	return Settings{
		AIProviders: []AIProvider{
			{
				Name:        "openai",
				Kind:        KindChat,
				APIEndpoint: "https://api.openai.com/v1/chat/completions",
				Headers: map[string]string{
					"Authorization": "Bearer YOUR_API_KEY",
					"Content-Type":  "application/json",
				},
				Body: map[string]any{
					"model":       "gpt-4",
					"temperature": 0.7,
					"max_tokens":  2000,
				},
			},
			{
				Name: "gemini",
				Kind: KindGemini,
				Headers: map[string]string{
					"x-goog-api-key": "YOUR_API_KEY",
				},
				Body: map[string]any{
					"model":       "gemini-1.5-flash",
					"temperature": 0.7,
				},
			},
		},
		SelectedProvider: "openai",
	}
}

// Load reads settings from path. A missing file is created with Default().
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s := Default()
		if err := Save(path, s); err != nil {
			return Settings{}, err
		}
		return s, nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path as indented JSON, creating parent directories.
func Save(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Provider returns the provider called name.
func (s Settings) Provider(name string) (AIProvider, bool) {
	for _, p := range s.AIProviders {
		if p.Name == name {
			return p, true
		}
	}
	return AIProvider{}, false
}

// Selected returns the selected provider.
func (s Settings) Selected() (AIProvider, error) {
	p, ok := s.Provider(s.SelectedProvider)
	if !ok {
		return AIProvider{}, fmt.Errorf("selected provider %q is not configured", s.SelectedProvider)
	}
	return p, nil
}

// ResolveKind returns the provider kind, defaulting to KindChat.
func (p AIProvider) ResolveKind() string {
	if p.Kind == "" {
		return KindChat
	}
	return p.Kind
}

// Model returns the "model" body field, if set.
func (p AIProvider) Model() string {
	if m, ok := p.Body["model"].(string); ok {
		return m
	}
	return ""
}
