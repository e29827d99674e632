package enhance

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gnana997/sveltedoc/pkg/settings"
)

// ChatProvider talks to a chat-completions style HTTP endpoint.
type ChatProvider struct {
	name     string
	endpoint string
	headers  map[string]string
	body     map[string]any
	client   *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// NewChatProvider creates a provider for cfg. A nil client means
// DefaultClient.
func NewChatProvider(cfg settings.AIProvider, client *http.Client) (*ChatProvider, error) {
	if cfg.APIEndpoint == "" {
		return nil, fmt.Errorf("provider %q: apiEndpoint is required", cfg.Name)
	}
	if client == nil {
		client = DefaultClient
	}
	return &ChatProvider{
		name:     cfg.Name,
		endpoint: cfg.APIEndpoint,
		headers:  cfg.Headers,
		body:     cfg.Body,
		client:   client,
	}, nil
}

// Enhance sends prompt as the system message and content as the user
// message, returning the first choice.
func (p *ChatProvider) Enhance(ctx context.Context, prompt, content string) (string, error) {
	body := make(map[string]any, len(p.body)+1)
	for k, v := range p.body {
		body[k] = v
	}
	body["messages"] = []chatMessage{
		{Role: "system", Content: prompt},
		{Role: "user", Content: UserMessage(content)},
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range p.headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: request failed: %w", p.name, err)
	}
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return "", fmt.Errorf("%s: failed to read response: %w", p.name, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		var apiErr chatError
		if json.Unmarshal(b, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("%s: %s", p.name, apiErr.Error.Message)
		}
		return "", fmt.Errorf("%s: failed to enhance documentation: status %d: %s",
			p.name, res.StatusCode, strings.TrimSpace(string(b)))
	}

	var out chatResponse
	if err := json.Unmarshal(b, &out); err != nil {
		return "", fmt.Errorf("%s: failed to parse response: %w", p.name, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%s: response has no choices", p.name)
	}
	return out.Choices[0].Message.Content, nil
}
