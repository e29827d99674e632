package enhance

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/gnana997/sveltedoc/pkg/settings"
)

const (
	geminiKeyHeader = "x-goog-api-key"
	geminiKeyEnv    = "GEMINI_API_KEY"
	geminiModel     = "gemini-1.5-flash"
)

// GeminiProvider uses the Gemini generative text API.
type GeminiProvider struct {
	name        string
	model       string
	apiKey      string
	endpoint    string
	temperature *float32
	maxTokens   *int32
}

// NewGeminiProvider creates a provider for cfg. The API key comes from the
// x-goog-api-key header, falling back to $GEMINI_API_KEY.
func NewGeminiProvider(_ context.Context, cfg settings.AIProvider) (*GeminiProvider, error) {
	key := cfg.Headers[geminiKeyHeader]
	if key == "" || key == "YOUR_API_KEY" {
		key = os.Getenv(geminiKeyEnv)
	}
	if key == "" {
		return nil, fmt.Errorf("provider %q: no API key (set the %s header or $%s)", cfg.Name, geminiKeyHeader, geminiKeyEnv)
	}

	p := &GeminiProvider{
		name:     cfg.Name,
		model:    cfg.Model(),
		apiKey:   key,
		endpoint: cfg.APIEndpoint,
	}
	if p.model == "" {
		p.model = geminiModel
	}
	if t, ok := number(cfg.Body["temperature"]); ok {
		v := float32(t)
		p.temperature = &v
	}
	if n, ok := number(cfg.Body["max_tokens"]); ok {
		v := int32(n)
		p.maxTokens = &v
	}
	return p, nil
}

// Enhance sends prompt as the system instruction and content as the user
// turn.
func (p *GeminiProvider) Enhance(ctx context.Context, prompt, content string) (string, error) {
	opts := []option.ClientOption{option.WithAPIKey(p.apiKey)}
	if p.endpoint != "" {
		opts = append(opts, option.WithEndpoint(p.endpoint))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%s: failed to create client: %w", p.name, err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.model)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt)}}
	if p.temperature != nil {
		model.SetTemperature(*p.temperature)
	}
	if p.maxTokens != nil {
		model.SetMaxOutputTokens(*p.maxTokens)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(UserMessage(content)))
	if err != nil {
		return "", fmt.Errorf("%s: failed to enhance documentation: %w", p.name, err)
	}

	text := responseText(resp)
	if text == "" {
		return "", fmt.Errorf("%s: response has no text", p.name)
	}
	return text, nil
}

// responseText joins the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// number reads a JSON number from a settings body field.
func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
