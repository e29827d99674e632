// Package enhance rewrites generated component docs through a generative
// text provider and decodes the result back into documentation models.
package enhance

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gnana997/sveltedoc/pkg/settings"
)

// DefaultPrompt is the system prompt used when none is configured.
const DefaultPrompt = `You improve Svelte component documentation.
Keep the markdown structure exactly: the "# Name" title, the description
paragraph, and the Props, Events and Slots tables with their columns.
Fill in missing descriptions and clarify existing ones. Do not add or
remove rows. Reply with the markdown document only.`

// userPreamble precedes the document in the user message.
const userPreamble = "Here's the component documentation to enhance:\n\n"

// Provider turns a markdown document into an enhanced one.
type Provider interface {
	Enhance(ctx context.Context, prompt, content string) (string, error)
}

// DefaultClient is used by providers created without an explicit client.
var DefaultClient = &http.Client{
	Timeout: 2 * time.Minute,
}

// UserMessage builds the user turn sent to the provider.
func UserMessage(content string) string {
	return userPreamble + content
}

// NewProvider builds the client for cfg.
func NewProvider(ctx context.Context, cfg settings.AIProvider) (Provider, error) {
	switch kind := cfg.ResolveKind(); kind {
	case settings.KindChat:
		return NewChatProvider(cfg, nil)
	case settings.KindGemini:
		return NewGeminiProvider(ctx, cfg)
	default:
		return nil, fmt.Errorf("provider %q: unknown kind %q", cfg.Name, kind)
	}
}
