package llm

import "context"

// Client is one chat-completion provider. The model is passed per call so a
// single client serves every descriptor of its provider.
type Client interface {
	// GenerateStructured asks for a JSON object response and returns the raw
	// message content. Callers own parsing and repair.
	GenerateStructured(ctx context.Context, model, systemPrompt, userPrompt string) (string, error)
}

// Registry maps provider names to clients. It is assembled at startup from
// available credentials and read-only afterward.
type Registry map[string]Client

func (r Registry) For(provider string) (Client, bool) {
	c, ok := r[provider]
	return c, ok
}
