package bookforge

import "context"

// Client is the text-generation collaborator. Responses are treated as
// opaque strings; structure is imposed by prompt templates and recovered by
// line-prefix parsing.
type Client interface {
	SendMessage(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}
