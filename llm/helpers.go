package llm

import (
	"context"
)

// Complete sends a system and a user prompt and returns the text response.
// It accepts any RequestResponse, so wrapped providers work too.
func Complete(ctx context.Context, p Provider, system, user string) (string, error) {
	resp, err := p.Execute(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: "user", Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
