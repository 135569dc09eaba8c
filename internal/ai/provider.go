package ai

import "context"

// LLMProvider sends a system instruction and a user message to a language
// model and returns the raw text response.
type LLMProvider interface {
	Complete(ctx context.Context, system, user string) (string, error)
}
