package ai

import "context"

// LLMProvider sends a prompt to an LLM and returns the raw text response.
// The term extractor is its only caller; retries are layered on by wrapping.
type LLMProvider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
