// Package llm defines the generative-text and embedding contracts used by the
// question generator and the reference question bank.
package llm

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotConfigured is returned when no provider credentials are available.
	ErrNotConfigured = errors.New("llm provider not configured")
	// ErrEmptyResponse is returned when the provider answers with no content.
	ErrEmptyResponse = errors.New("llm returned an empty response")
)

// CompletionOptions tunes a single completion call.
type CompletionOptions struct {
	Temperature float32
	MaxTokens   int
	// JSON asks the provider for a single JSON object.
	JSON bool
}

// Generator produces a completion for a system and user prompt pair.
type Generator interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string, opts CompletionOptions) (string, error)
}

// Embedder turns text into fixed-length vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Placeholder satisfies both contracts when no provider is configured.
type Placeholder struct{}

// Complete returns ErrNotConfigured.
func (Placeholder) Complete(context.Context, string, string, CompletionOptions) (string, error) {
	return "", ErrNotConfigured
}

// Embed returns ErrNotConfigured.
func (Placeholder) Embed(context.Context, string) ([]float32, error) {
	return nil, ErrNotConfigured
}

// EmbedBatch returns ErrNotConfigured.
func (Placeholder) EmbedBatch(context.Context, []string) ([][]float32, error) {
	return nil, ErrNotConfigured
}

// CleanJSON strips markdown code fences some models wrap around JSON output.
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		s = s[nl+1:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var (
	_ Generator = Placeholder{}
	_ Embedder  = Placeholder{}
)
