package gemini

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"google.golang.org/genai"

	"intelliview-api/internal/llm"
)

const (
	defaultChatModel      = "gemini-2.5-flash"
	defaultEmbeddingModel = "gemini-embedding-001"
	defaultDimensions     = 1536
)

// Options configures a Client.
type Options struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Dimensions     int
	// BaseURL overrides the API endpoint, for tests.
	BaseURL string
}

// Client implements llm.Generator and llm.Embedder with the Gemini API.
type Client struct {
	client         *genai.Client
	model          string
	embeddingModel string
	dimensions     int32
}

// NewClient constructs a Gemini-backed client.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(opts.Model) == "" {
		opts.Model = defaultChatModel
	}
	if strings.TrimSpace(opts.EmbeddingModel) == "" {
		opts.EmbeddingModel = defaultEmbeddingModel
	}
	if opts.Dimensions <= 0 {
		opts.Dimensions = defaultDimensions
	}
	cfg := &genai.ClientConfig{
		APIKey:  opts.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if opts.BaseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: opts.BaseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &Client{
		client:         client,
		model:          opts.Model,
		embeddingModel: opts.EmbeddingModel,
		dimensions:     int32(opts.Dimensions),
	}, nil
}

// Complete issues one generateContent call. It never retries.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, opts llm.CompletionOptions) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr(opts.Temperature),
		MaxOutputTokens:   int32(opts.MaxTokens),
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if opts.JSON {
		cfg.ResponseMIMEType = "application/json"
	}
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if result == nil || len(result.Candidates) == 0 {
		return "", fmt.Errorf("gemini response missing candidates: %w", llm.ErrEmptyResponse)
	}
	if result.UsageMetadata != nil {
		log.Printf("llm response model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
			c.model, result.UsageMetadata.PromptTokenCount, result.UsageMetadata.CandidatesTokenCount, result.UsageMetadata.TotalTokenCount)
	}
	content := llm.CleanJSON(result.Text())
	if content == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}

// Embed returns the embedding of a single text.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// EmbedBatch embeds all texts in one request, preserving input order.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	contents := make([]*genai.Content, len(texts))
	for i, t := range texts {
		contents[i] = genai.NewContentFromText(t, genai.RoleUser)
	}
	dims := c.dimensions
	result, err := c.client.Models.EmbedContent(ctx, c.embeddingModel, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if result == nil || len(result.Embeddings) != len(texts) {
		return nil, fmt.Errorf("gemini embed: expected %d vectors", len(texts))
	}
	out := make([][]float32, len(texts))
	for i, e := range result.Embeddings {
		if e == nil || len(e.Values) == 0 {
			return nil, fmt.Errorf("gemini embed: empty vector at %d", i)
		}
		for j, v := range e.Values {
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return nil, fmt.Errorf("gemini embed: invalid value at %d/%d", i, j)
			}
		}
		out[i] = e.Values
	}
	return out, nil
}

var (
	_ llm.Generator = (*Client)(nil)
	_ llm.Embedder  = (*Client)(nil)
)
