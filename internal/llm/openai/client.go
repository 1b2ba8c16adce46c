package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"

	"intelliview-api/internal/llm"
)

const (
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultChatModel      = "gpt-4o-mini"
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultDimensions     = 1536
	defaultTimeout        = 120 * time.Second
)

// Options configures a Client.
type Options struct {
	APIKey         string
	Model          string
	EmbeddingModel string
	Dimensions     int
	BaseURL        string
	Timeout        time.Duration
}

// Client implements llm.Generator and llm.Embedder over the OpenAI REST API.
type Client struct {
	model          string
	embeddingModel string
	dimensions     int
	http           *resty.Client
}

// NewClient constructs a new OpenAI client.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
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
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetAuthToken(opts.APIKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(opts.Timeout)
	return &Client{
		model:          opts.Model,
		embeddingModel: opts.EmbeddingModel,
		dimensions:     opts.Dimensions,
		http:           httpClient,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string          `json:"model"`
	Messages            []chatMessage   `json:"messages"`
	Temperature         *float32        `json:"temperature,omitempty"`
	MaxTokens           int             `json:"max_tokens,omitempty"`
	MaxCompletionTokens int             `json:"max_completion_tokens,omitempty"`
	ResponseFormat      *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage *usage `json:"usage,omitempty"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Complete issues one chat completion. It never retries.
func (c *Client) Complete(ctx context.Context, systemPrompt, userPrompt string, opts llm.CompletionOptions) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}
	if opts.JSON {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	// gpt-5 models reject custom temperatures and the legacy max_tokens field.
	if isGPT5(c.model) {
		reqBody.MaxCompletionTokens = opts.MaxTokens
	} else {
		temp := opts.Temperature
		reqBody.Temperature = &temp
		reqBody.MaxTokens = opts.MaxTokens
	}

	var parsed chatResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(reqBody).
		SetResult(&parsed).
		Post("/chat/completions")
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai request: %w", err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	logUsage(c.model, parsed.Usage)
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices: %w", llm.ErrEmptyResponse)
	}
	content := llm.CleanJSON(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", llm.ErrEmptyResponse
	}
	return content, nil
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage *usage `json:"usage,omitempty"`
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
	var parsed embeddingResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(embeddingRequest{Model: c.embeddingModel, Input: texts, Dimensions: c.dimensions}).
		SetResult(&parsed).
		Post("/embeddings")
	if err != nil {
		return nil, fmt.Errorf("openai embeddings request: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("openai embeddings: got %d vectors for %d inputs", len(parsed.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("openai embeddings: index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}
	return out, nil
}

func apiError(resp *resty.Response) error {
	body := resp.Body()
	msg := gjson.GetBytes(body, "error.message").String()
	typ := gjson.GetBytes(body, "error.type").String()
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return fmt.Errorf("openai error status=%d: %s (%s)", resp.StatusCode(), msg, typ)
}

func logUsage(model string, u *usage) {
	if u == nil {
		log.Printf("llm response model=%s", model)
		return
	}
	log.Printf("llm response model=%s prompt_tokens=%d completion_tokens=%d total_tokens=%d",
		model, u.PromptTokens, u.CompletionTokens, u.TotalTokens)
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var (
	_ llm.Generator = (*Client)(nil)
	_ llm.Embedder  = (*Client)(nil)
)
