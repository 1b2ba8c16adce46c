// Package questionbank stores reference interview questions and résumé vectors
// and answers similarity queries over them.
package questionbank

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"intelliview-api/internal/llm"
	"intelliview-api/internal/parser"
)

const (
	embedChunkSize     = 100
	resumeVectorPrefix = "resume_"
	resumeSummaryLimit = 1000

	defaultSearchLimit = 5
)

// Index persists vectors and runs nearest-neighbour queries.
type Index interface {
	UpsertQuestions(ctx context.Context, questions []ReferenceQuestion, vectors [][]float32) error
	QueryQuestions(ctx context.Context, vector []float32, opts SearchOptions) ([]Match, error)
	UpsertResume(ctx context.Context, vectorID string, v ResumeVector, vector []float32) error
	DeleteResume(ctx context.Context, vectorID string) error
}

// Bank embeds text through an llm.Embedder and delegates storage to an Index.
type Bank struct {
	Embedder llm.Embedder
	Index    Index
}

// New constructs a Bank.
func New(embedder llm.Embedder, index Index) *Bank {
	return &Bank{Embedder: embedder, Index: index}
}

// Search returns reference questions similar to queryText, best first.
func (b *Bank) Search(ctx context.Context, queryText string, opts SearchOptions) ([]Match, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, fmt.Errorf("%w: query text is required", ErrInvalidInput)
	}
	if opts.Limit <= 0 {
		opts.Limit = defaultSearchLimit
	}
	vector, err := b.Embedder.Embed(ctx, queryText)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	matches, err := b.Index.QueryQuestions(ctx, vector, opts)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}

	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Score >= opts.MinScore {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// UpsertBatch embeds and stores questions in chunks, returning their ids in input order.
// Questions without an id get a fresh one.
func (b *Bank) UpsertBatch(ctx context.Context, questions []ReferenceQuestion) ([]string, error) {
	if len(questions) == 0 {
		return []string{}, nil
	}
	ids := make([]string, 0, len(questions))
	for start := 0; start < len(questions); start += embedChunkSize {
		end := min(start+embedChunkSize, len(questions))
		chunk := make([]ReferenceQuestion, end-start)
		copy(chunk, questions[start:end])

		texts := make([]string, len(chunk))
		for i := range chunk {
			if chunk[i].ID == "" {
				chunk[i].ID = uuid.NewString()
			}
			texts[i] = chunk[i].EmbeddingText()
		}
		vectors, err := b.Embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return ids, fmt.Errorf("embed questions %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(chunk) {
			return ids, ErrDimensionMismatch
		}
		if err := b.Index.UpsertQuestions(ctx, chunk, vectors); err != nil {
			return ids, fmt.Errorf("upsert questions %d-%d: %w", start, end, err)
		}
		for _, q := range chunk {
			ids = append(ids, q.ID)
		}
	}
	return ids, nil
}

// IndexResume embeds a résumé projection and stores it under ResumeVectorID.
func (b *Bank) IndexResume(ctx context.Context, v ResumeVector) (string, error) {
	if v.ResumeID == "" {
		return "", fmt.Errorf("%w: resume id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(v.Text) == "" {
		return "", fmt.Errorf("%w: resume text is empty", ErrInvalidInput)
	}
	vector, err := b.Embedder.Embed(ctx, v.Text)
	if err != nil {
		return "", fmt.Errorf("embed resume: %w", err)
	}
	v.Summary = parser.Truncate(v.Summary, resumeSummaryLimit)
	id := ResumeVectorID(v.ResumeID)
	if err := b.Index.UpsertResume(ctx, id, v, vector); err != nil {
		return "", fmt.Errorf("upsert resume vector: %w", err)
	}
	return id, nil
}

// DeleteResume removes the vector stored for a résumé. Missing vectors are not an error.
func (b *Bank) DeleteResume(ctx context.Context, resumeID string) error {
	return b.Index.DeleteResume(ctx, ResumeVectorID(resumeID))
}
