package questionbank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbedder maps texts containing a keyword onto a fixed vector.
type fakeEmbedder struct {
	byKeyword  map[string][]float32
	fallback   []float32
	batchSizes []int
	err        error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.vectorFor(text), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.batchSizes = append(f.batchSizes, len(texts))
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectorFor(t)
	}
	return out, nil
}

func (f *fakeEmbedder) vectorFor(text string) []float32 {
	for kw, v := range f.byKeyword {
		if strings.Contains(text, kw) {
			return v
		}
	}
	if f.fallback != nil {
		return f.fallback
	}
	return []float32{1, 0, 0}
}

type recordingIndex struct {
	*MemoryIndex
	lastResumeID string
	lastResume   ResumeVector
	deleted      []string
}

func (r *recordingIndex) UpsertResume(ctx context.Context, id string, v ResumeVector, vec []float32) error {
	r.lastResumeID = id
	r.lastResume = v
	return r.MemoryIndex.UpsertResume(ctx, id, v, vec)
}

func (r *recordingIndex) DeleteResume(ctx context.Context, id string) error {
	r.deleted = append(r.deleted, id)
	return r.MemoryIndex.DeleteResume(ctx, id)
}

func TestUpsertBatchEmbedsInChunks(t *testing.T) {
	emb := &fakeEmbedder{}
	bank := New(emb, NewMemoryIndex())

	questions := make([]ReferenceQuestion, 250)
	for i := range questions {
		questions[i] = ReferenceQuestion{Company: "Acme", Role: "SRE", Question: fmt.Sprintf("q%d", i)}
	}
	questions[3].ID = "fixed-id"

	ids, err := bank.UpsertBatch(context.Background(), questions)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 50}, emb.batchSizes)
	require.Len(t, ids, 250)
	assert.Equal(t, "fixed-id", ids[3])
	for i, id := range ids {
		assert.NotEmpty(t, id, "id %d", i)
	}
	assert.Empty(t, questions[0].ID, "input slice must not be mutated")
}

func TestUpsertBatchEmpty(t *testing.T) {
	emb := &fakeEmbedder{}
	ids, err := New(emb, NewMemoryIndex()).UpsertBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Empty(t, emb.batchSizes)
}

func TestSearchFiltersAndOrders(t *testing.T) {
	emb := &fakeEmbedder{byKeyword: map[string][]float32{
		"cache":      {1, 0, 0},
		"queue":      {0.8, 0.6, 0},
		"leadership": {0, 0, 1},
	}}
	bank := New(emb, NewMemoryIndex())
	_, err := bank.UpsertBatch(context.Background(), []ReferenceQuestion{
		{ID: "a", Company: "Acme", Role: "Backend Developer", Question: "Design a queue"},
		{ID: "b", Company: "Acme", Role: "Backend Developer", Question: "Design a cache"},
		{ID: "c", Company: "Acme", Role: "Backend Developer", Question: "Describe leadership"},
		{ID: "d", Company: "Globex", Role: "Backend Developer", Question: "Design a cache"},
	})
	require.NoError(t, err)

	matches, err := bank.Search(context.Background(), "cache interview questions", SearchOptions{
		Company:  "acme",
		Role:     "backend developer",
		Limit:    15,
		MinScore: 0.5,
	})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	assert.Equal(t, "a", matches[1].ID)
	assert.InDelta(t, 0.8, matches[1].Score, 1e-6)

	limited, err := bank.Search(context.Background(), "cache", SearchOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.InDelta(t, 1.0, limited[0].Score, 1e-6)
}

func TestSearchRejectsBlankQuery(t *testing.T) {
	_, err := New(&fakeEmbedder{}, NewMemoryIndex()).Search(context.Background(), "  ", SearchOptions{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchPropagatesEmbedderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := New(&fakeEmbedder{err: boom}, NewMemoryIndex()).Search(context.Background(), "go", SearchOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestIndexResumeUsesPrefixedIDAndCapsSummary(t *testing.T) {
	idx := &recordingIndex{MemoryIndex: NewMemoryIndex()}
	bank := New(&fakeEmbedder{}, idx)

	id, err := bank.IndexResume(context.Background(), ResumeVector{
		ResumeID: "r-1",
		UserID:   "u-1",
		Skills:   []string{"Go"},
		Summary:  strings.Repeat("s", 1500),
		Text:     "Technical Skills: Go",
	})
	require.NoError(t, err)
	assert.Equal(t, "resume_r-1", id)
	assert.Equal(t, "resume_r-1", idx.lastResumeID)
	assert.Len(t, idx.lastResume.Summary, 1000)
	assert.True(t, idx.HasResume("resume_r-1"))

	require.NoError(t, bank.DeleteResume(context.Background(), "r-1"))
	assert.Equal(t, []string{"resume_r-1"}, idx.deleted)
	assert.False(t, idx.HasResume("resume_r-1"))
}

func TestIndexResumeRequiresText(t *testing.T) {
	_, err := New(&fakeEmbedder{}, NewMemoryIndex()).IndexResume(context.Background(), ResumeVector{ResumeID: "r-1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSeedIsIdempotent(t *testing.T) {
	idx := NewMemoryIndex()
	bank := New(&fakeEmbedder{}, idx)

	n, err := Seed(context.Background(), bank)
	require.NoError(t, err)
	assert.Equal(t, 32, n)
	_, err = Seed(context.Background(), bank)
	require.NoError(t, err)
	assert.Len(t, idx.questions, 32)

	seen := map[string]bool{}
	for _, q := range SeedQuestions() {
		assert.False(t, seen[q.ID], "duplicate id for %q", q.Question)
		seen[q.ID] = true
		assert.Contains(t, Companies, q.Company)
		assert.Contains(t, Difficulties, q.Difficulty)
		assert.Contains(t, Categories, q.Category)
	}
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{1, 2}, []float32{2, 4}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{1, 0}, []float32{-1, 0}))
	assert.Equal(t, 0.0, cosine([]float32{1}, []float32{1, 0}))
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 0}))
}

func TestReferenceQuestionEmbeddingText(t *testing.T) {
	q := ReferenceQuestion{Company: "Stripe", Role: "Software Engineer", Question: "Implement a rate limiter.", Category: CategoryCoding, Difficulty: DifficultyMedium}
	assert.Equal(t,
		"Company: Stripe. Role: Software Engineer. Question: Implement a rate limiter.. Category: CODING. Difficulty: MEDIUM",
		q.EmbeddingText())
}
