package questionbank

import (
	"context"
	"math"
	"sort"
	"sync"
)

type memoryQuestion struct {
	question ReferenceQuestion
	vector   []float32
	seq      int
}

type memoryResume struct {
	resume ResumeVector
	vector []float32
}

// MemoryIndex is an in-process Index using brute-force cosine similarity.
type MemoryIndex struct {
	mu        sync.RWMutex
	seq       int
	questions map[string]memoryQuestion
	resumes   map[string]memoryResume
}

// NewMemoryIndex constructs an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		questions: make(map[string]memoryQuestion),
		resumes:   make(map[string]memoryResume),
	}
}

// UpsertQuestions stores or replaces questions by id.
func (m *MemoryIndex) UpsertQuestions(ctx context.Context, questions []ReferenceQuestion, vectors [][]float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(questions) != len(vectors) {
		return ErrDimensionMismatch
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, q := range questions {
		seq := m.seq
		if existing, ok := m.questions[q.ID]; ok {
			seq = existing.seq
		} else {
			m.seq++
		}
		m.questions[q.ID] = memoryQuestion{question: q, vector: vectors[i], seq: seq}
	}
	return nil
}

// QueryQuestions scores every stored question that passes the filters.
func (m *MemoryIndex) QueryQuestions(ctx context.Context, vector []float32, opts SearchOptions) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	type scored struct {
		match Match
		seq   int
	}
	var hits []scored
	for _, entry := range m.questions {
		q := entry.question
		if !matchesFilter(opts.Company, q.Company) || !matchesFilter(opts.Role, q.Role) {
			continue
		}
		score := cosine(vector, entry.vector)
		if score < opts.MinScore {
			continue
		}
		hits = append(hits, scored{match: Match{ReferenceQuestion: q, Score: score}, seq: entry.seq})
	}
	m.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].match.Score != hits[j].match.Score {
			return hits[i].match.Score > hits[j].match.Score
		}
		return hits[i].seq < hits[j].seq
	})
	if opts.Limit > 0 && len(hits) > opts.Limit {
		hits = hits[:opts.Limit]
	}
	out := make([]Match, len(hits))
	for i, h := range hits {
		out[i] = h.match
	}
	return out, nil
}

// UpsertResume stores or replaces a résumé vector.
func (m *MemoryIndex) UpsertResume(ctx context.Context, vectorID string, v ResumeVector, vector []float32) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumes[vectorID] = memoryResume{resume: v, vector: vector}
	return nil
}

// DeleteResume removes a résumé vector if present.
func (m *MemoryIndex) DeleteResume(ctx context.Context, vectorID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.resumes, vectorID)
	return nil
}

// HasResume reports whether a résumé vector is stored.
func (m *MemoryIndex) HasResume(vectorID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.resumes[vectorID]
	return ok
}

// cosine returns the cosine similarity clamped to [0, 1]; mismatched or zero vectors score 0.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	s := dot / (math.Sqrt(na) * math.Sqrt(nb))
	return math.Max(0, math.Min(1, s))
}

var _ Index = (*MemoryIndex)(nil)
