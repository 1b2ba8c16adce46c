package resumes

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo for development and tests.
type MemoryRepo struct {
	mu      sync.RWMutex
	resumes map[string]Resume
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{resumes: make(map[string]Resume)}
}

func (r *MemoryRepo) Create(ctx context.Context, res Resume) error {
	if res.ID == "" || res.UserID == "" {
		return ErrInvalidInput
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if res.Status == "" {
		res.Status = StatusCreated
	}
	if res.UpdatedAt.IsZero() {
		res.UpdatedAt = res.CreatedAt
	}
	res.Skills = append([]string(nil), res.Skills...)
	r.resumes[res.ID] = res
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Resume, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.resumes[id]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepo) GetForUser(ctx context.Context, userID, id string) (Resume, error) {
	res, err := r.Get(ctx, id)
	if err != nil {
		return Resume{}, err
	}
	if res.UserID != userID {
		return Resume{}, ErrNotFound
	}
	return res, nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error) {
	limit, offset = clampPage(limit, offset)
	r.mu.RLock()
	var out []Resume
	for _, res := range r.resumes {
		if res.UserID == userID {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []Resume{}, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *MemoryRepo) MarkParsed(ctx context.Context, id, rawText string, data ParsedData, at time.Time) error {
	return r.update(id, func(res *Resume) {
		res.Status = StatusParsed
		res.RawText = rawText
		res.Skills = append([]string(nil), data.Sections.Skills...)
		res.ParsedData = &data
		res.ParseError = ""
		res.UpdatedAt = at
	})
}

func (r *MemoryRepo) MarkParseFailed(ctx context.Context, id, reason string, at time.Time) error {
	return r.update(id, func(res *Resume) {
		res.Status = StatusParseFailed
		res.ParseError = reason
		res.UpdatedAt = at
	})
}

func (r *MemoryRepo) MarkIndexed(ctx context.Context, id, vectorID string, at time.Time) error {
	return r.update(id, func(res *Resume) {
		res.Status = StatusIndexed
		res.VectorID = vectorID
		res.IsIndexed = true
		res.IndexError = ""
		res.UpdatedAt = at
	})
}

func (r *MemoryRepo) MarkIndexFailed(ctx context.Context, id, reason string, at time.Time) error {
	return r.update(id, func(res *Resume) {
		res.Status = StatusIndexFailed
		res.IsIndexed = false
		res.IndexError = reason
		res.UpdatedAt = at
	})
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.resumes[id]; !ok {
		return ErrNotFound
	}
	delete(r.resumes, id)
	return nil
}

func (r *MemoryRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, res := range r.resumes {
		if res.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepo) update(id string, fn func(*Resume)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resumes[id]
	if !ok {
		return ErrNotFound
	}
	fn(&res)
	r.resumes[id] = res
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
