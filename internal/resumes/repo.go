package resumes

import (
	"context"
	"time"
)

// Repo persists résumé records and their pipeline state.
type Repo interface {
	Create(ctx context.Context, r Resume) error
	Get(ctx context.Context, id string) (Resume, error)
	GetForUser(ctx context.Context, userID, id string) (Resume, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Resume, error)
	MarkParsed(ctx context.Context, id, rawText string, data ParsedData, at time.Time) error
	MarkParseFailed(ctx context.Context, id, reason string, at time.Time) error
	MarkIndexed(ctx context.Context, id, vectorID string, at time.Time) error
	MarkIndexFailed(ctx context.Context, id, reason string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountByUser(ctx context.Context, userID string) (int, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
