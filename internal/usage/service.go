package usage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

type store interface {
	Get(ctx context.Context, userID string) (Usage, error)
	EnsurePeriod(ctx context.Context, userID string) (Usage, error)
	Consume(ctx context.Context, userID string, n int) (Usage, error)
	Reset(ctx context.Context, userID string) (Usage, error)
}

// Service manages usage data via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService(policy Policy) *Service {
	return &Service{store: newMemoryStore(policy.normalized(), time.Now)}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(db *sql.DB, policy Policy) *Service {
	return &Service{store: newPGStore(db, policy.normalized(), time.Now)}
}

// Get returns the current usage for a user, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	if err := requireUser(userID); err != nil {
		return Usage{}, err
	}
	return s.store.Get(ctx, userID)
}

// EnsurePeriod resets usage if the period has expired.
func (s *Service) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	if err := requireUser(userID); err != nil {
		return Usage{}, err
	}
	return s.store.EnsurePeriod(ctx, userID)
}

// CanConsume reports whether the user can consume n units.
func (s *Service) CanConsume(ctx context.Context, userID string, n int) (bool, Usage, error) {
	u, err := s.EnsurePeriod(ctx, userID)
	if err != nil {
		return false, Usage{}, err
	}
	if n <= 0 {
		return true, u, nil
	}
	return u.Used+n <= u.Limit, u, nil
}

// Consume increments usage by n if within limit, otherwise returns ErrLimitReached.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if err := requireUser(userID); err != nil {
		return Usage{}, err
	}
	return s.store.Consume(ctx, userID, n)
}

// Reset sets usage to zero and restarts the window.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := requireUser(userID); err != nil {
		return Usage{}, err
	}
	return s.store.Reset(ctx, userID)
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return nil
}
