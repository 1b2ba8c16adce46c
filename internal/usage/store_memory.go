package usage

import (
	"context"
	"sync"
	"time"
)

type memoryStore struct {
	mu     sync.Mutex
	policy Policy
	now    func() time.Time
	data   map[string]Usage
}

func newMemoryStore(policy Policy, now func() time.Time) *memoryStore {
	return &memoryStore{
		policy: policy,
		now:    now,
		data:   make(map[string]Usage),
	}
}

func (s *memoryStore) Get(ctx context.Context, userID string) (Usage, error) {
	return s.EnsurePeriod(ctx, userID)
}

func (s *memoryStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current(userID), nil
}

// current must be called with mu held.
func (s *memoryStore) current(userID string) Usage {
	now := s.now().UTC()
	u, ok := s.data[userID]
	if !ok {
		u = s.policy.fresh(now)
	}
	if expired(u, now) {
		u = s.policy.fresh(now)
	}
	u.Plan, u.Limit = s.policy.Plan, s.policy.Limit
	s.data[userID] = u
	return u
}

func (s *memoryStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.current(userID)
	if n <= 0 {
		return u, nil
	}
	if u.Used+n > u.Limit {
		return Usage{}, ErrLimitReached
	}
	u.Used += n
	s.data[userID] = u
	return u, nil
}

func (s *memoryStore) Reset(ctx context.Context, userID string) (Usage, error) {
	if err := ctx.Err(); err != nil {
		return Usage{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.policy.fresh(s.now().UTC())
	s.data[userID] = u
	return u, nil
}
