package usage

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

const (
	// Seeding the row first lets concurrent first requests share one SELECT ... FOR UPDATE.
	seedUsageSQL = `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO NOTHING`

	lockUsageSQL = `SELECT used, resets_at FROM usage WHERE user_id = $1 FOR UPDATE`

	saveUsageSQL = `
UPDATE usage SET plan = $2, limit_amount = $3, used = $4, resets_at = $5
WHERE user_id = $1`

	resetUsageSQL = `
INSERT INTO usage (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO UPDATE
SET plan = EXCLUDED.plan, limit_amount = EXCLUDED.limit_amount, used = 0, resets_at = EXCLUDED.resets_at`
)

// pgStore keeps one row per user. Plan and limit always come from the
// configured policy; the row only carries the window position.
type pgStore struct {
	db     *sql.DB
	policy Policy
	now    func() time.Time
}

func newPGStore(db *sql.DB, policy Policy, now func() time.Time) *pgStore {
	return &pgStore{db: db, policy: policy, now: now}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	return s.inTx(ctx, func(tx *sql.Tx) (Usage, error) {
		return s.current(ctx, tx, userID)
	})
}

func (s *pgStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	return s.Get(ctx, userID)
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	return s.inTx(ctx, func(tx *sql.Tx) (Usage, error) {
		u, err := s.current(ctx, tx, userID)
		if err != nil || n <= 0 {
			return u, err
		}
		if u.Used+n > u.Limit {
			return Usage{}, ErrLimitReached
		}
		u.Used += n
		return u, s.save(ctx, tx, userID, u)
	})
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	u := s.policy.fresh(s.now().UTC())
	if _, err := s.db.ExecContext(ctx, resetUsageSQL, userID, u.Plan, u.Limit, u.ResetsAt); err != nil {
		return Usage{}, fmt.Errorf("reset usage: %w", err)
	}
	return u, nil
}

// current locks the user's row and rolls the window forward when it has lapsed.
func (s *pgStore) current(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	now := s.now().UTC()
	fresh := s.policy.fresh(now)
	if _, err := tx.ExecContext(ctx, seedUsageSQL, userID, fresh.Plan, fresh.Limit, fresh.ResetsAt); err != nil {
		return Usage{}, fmt.Errorf("seed usage: %w", err)
	}

	u := Usage{Plan: s.policy.Plan, Limit: s.policy.Limit}
	if err := tx.QueryRowContext(ctx, lockUsageSQL, userID).Scan(&u.Used, &u.ResetsAt); err != nil {
		return Usage{}, fmt.Errorf("lock usage: %w", err)
	}
	if expired(u, now) {
		u = fresh
		if err := s.save(ctx, tx, userID, u); err != nil {
			return Usage{}, err
		}
	}
	return u, nil
}

func (s *pgStore) save(ctx context.Context, tx *sql.Tx, userID string, u Usage) error {
	if _, err := tx.ExecContext(ctx, saveUsageSQL, userID, u.Plan, u.Limit, u.Used, u.ResetsAt); err != nil {
		return fmt.Errorf("save usage: %w", err)
	}
	return nil
}

func (s *pgStore) inTx(ctx context.Context, fn func(tx *sql.Tx) (Usage, error)) (Usage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	u, err := fn(tx)
	if err != nil {
		_ = tx.Rollback()
		return Usage{}, err
	}
	if err := tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}
