package health

import (
	"context"
	"time"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Report is the body of GET /health.
type Report struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
	Database    string    `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	env     string
	db      Pinger
	started time.Time
	now     func() time.Time
}

// NewService constructs a new health service. db may be nil when running on memory stores.
func NewService(env string, db Pinger) *Service {
	return &Service{env: env, db: db, started: time.Now(), now: time.Now}
}

// Status reports liveness, uptime in seconds and the database state.
func (s *Service) Status(ctx context.Context) Report {
	now := s.now()
	r := Report{
		Status:      "ok",
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(s.started).Seconds(),
		Environment: s.env,
		Database:    "memory",
	}
	if s.db != nil {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err != nil {
			r.Status = "degraded"
			r.Database = "unreachable"
		} else {
			r.Database = "ok"
		}
	}
	return r
}
