package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type pingStub struct{ err error }

func (p pingStub) PingContext(context.Context) error { return p.err }

func TestStatus(t *testing.T) {
	start := time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name       string
		db         Pinger
		wantStatus string
		wantDB     string
	}{
		{name: "memory", wantStatus: "ok", wantDB: "memory"},
		{name: "db up", db: pingStub{}, wantStatus: "ok", wantDB: "ok"},
		{name: "db down", db: pingStub{err: errors.New("refused")}, wantStatus: "degraded", wantDB: "unreachable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService("staging", tc.db)
			svc.started = start
			svc.now = func() time.Time { return start.Add(90 * time.Second) }

			r := svc.Status(context.Background())
			if r.Status != tc.wantStatus || r.Database != tc.wantDB {
				t.Fatalf("unexpected report %+v", r)
			}
			if r.Uptime != 90 || r.Environment != "staging" || !r.Timestamp.Equal(start.Add(90*time.Second)) {
				t.Fatalf("unexpected report %+v", r)
			}
		})
	}
}
