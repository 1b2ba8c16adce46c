package usage

import "time"

const (
	defaultPlan   = "Starter"
	defaultLimit  = 20
	defaultWindow = 7 * 24 * time.Hour
)

// Policy describes the allowance granted to every user.
type Policy struct {
	Plan   string
	Limit  int
	Window time.Duration
}

// DefaultPolicy returns the weekly question-generation allowance.
func DefaultPolicy() Policy {
	return Policy{Plan: defaultPlan, Limit: defaultLimit, Window: defaultWindow}
}

func (p Policy) normalized() Policy {
	if p.Plan == "" {
		p.Plan = defaultPlan
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Window <= 0 {
		p.Window = defaultWindow
	}
	return p
}

func (p Policy) fresh(now time.Time) Usage {
	return Usage{
		Plan:     p.Plan,
		Limit:    p.Limit,
		Used:     0,
		ResetsAt: now.Add(p.Window),
	}
}

func expired(u Usage, now time.Time) bool {
	return !now.Before(u.ResetsAt)
}
