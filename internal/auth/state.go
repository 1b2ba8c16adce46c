package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const loginStateTTL = 5 * time.Minute

// pendingLogin is an OAuth round trip that has left for Google but not come back.
type pendingLogin struct {
	verifier string
	expires  time.Time
}

// stateStore holds single-use OAuth states with their PKCE verifiers.
// It lives in process memory, so a callback must reach the instance that issued the state.
type stateStore struct {
	mu    sync.Mutex
	items map[string]pendingLogin
	ttl   time.Duration
	now   func() time.Time
}

func newStateStore(ttl time.Duration, now func() time.Time) *stateStore {
	return &stateStore{items: make(map[string]pendingLogin), ttl: ttl, now: now}
}

// issue records a fresh state and returns it with its verifier. Expired entries are swept.
func (s *stateStore) issue() (state, verifier string) {
	state = uuid.NewString()
	verifier = oauth2.GenerateVerifier()

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, p := range s.items {
		if now.After(p.expires) {
			delete(s.items, k)
		}
	}
	s.items[state] = pendingLogin{verifier: verifier, expires: now.Add(s.ttl)}
	return state, verifier
}

// take removes the state and reports whether it was still valid.
func (s *stateStore) take(state string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[state]
	delete(s.items, state)
	if !ok || s.now().After(p.expires) {
		return "", false
	}
	return p.verifier, true
}

func (s *stateStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
