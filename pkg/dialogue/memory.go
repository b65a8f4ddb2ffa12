package dialogue

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/graphbot/pkg/errors"
)

// MemoryStore keeps dialogue state in process memory.
// It is safe for concurrent use and suited to single-instance deployments
// and tests.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]State
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore creates an in-memory store. A zero ttl keeps states forever.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		states: make(map[string]State),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *MemoryStore) Get(ctx context.Context, sessionID string) (State, error) {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return State{}, err
	}
	s.mu.RLock()
	st, ok := s.states[sessionID]
	s.mu.RUnlock()

	if !ok {
		return StartState(), nil
	}
	if st.expired(s.ttl, s.now()) {
		s.mu.Lock()
		delete(s.states, sessionID)
		s.mu.Unlock()
		return StartState(), nil
	}
	return st.normalize(), nil
}

func (s *MemoryStore) Set(ctx context.Context, sessionID string, state State) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = s.now()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sessionID] = state
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	if err := errors.ValidateSessionID(sessionID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sessionID)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.states)
}

// Cleanup removes expired sessions.
func (s *MemoryStore) Cleanup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, st := range s.states {
		if st.expired(s.ttl, now) {
			delete(s.states, id)
		}
	}
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
