package calculator

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrStoreFull       = errors.New("session limit reached")
)

// Store keeps live sessions in memory. Each session has its own lock, so
// keys for one session are applied strictly one at a time while different
// sessions proceed independently.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*storedSession
	limit    int
}

type storedSession struct {
	mu      sync.Mutex
	session *Session
}

// NewStore returns a store holding at most limit sessions; limit <= 0 means
// no limit.
func NewStore(limit int) *Store {
	return &Store{
		sessions: make(map[string]*storedSession),
		limit:    limit,
	}
}

// Create registers a new cleared session and returns its ID.
func (st *Store) Create() (string, Snapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.limit > 0 && len(st.sessions) >= st.limit {
		return "", Snapshot{}, ErrStoreFull
	}

	id := uuid.NewString()
	s := NewSession()
	st.sessions[id] = &storedSession{session: s}
	return id, s.Snapshot(), nil
}

// Get returns a snapshot of the session with the given ID.
func (st *Store) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := st.Do(id, func(s *Session) error {
		snap = s.Snapshot()
		return nil
	})
	return snap, err
}

// Do runs fn with exclusive access to the session.
func (st *Store) Do(id string, fn func(*Session) error) error {
	st.mu.RLock()
	entry, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.session)
}

func (st *Store) Delete(id string) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(st.sessions, id)
	return nil
}

// Len is the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
