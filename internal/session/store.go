package session

import (
	"context"
	"errors"
	"sync"
)

var ErrEmptyID = errors.New("session id is empty")

// Store persists sessions between connections. Load returns a fresh
// session for an id it has never seen.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore keeps sessions in process memory; they are lost on restart.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (m *memoryStore) Load(_ context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s.Clone(), nil
	}
	return New(id), nil
}

func (m *memoryStore) Save(_ context.Context, s *Session) error {
	if s.ID == "" {
		return ErrEmptyID
	}
	m.mu.Lock()
	m.sessions[s.ID] = s.Clone()
	m.mu.Unlock()
	return nil
}
