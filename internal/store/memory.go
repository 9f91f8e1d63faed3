// apps/go-server/internal/store/memory.go
//
// In-memory registry of live game sessions.
//
// Characteristics:
//   - Stores *game.Session values keyed by session id.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Each iterates a snapshot of the registry so callers may lock sessions
//     (the server ticker does) without holding the registry lock.
//   - State is lost when the process restarts; profiles and daily results are
//     what gets persisted.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/robalobadob/netbreach/apps/go-server/internal/game"
)

// ErrNotFound is returned by Get for unknown ids.
var ErrNotFound = errors.New("session not found")

// Store defines the registry interface for sessions.
type Store interface {
	// Save adds or replaces a session.
	Save(ctx context.Context, s *game.Session) error

	// Get retrieves a session by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*game.Session, error)

	// Delete drops a session. Unknown ids are ignored.
	Delete(ctx context.Context, id string) error

	// Each calls fn for every session.
	Each(fn func(*game.Session))

	// Len is the number of registered sessions.
	Len() int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

func (m *memory) Save(_ context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return nil
}

func (m *memory) Get(_ context.Context, id string) (*game.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memory) Each(fn func(*game.Session)) {
	m.mu.RLock()
	all := make([]*game.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.RUnlock()

	for _, s := range all {
		fn(s)
	}
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
