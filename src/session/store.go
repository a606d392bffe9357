package session

import (
	"context"
	"sync"
	"time"

	"github.com/pullerize/my-main-tasks-sub000/pkg"
)

// Store persists per-user wizard sessions. Implementations must keep user
// keys isolated: no call ever reads or writes another user's session.
type Store interface {
	Get(ctx context.Context, userID int64) (*pkg.Session, error)
	Save(ctx context.Context, session *pkg.Session) error
	Delete(ctx context.Context, userID int64) error
}

// MemoryStore is an in-process implementation for single-instance
// deployments and tests. Sessions expire TTL after their last update.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*pkg.Session
	ttl      time.Duration
}

// NewMemoryStore creates a new in-memory session store
func NewMemoryStore(ttlSeconds int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*pkg.Session),
		ttl:      time.Duration(ttlSeconds) * time.Second,
	}
}

// Get retrieves a session by user ID, expiring it if the TTL has lapsed
func (m *MemoryStore) Get(ctx context.Context, userID int64) (*pkg.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, exists := m.sessions[userID]
	if !exists {
		return nil, pkg.ErrSessionNotFound
	}

	if time.Now().Unix()-session.UpdatedAt > int64(m.ttl.Seconds()) {
		delete(m.sessions, userID)
		return nil, pkg.ErrSessionNotFound
	}

	return session, nil
}

// Save stores or overwrites the user's session
func (m *MemoryStore) Save(ctx context.Context, session *pkg.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().Unix()
	if session.CreatedAt == 0 {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	m.sessions[session.UserID] = session
	return nil
}

// Delete removes the user's session; deleting a missing session is a no-op
func (m *MemoryStore) Delete(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}
