package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oksasatya/go-ecommerce-api/internal/domain/entity"
	"github.com/oksasatya/go-ecommerce-api/internal/domain/repository"
)

type sessionEntry struct {
	s         entity.Session
	expiresAt time.Time
}

// SessionRepository keeps sessions in process. It is used when Redis is not
// configured and in tests.
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[string]sessionEntry
	// Clock defaults to time.Now.
	Clock func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: map[string]sessionEntry{}, Clock: time.Now}
}

func (r *SessionRepository) live(id string) (sessionEntry, bool) {
	e, ok := r.sessions[id]
	if !ok {
		return e, false
	}
	if !r.Clock().Before(e.expiresAt) {
		delete(r.sessions, id)
		return e, false
	}
	return e, true
}

func (r *SessionRepository) Save(_ context.Context, s *entity.Session, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = sessionEntry{s: *s, expiresAt: r.Clock().Add(ttl)}
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	s := e.s
	return &s, nil
}

func (r *SessionRepository) Rotate(_ context.Context, id, oldRefreshID, newRefreshID string, ttl time.Duration) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.live(id)
	if !ok || e.s.RefreshID != oldRefreshID {
		return false, nil
	}
	e.s.RefreshID = newRefreshID
	e.expiresAt = r.Clock().Add(ttl)
	r.sessions[id] = e
	return true, nil
}

func (r *SessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
	return nil
}

var _ repository.SessionRepository = (*SessionRepository)(nil)
