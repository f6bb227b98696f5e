package editor

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrBadEvent        = errors.New("bad pointer event")
	ErrBadCamera       = errors.New("unknown camera")
)

// ============================================================
// Registry
// ============================================================

type entry struct {
	mu      sync.Mutex
	session *Session
}

// Registry открытые сессии по id. Каждая сессия защищена своим мьютексом.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry
	log      hclog.Logger
}

func NewRegistry(logger hclog.Logger) *Registry {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Registry{
		sessions: make(map[string]*entry),
		log:      logger.Named("sessions"),
	}
}

func (r *Registry) Open(s *Session) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.NewString()
	r.sessions[id] = &entry{session: s}
	r.log.Debug("session opened", "session", id, "blueprint", s.BlueprintID())
	return id
}

// With выполняет fn под мьютексом сессии.
func (r *Registry) With(id string, fn func(*Session) error) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session == nil {
		return ErrSessionNotFound
	}
	return fn(e.session)
}

// Close удаляет сессию и отписывает её от событий.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.session != nil {
		e.session.Close()
		e.session = nil
	}
	r.log.Debug("session closed", "session", id)
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
