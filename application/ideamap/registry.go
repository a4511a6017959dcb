package ideamap

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	domain "devdash-backend/domain/ideamap"
	apperrors "devdash-backend/pkg/errors"
)

// RegistryConfig bounds how many sessions are kept and for how long.
type RegistryConfig struct {
	IdleTimeout time.Duration
	MaxSessions int
	Clock       func() time.Time
}

// Registry hands out editing sessions by id.
type Registry struct {
	store     ports.IdeaMapStore
	publisher ports.EventPublisher
	logger    *zap.Logger
	cfg       RegistryConfig
	opts      []Option
	clock     func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(store ports.IdeaMapStore, publisher ports.EventPublisher, logger *zap.Logger, cfg RegistryConfig, opts ...Option) *Registry {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = 30 * time.Minute
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = 100
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Registry{
		store:     store,
		publisher: publisher,
		logger:    logger,
		cfg:       cfg,
		opts:      opts,
		clock:     cfg.Clock,
		sessions:  make(map[string]*Session),
	}
}

// Open starts a session and loads the stored graph into it. A failed load
// still returns the session; it starts empty and carries an error notice.
func (r *Registry) Open(ctx context.Context) (*Session, error) {
	r.evictIdle()

	r.mu.Lock()
	if len(r.sessions) >= r.cfg.MaxSessions {
		r.mu.Unlock()
		return nil, apperrors.NewRateLimitError(r.cfg.MaxSessions, "open editor sessions")
	}
	opts := append([]Option{WithPublisher(r.publisher)}, r.opts...)
	s := NewSession(uuid.NewString(), r.store, r.logger, opts...)
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	if err := s.Load(ctx); err != nil {
		r.logger.Warn("session opened without stored map", zap.String("session_id", s.ID()), zap.Error(err))
	}
	return s, nil
}

// Get returns an open session.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("session " + id)
	}
	return s, nil
}

// Close closes and forgets a session.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return apperrors.NewNotFoundError("session " + id)
	}
	s.Close()
	return nil
}

// CloseAll closes every session, used on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) evictIdle() {
	cutoff := r.clock().Add(-r.cfg.IdleTimeout)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.LastUsed().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
		r.logger.Debug("evicted idle session", zap.String("session_id", s.ID()))
	}
}

// Bootstrap makes sure an idea-map record exists, creating an empty one when
// the store has none. It reports whether a record was created.
func Bootstrap(ctx context.Context, store ports.IdeaMapStore, logger *zap.Logger) (*domain.Document, bool, error) {
	doc, err := store.ReadOne(ctx)
	if err == nil {
		return doc, false, nil
	}
	if !errors.Is(err, ports.ErrRecordNotFound) {
		return nil, false, apperrors.NewDatabaseError("read idea map", err)
	}
	doc, err = store.Create(ctx)
	if err != nil {
		return nil, false, apperrors.NewDatabaseError("create idea map", err)
	}
	logger.Info("created idea map record", zap.String("record_id", doc.ID))
	return doc, true, nil
}
