// Package resilience wraps record stores in a circuit breaker so a failing
// backend is shed quickly instead of stalling every request.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	"devdash-backend/domain/snippet"
	apperrors "devdash-backend/pkg/errors"
)

type Settings struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// Breaker trips once the failure ratio over Interval reaches
// FailureThreshold with at least MinRequests seen.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	name   string
	logger *zap.Logger
}

func NewBreaker(s Settings, logger *zap.Logger) *Breaker {
	b := &Breaker{name: s.Name, logger: logger}
	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
		IsSuccessful: countsAsSuccess,
	})
	return b
}

func (b *Breaker) State() gobreaker.State { return b.cb.State() }

// countsAsSuccess keeps caller mistakes from tripping the breaker: only
// backend failures count.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, ports.ErrRecordNotFound) || errors.Is(err, context.Canceled) {
		return true
	}
	switch {
	case apperrors.IsNotFound(err), apperrors.IsValidation(err), apperrors.IsConflict(err), apperrors.IsForbidden(err):
		return true
	}
	return false
}

func run[T any](b *Breaker, fn func() (T, error)) (T, error) {
	out, err := b.cb.Execute(func() (any, error) { return fn() })
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		b.logger.Debug("request rejected by circuit breaker", zap.String("breaker", b.name), zap.Error(err))
		var zero T
		return zero, apperrors.NewUnavailableError(b.name).WithCause(err)
	}
	v, _ := out.(T)
	return v, err
}

func exec(b *Breaker, fn func() error) error {
	_, err := run(b, func() (struct{}, error) { return struct{}{}, fn() })
	return err
}

// IdeaMapStore guards a ports.IdeaMapStore.
type IdeaMapStore struct {
	inner ports.IdeaMapStore
	b     *Breaker
}

func NewIdeaMapStore(inner ports.IdeaMapStore, b *Breaker) *IdeaMapStore {
	return &IdeaMapStore{inner: inner, b: b}
}

func (s *IdeaMapStore) ReadOne(ctx context.Context) (*ideamap.Document, error) {
	return run(s.b, func() (*ideamap.Document, error) { return s.inner.ReadOne(ctx) })
}

func (s *IdeaMapStore) Update(ctx context.Context, id string, f ideamap.DocumentFields) error {
	return exec(s.b, func() error { return s.inner.Update(ctx, id, f) })
}

func (s *IdeaMapStore) Create(ctx context.Context) (*ideamap.Document, error) {
	return run(s.b, func() (*ideamap.Document, error) { return s.inner.Create(ctx) })
}

type SnippetRepository struct {
	inner ports.SnippetRepository
	b     *Breaker
}

func NewSnippetRepository(inner ports.SnippetRepository, b *Breaker) *SnippetRepository {
	return &SnippetRepository{inner: inner, b: b}
}

func (r *SnippetRepository) List(ctx context.Context) ([]*snippet.Snippet, error) {
	return run(r.b, func() ([]*snippet.Snippet, error) { return r.inner.List(ctx) })
}

func (r *SnippetRepository) Create(ctx context.Context, s *snippet.Snippet) error {
	return exec(r.b, func() error { return r.inner.Create(ctx, s) })
}

func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	return exec(r.b, func() error { return r.inner.Delete(ctx, id) })
}

func (r *SnippetRepository) Count(ctx context.Context) (int, error) {
	return run(r.b, func() (int, error) { return r.inner.Count(ctx) })
}

type NoteRepository struct {
	inner ports.NoteRepository
	b     *Breaker
}

func NewNoteRepository(inner ports.NoteRepository, b *Breaker) *NoteRepository {
	return &NoteRepository{inner: inner, b: b}
}

func (r *NoteRepository) ListVisible(ctx context.Context, v note.Viewer) ([]*note.Note, error) {
	return run(r.b, func() ([]*note.Note, error) { return r.inner.ListVisible(ctx, v) })
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*note.Note, error) {
	return run(r.b, func() (*note.Note, error) { return r.inner.GetByID(ctx, id) })
}

func (r *NoteRepository) GetShared(ctx context.Context, token string) (*note.Note, error) {
	return run(r.b, func() (*note.Note, error) { return r.inner.GetShared(ctx, token) })
}

func (r *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	return exec(r.b, func() error { return r.inner.Create(ctx, n) })
}

func (r *NoteRepository) UpdateSharing(ctx context.Context, id string, shared bool, token string) error {
	return exec(r.b, func() error { return r.inner.UpdateSharing(ctx, id, shared, token) })
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	return exec(r.b, func() error { return r.inner.Delete(ctx, id) })
}

var (
	_ ports.IdeaMapStore      = (*IdeaMapStore)(nil)
	_ ports.SnippetRepository = (*SnippetRepository)(nil)
	_ ports.NoteRepository    = (*NoteRepository)(nil)
)
