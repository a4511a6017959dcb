// Package tracing decorates record stores with OpenTelemetry spans and
// per-operation timings.
package tracing

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	"devdash-backend/domain/snippet"
)

// Observer receives the outcome of every store call.
type Observer interface {
	ObserveStore(operation string, d time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveStore(string, time.Duration, error) {}

type tracer struct {
	t        trace.Tracer
	observer Observer
	driver   string
}

func newTracer(t trace.Tracer, o Observer, driver string) tracer {
	if o == nil {
		o = nopObserver{}
	}
	return tracer{t: t, observer: o, driver: driver}
}

func (tr tracer) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	attrs = append(attrs, attribute.String("db.system", tr.driver))
	ctx, span := tr.t.Start(ctx, "store."+op, trace.WithAttributes(attrs...), trace.WithSpanKind(trace.SpanKindClient))
	began := time.Now()
	return ctx, func(err error) {
		tr.observer.ObserveStore(op, time.Since(began), err)
		if err != nil && !errors.Is(err, ports.ErrRecordNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}

type IdeaMapStore struct {
	inner ports.IdeaMapStore
	tr    tracer
}

func NewIdeaMapStore(inner ports.IdeaMapStore, t trace.Tracer, o Observer, driver string) *IdeaMapStore {
	return &IdeaMapStore{inner: inner, tr: newTracer(t, o, driver)}
}

func (s *IdeaMapStore) ReadOne(ctx context.Context) (doc *ideamap.Document, err error) {
	ctx, end := s.tr.start(ctx, "ideamap.read_one")
	defer func() { end(err) }()
	return s.inner.ReadOne(ctx)
}

func (s *IdeaMapStore) Update(ctx context.Context, id string, f ideamap.DocumentFields) (err error) {
	ctx, end := s.tr.start(ctx, "ideamap.update",
		attribute.String("ideamap.id", id),
		attribute.Int("ideamap.nodes", len(f.Nodes)),
		attribute.Int("ideamap.edges", len(f.Edges)))
	defer func() { end(err) }()
	return s.inner.Update(ctx, id, f)
}

func (s *IdeaMapStore) Create(ctx context.Context) (doc *ideamap.Document, err error) {
	ctx, end := s.tr.start(ctx, "ideamap.create")
	defer func() { end(err) }()
	return s.inner.Create(ctx)
}

type SnippetRepository struct {
	inner ports.SnippetRepository
	tr    tracer
}

func NewSnippetRepository(inner ports.SnippetRepository, t trace.Tracer, o Observer, driver string) *SnippetRepository {
	return &SnippetRepository{inner: inner, tr: newTracer(t, o, driver)}
}

func (r *SnippetRepository) List(ctx context.Context) (out []*snippet.Snippet, err error) {
	ctx, end := r.tr.start(ctx, "snippet.list")
	defer func() { end(err) }()
	return r.inner.List(ctx)
}

func (r *SnippetRepository) Create(ctx context.Context, s *snippet.Snippet) (err error) {
	ctx, end := r.tr.start(ctx, "snippet.create", attribute.String("snippet.id", s.ID))
	defer func() { end(err) }()
	return r.inner.Create(ctx, s)
}

func (r *SnippetRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, end := r.tr.start(ctx, "snippet.delete", attribute.String("snippet.id", id))
	defer func() { end(err) }()
	return r.inner.Delete(ctx, id)
}

func (r *SnippetRepository) Count(ctx context.Context) (n int, err error) {
	ctx, end := r.tr.start(ctx, "snippet.count")
	defer func() { end(err) }()
	return r.inner.Count(ctx)
}

type NoteRepository struct {
	inner ports.NoteRepository
	tr    tracer
}

func NewNoteRepository(inner ports.NoteRepository, t trace.Tracer, o Observer, driver string) *NoteRepository {
	return &NoteRepository{inner: inner, tr: newTracer(t, o, driver)}
}

func (r *NoteRepository) ListVisible(ctx context.Context, v note.Viewer) (out []*note.Note, err error) {
	ctx, end := r.tr.start(ctx, "note.list_visible", attribute.Bool("viewer.anonymous", v.Anonymous()))
	defer func() { end(err) }()
	return r.inner.ListVisible(ctx, v)
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (n *note.Note, err error) {
	ctx, end := r.tr.start(ctx, "note.get", attribute.String("note.id", id))
	defer func() { end(err) }()
	return r.inner.GetByID(ctx, id)
}

func (r *NoteRepository) GetShared(ctx context.Context, token string) (n *note.Note, err error) {
	ctx, end := r.tr.start(ctx, "note.get_shared")
	defer func() { end(err) }()
	return r.inner.GetShared(ctx, token)
}

func (r *NoteRepository) Create(ctx context.Context, n *note.Note) (err error) {
	ctx, end := r.tr.start(ctx, "note.create", attribute.String("note.id", n.ID))
	defer func() { end(err) }()
	return r.inner.Create(ctx, n)
}

func (r *NoteRepository) UpdateSharing(ctx context.Context, id string, shared bool, token string) (err error) {
	ctx, end := r.tr.start(ctx, "note.update_sharing", attribute.String("note.id", id), attribute.Bool("note.shared", shared))
	defer func() { end(err) }()
	return r.inner.UpdateSharing(ctx, id, shared, token)
}

func (r *NoteRepository) Delete(ctx context.Context, id string) (err error) {
	ctx, end := r.tr.start(ctx, "note.delete", attribute.String("note.id", id))
	defer func() { end(err) }()
	return r.inner.Delete(ctx, id)
}

var (
	_ ports.IdeaMapStore      = (*IdeaMapStore)(nil)
	_ ports.SnippetRepository = (*SnippetRepository)(nil)
	_ ports.NoteRepository    = (*NoteRepository)(nil)
)
