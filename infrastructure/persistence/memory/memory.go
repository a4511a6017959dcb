// Package memory keeps every record in process memory. It backs development
// runs and tests, and holds snippets and notes for drivers that only store the
// idea map.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	"devdash-backend/domain/snippet"
	apperrors "devdash-backend/pkg/errors"
)

// IdeaMapStore holds at most one idea-map document.
type IdeaMapStore struct {
	mu  sync.RWMutex
	doc *ideamap.Document
}

func NewIdeaMapStore() *IdeaMapStore {
	return &IdeaMapStore{}
}

func (s *IdeaMapStore) ReadOne(context.Context) (*ideamap.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.doc == nil {
		return nil, ports.ErrRecordNotFound
	}
	return cloneDocument(s.doc), nil
}

func (s *IdeaMapStore) Update(_ context.Context, id string, f ideamap.DocumentFields) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc == nil || s.doc.ID != id {
		return apperrors.NewNotFoundError("idea map " + id)
	}
	s.doc = cloneDocument(&ideamap.Document{ID: id, Nodes: f.Nodes, Edges: f.Edges, UpdatedAt: f.UpdatedAt})
	return nil
}

func (s *IdeaMapStore) Create(context.Context) (*ideamap.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.doc != nil {
		return nil, apperrors.NewConflictError("idea map record already exists")
	}
	s.doc = &ideamap.Document{ID: uuid.NewString(), Nodes: []ideamap.NodeRecord{}, Edges: []ideamap.EdgeRecord{}}
	return cloneDocument(s.doc), nil
}

func cloneDocument(d *ideamap.Document) *ideamap.Document {
	cp := *d
	cp.Nodes = append([]ideamap.NodeRecord{}, d.Nodes...)
	cp.Edges = append([]ideamap.EdgeRecord{}, d.Edges...)
	return &cp
}

type SnippetRepository struct {
	mu    sync.RWMutex
	items map[string]snippet.Snippet
}

func NewSnippetRepository() *SnippetRepository {
	return &SnippetRepository{items: make(map[string]snippet.Snippet)}
}

func (r *SnippetRepository) List(context.Context) ([]*snippet.Snippet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*snippet.Snippet, 0, len(r.items))
	for _, s := range r.items {
		s := s
		out = append(out, &s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *SnippetRepository) Create(_ context.Context, s *snippet.Snippet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[s.ID]; exists {
		return apperrors.NewConflictError("snippet " + s.ID + " already exists")
	}
	r.items[s.ID] = *s
	return nil
}

func (r *SnippetRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFoundError("snippet")
	}
	delete(r.items, id)
	return nil
}

func (r *SnippetRepository) Count(context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

type NoteRepository struct {
	mu    sync.RWMutex
	items map[string]note.Note
}

func NewNoteRepository() *NoteRepository {
	return &NoteRepository{items: make(map[string]note.Note)}
}

func (r *NoteRepository) ListVisible(_ context.Context, v note.Viewer) ([]*note.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*note.Note, 0, len(r.items))
	for _, n := range r.items {
		n := n
		if n.VisibleTo(v) {
			out = append(out, &n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *NoteRepository) GetByID(_ context.Context, id string) (*note.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.items[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("note")
	}
	return &n, nil
}

func (r *NoteRepository) GetShared(_ context.Context, token string) (*note.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.items {
		if n.IsShared && n.ShareToken == token {
			n := n
			return &n, nil
		}
	}
	return nil, apperrors.NewNotFoundError("shared note")
}

func (r *NoteRepository) Create(_ context.Context, n *note.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[n.ID]; exists {
		return apperrors.NewConflictError("note " + n.ID + " already exists")
	}
	r.items[n.ID] = *n
	return nil
}

func (r *NoteRepository) UpdateSharing(_ context.Context, id string, shared bool, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.items[id]
	if !ok {
		return apperrors.NewNotFoundError("note")
	}
	n.IsShared = shared
	n.ShareToken = token
	r.items[id] = n
	return nil
}

func (r *NoteRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return apperrors.NewNotFoundError("note")
	}
	delete(r.items, id)
	return nil
}

var (
	_ ports.IdeaMapStore      = (*IdeaMapStore)(nil)
	_ ports.SnippetRepository = (*SnippetRepository)(nil)
	_ ports.NoteRepository    = (*NoteRepository)(nil)
)
