package ports

import (
	"context"
	"errors"

	"devdash-backend/domain/events"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	"devdash-backend/domain/snippet"
)

// ErrRecordNotFound is returned by IdeaMapStore.ReadOne when no idea-map
// record exists yet.
var ErrRecordNotFound = errors.New("idea map record not found")

// IdeaMapStore persists the single idea-map document.
type IdeaMapStore interface {
	// ReadOne returns the first idea-map record, or ErrRecordNotFound.
	ReadOne(ctx context.Context) (*ideamap.Document, error)

	// Update overwrites nodes, edges and updated_at of the record with id.
	Update(ctx context.Context, id string, fields ideamap.DocumentFields) error

	// Create inserts an empty record and returns it.
	Create(ctx context.Context) (*ideamap.Document, error)
}

// SnippetRepository persists code snippets.
type SnippetRepository interface {
	// List returns every snippet, newest first.
	List(ctx context.Context) ([]*snippet.Snippet, error)
	Create(ctx context.Context, s *snippet.Snippet) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// NoteRepository persists study notes.
type NoteRepository interface {
	// ListVisible returns the notes v may read, newest first: shared notes
	// plus, for a signed-in viewer, their own.
	ListVisible(ctx context.Context, v note.Viewer) ([]*note.Note, error)
	GetByID(ctx context.Context, id string) (*note.Note, error)
	// GetShared returns the shared note carrying token.
	GetShared(ctx context.Context, token string) (*note.Note, error)
	Create(ctx context.Context, n *note.Note) error
	// UpdateSharing writes is_shared and share_token.
	UpdateSharing(ctx context.Context, id string, shared bool, token string) error
	Delete(ctx context.Context, id string) error
}

// EventPublisher sends domain events to the outside world.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
