package supabase

import (
	"context"

	supa "github.com/supabase-community/supabase-go"

	"devdash-backend/application/ports"
	"devdash-backend/domain/snippet"
	apperrors "devdash-backend/pkg/errors"
)

type SnippetRepository struct {
	client *supa.Client
	table  string
}

func NewSnippetRepository(client *supa.Client, table string) *SnippetRepository {
	return &SnippetRepository{client: client, table: table}
}

func (r *SnippetRepository) List(ctx context.Context) ([]*snippet.Snippet, error) {
	var items []*snippet.Snippet
	_, err := r.client.From(r.table).
		Select("*", "", false).
		Order("created_at", newestFirst()).
		ExecuteTo(&items)
	if err != nil {
		return nil, apperrors.NewDatabaseError("select snippets", err)
	}
	return items, nil
}

func (r *SnippetRepository) Create(ctx context.Context, s *snippet.Snippet) error {
	_, _, err := r.client.From(r.table).
		Insert(s, false, "", "minimal", "").
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("insert snippet", err)
	}
	return nil
}

func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	var rows []snippet.Snippet
	_, err := r.client.From(r.table).
		Delete("representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return apperrors.NewDatabaseError("delete snippet", err)
	}
	if len(rows) == 0 {
		return apperrors.NewNotFoundError("snippet")
	}
	return nil
}

// Count asks PostgREST for an exact row count without fetching rows.
func (r *SnippetRepository) Count(ctx context.Context) (int, error) {
	_, count, err := r.client.From(r.table).
		Select("id", "exact", true).
		Execute()
	if err != nil {
		return 0, apperrors.NewDatabaseError("count snippets", err)
	}
	return int(count), nil
}

var _ ports.SnippetRepository = (*SnippetRepository)(nil)
