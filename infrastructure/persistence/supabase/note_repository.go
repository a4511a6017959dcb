package supabase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	supa "github.com/supabase-community/supabase-go"

	"devdash-backend/application/ports"
	"devdash-backend/domain/note"
	apperrors "devdash-backend/pkg/errors"
)

// noteRow mirrors the notes table, where user_id and share_token are nullable.
type noteRow struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   string    `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	UserID     *string   `json:"user_id"`
	IsShared   bool      `json:"is_shared"`
	ShareToken *string   `json:"share_token"`
}

func toRow(n *note.Note) noteRow {
	row := noteRow{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Category:  string(n.Category),
		CreatedAt: n.CreatedAt,
		IsShared:  n.IsShared,
	}
	if n.UserID != "" {
		row.UserID = &n.UserID
	}
	if n.ShareToken != "" {
		row.ShareToken = &n.ShareToken
	}
	return row
}

func (r noteRow) toNote() *note.Note {
	n := &note.Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		Category:  note.Category(r.Category),
		CreatedAt: r.CreatedAt,
		IsShared:  r.IsShared,
	}
	if r.UserID != nil {
		n.UserID = *r.UserID
	}
	if r.ShareToken != nil {
		n.ShareToken = *r.ShareToken
	}
	return n
}

func toNotes(rows []noteRow) []*note.Note {
	out := make([]*note.Note, len(rows))
	for i, r := range rows {
		out[i] = r.toNote()
	}
	return out
}

type NoteRepository struct {
	client *supa.Client
	table  string
}

func NewNoteRepository(client *supa.Client, table string) *NoteRepository {
	return &NoteRepository{client: client, table: table}
}

// ListVisible returns shared notes plus the viewer's own. The user id is
// parsed as a UUID before it is placed in the filter expression.
func (r *NoteRepository) ListVisible(ctx context.Context, v note.Viewer) ([]*note.Note, error) {
	q := r.client.From(r.table).Select("*", "", false)
	if v.Anonymous() {
		q = q.Eq("is_shared", "true")
	} else {
		uid, err := uuid.Parse(v.UserID)
		if err != nil {
			return nil, apperrors.NewValidationError("user id is not a UUID")
		}
		q = q.Or(fmt.Sprintf("user_id.eq.%s,is_shared.eq.true", uid), "")
	}

	var rows []noteRow
	if _, err := q.Order("created_at", newestFirst()).ExecuteTo(&rows); err != nil {
		return nil, apperrors.NewDatabaseError("select notes", err)
	}
	return toNotes(rows), nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*note.Note, error) {
	return r.first("select note", "note", func() ([]noteRow, error) {
		var rows []noteRow
		_, err := r.client.From(r.table).Select("*", "", false).Eq("id", id).Limit(1, "").ExecuteTo(&rows)
		return rows, err
	})
}

func (r *NoteRepository) GetShared(ctx context.Context, token string) (*note.Note, error) {
	return r.first("select shared note", "shared note", func() ([]noteRow, error) {
		var rows []noteRow
		_, err := r.client.From(r.table).
			Select("*", "", false).
			Eq("share_token", token).
			Eq("is_shared", "true").
			Limit(1, "").
			ExecuteTo(&rows)
		return rows, err
	})
}

func (r *NoteRepository) first(op, resource string, query func() ([]noteRow, error)) (*note.Note, error) {
	rows, err := query()
	if err != nil {
		return nil, apperrors.NewDatabaseError(op, err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(resource)
	}
	return rows[0].toNote(), nil
}

func (r *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	_, _, err := r.client.From(r.table).
		Insert(toRow(n), false, "", "minimal", "").
		Execute()
	if err != nil {
		return apperrors.NewDatabaseError("insert note", err)
	}
	return nil
}

func (r *NoteRepository) UpdateSharing(ctx context.Context, id string, shared bool, token string) error {
	patch := map[string]any{"is_shared": shared, "share_token": token}
	var rows []noteRow
	_, err := r.client.From(r.table).
		Update(patch, "representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return apperrors.NewDatabaseError("update note sharing", err)
	}
	if len(rows) == 0 {
		return apperrors.NewNotFoundError("note")
	}
	return nil
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	var rows []noteRow
	_, err := r.client.From(r.table).
		Delete("representation", "").
		Eq("id", id).
		ExecuteTo(&rows)
	if err != nil {
		return apperrors.NewDatabaseError("delete note", err)
	}
	if len(rows) == 0 {
		return apperrors.NewNotFoundError("note")
	}
	return nil
}

var _ ports.NoteRepository = (*NoteRepository)(nil)
