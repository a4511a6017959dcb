package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	"devdash-backend/domain/snippet"
	apperrors "devdash-backend/pkg/errors"
)

type IdeaMapStore struct {
	s *Store
}

// ReadOne returns the oldest idea-map row.
func (r *IdeaMapStore) ReadOne(ctx context.Context) (*ideamap.Document, error) {
	var (
		doc          ideamap.Document
		nodes, edges []byte
		updated      timestamp
	)
	err := r.s.queryRow(ctx,
		`SELECT id, nodes, edges, updated_at FROM idea_maps ORDER BY created_at LIMIT 1`,
	).Scan(&doc.ID, &nodes, &edges, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ports.ErrRecordNotFound
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("select idea map", err)
	}
	if err := json.Unmarshal(nodes, &doc.Nodes); err != nil {
		return nil, apperrors.NewDatabaseError("decode idea map nodes", err)
	}
	if err := json.Unmarshal(edges, &doc.Edges); err != nil {
		return nil, apperrors.NewDatabaseError("decode idea map edges", err)
	}
	doc.UpdatedAt = updated.Time
	return &doc, nil
}

func (r *IdeaMapStore) Update(ctx context.Context, id string, f ideamap.DocumentFields) error {
	nodes, edges, err := encodeGraph(f.Nodes, f.Edges)
	if err != nil {
		return err
	}
	res, err := r.s.exec(ctx,
		`UPDATE idea_maps SET nodes = ?, edges = ?, updated_at = ? WHERE id = ?`,
		nodes, edges, timestamp{f.UpdatedAt}, id)
	if err != nil {
		return apperrors.NewDatabaseError("update idea map", err)
	}
	return requireRow(res, "idea map "+id)
}

func (r *IdeaMapStore) Create(ctx context.Context) (*ideamap.Document, error) {
	now := time.Now().UTC()
	doc := &ideamap.Document{
		ID:        uuid.NewString(),
		Nodes:     []ideamap.NodeRecord{},
		Edges:     []ideamap.EdgeRecord{},
		UpdatedAt: now,
	}
	nodes, edges, err := encodeGraph(doc.Nodes, doc.Edges)
	if err != nil {
		return nil, err
	}
	_, err = r.s.exec(ctx,
		`INSERT INTO idea_maps (id, nodes, edges, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		doc.ID, nodes, edges, timestamp{now}, timestamp{now})
	if err != nil {
		return nil, apperrors.NewDatabaseError("insert idea map", err)
	}
	return doc, nil
}

func encodeGraph(nodes []ideamap.NodeRecord, edges []ideamap.EdgeRecord) (string, string, error) {
	if nodes == nil {
		nodes = []ideamap.NodeRecord{}
	}
	if edges == nil {
		edges = []ideamap.EdgeRecord{}
	}
	n, err := json.Marshal(nodes)
	if err != nil {
		return "", "", fmt.Errorf("encode nodes: %w", err)
	}
	e, err := json.Marshal(edges)
	if err != nil {
		return "", "", fmt.Errorf("encode edges: %w", err)
	}
	return string(n), string(e), nil
}

func requireRow(res sql.Result, resource string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewDatabaseError("rows affected", err)
	}
	if n == 0 {
		return apperrors.NewNotFoundError(resource)
	}
	return nil
}

type SnippetRepository struct {
	s *Store
}

func (r *SnippetRepository) List(ctx context.Context) ([]*snippet.Snippet, error) {
	rows, err := r.s.query(ctx, `SELECT id, title, code, language, created_at FROM snippets ORDER BY created_at DESC`)
	if err != nil {
		return nil, apperrors.NewDatabaseError("select snippets", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*snippet.Snippet
	for rows.Next() {
		var (
			sn      snippet.Snippet
			created timestamp
		)
		if err := rows.Scan(&sn.ID, &sn.Title, &sn.Code, &sn.Language, &created); err != nil {
			return nil, apperrors.NewDatabaseError("scan snippet", err)
		}
		sn.CreatedAt = created.Time
		out = append(out, &sn)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate snippets", err)
	}
	return out, nil
}

func (r *SnippetRepository) Create(ctx context.Context, sn *snippet.Snippet) error {
	_, err := r.s.exec(ctx,
		`INSERT INTO snippets (id, title, code, language, created_at) VALUES (?, ?, ?, ?, ?)`,
		sn.ID, sn.Title, sn.Code, string(sn.Language), timestamp{sn.CreatedAt})
	if err != nil {
		return apperrors.NewDatabaseError("insert snippet", err)
	}
	return nil
}

func (r *SnippetRepository) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewDatabaseError("delete snippet", err)
	}
	return requireRow(res, "snippet")
}

func (r *SnippetRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.s.queryRow(ctx, `SELECT COUNT(*) FROM snippets`).Scan(&n); err != nil {
		return 0, apperrors.NewDatabaseError("count snippets", err)
	}
	return n, nil
}

type NoteRepository struct {
	s *Store
}

const noteColumns = `id, title, content, category, created_at, user_id, is_shared, share_token`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanNote(row rowScanner) (*note.Note, error) {
	var (
		n           note.Note
		created     timestamp
		userID, tok sql.NullString
	)
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Category, &created, &userID, &n.IsShared, &tok); err != nil {
		return nil, err
	}
	n.CreatedAt = created.Time
	n.UserID = userID.String
	n.ShareToken = tok.String
	return &n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *NoteRepository) ListVisible(ctx context.Context, v note.Viewer) ([]*note.Note, error) {
	query := `SELECT ` + noteColumns + ` FROM notes WHERE is_shared = TRUE ORDER BY created_at DESC`
	args := []any{}
	if !v.Anonymous() {
		query = `SELECT ` + noteColumns + ` FROM notes WHERE is_shared = TRUE OR user_id = ? ORDER BY created_at DESC`
		args = append(args, v.UserID)
	}
	rows, err := r.s.query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewDatabaseError("select notes", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*note.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, apperrors.NewDatabaseError("scan note", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewDatabaseError("iterate notes", err)
	}
	return out, nil
}

func (r *NoteRepository) GetByID(ctx context.Context, id string) (*note.Note, error) {
	n, err := scanNote(r.s.queryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("note")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("select note", err)
	}
	return n, nil
}

func (r *NoteRepository) GetShared(ctx context.Context, token string) (*note.Note, error) {
	n, err := scanNote(r.s.queryRow(ctx,
		`SELECT `+noteColumns+` FROM notes WHERE share_token = ? AND is_shared = TRUE`, token))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError("shared note")
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("select shared note", err)
	}
	return n, nil
}

func (r *NoteRepository) Create(ctx context.Context, n *note.Note) error {
	_, err := r.s.exec(ctx,
		`INSERT INTO notes (`+noteColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.Title, n.Content, string(n.Category), timestamp{n.CreatedAt},
		nullable(n.UserID), n.IsShared, nullable(n.ShareToken))
	if err != nil {
		return apperrors.NewDatabaseError("insert note", err)
	}
	return nil
}

func (r *NoteRepository) UpdateSharing(ctx context.Context, id string, shared bool, token string) error {
	res, err := r.s.exec(ctx, `UPDATE notes SET is_shared = ?, share_token = ? WHERE id = ?`, shared, nullable(token), id)
	if err != nil {
		return apperrors.NewDatabaseError("update note sharing", err)
	}
	return requireRow(res, "note")
}

func (r *NoteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.s.exec(ctx, `DELETE FROM notes WHERE id = ?`, id)
	if err != nil {
		return apperrors.NewDatabaseError("delete note", err)
	}
	return requireRow(res, "note")
}

var (
	_ ports.IdeaMapStore      = (*IdeaMapStore)(nil)
	_ ports.SnippetRepository = (*SnippetRepository)(nil)
	_ ports.NoteRepository    = (*NoteRepository)(nil)
)
