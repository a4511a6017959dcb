package sqlstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	"devdash-backend/domain/snippet"
	apperrors "devdash-backend/pkg/errors"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), SQLite, ":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRebind(t *testing.T) {
	q := `UPDATE t SET a = ?, b = ? WHERE id = ?`
	assert.Equal(t, `UPDATE t SET a = $1, b = $2 WHERE id = $3`, Postgres.rebind(q))
	assert.Equal(t, q, SQLite.rebind(q))
}

func TestTimestampScan(t *testing.T) {
	want := time.Date(2024, 3, 4, 5, 6, 7, 800, time.UTC)
	for _, src := range []any{want, want.Format(time.RFC3339Nano), []byte("2024-03-04 05:06:07.0000008+00:00")} {
		var ts timestamp
		require.NoError(t, ts.Scan(src))
		assert.True(t, want.Equal(ts.Time), "%v", src)
	}
	var ts timestamp
	assert.Error(t, ts.Scan(42))
}

func TestIdeaMapStore(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t).IdeaMaps()

	_, err := store.ReadOne(ctx)
	require.ErrorIs(t, err, ports.ErrRecordNotFound)

	created, err := store.Create(ctx)
	require.NoError(t, err)

	fields := ideamap.DocumentFields{
		Nodes: []ideamap.NodeRecord{
			{ID: "1", Type: ideamap.NodeType, Position: ideamap.Position{X: 150.5, Y: 220}, Data: ideamap.NodeData{Label: "A", Color: "purple", Memo: "m"}},
			{ID: "2", Type: ideamap.NodeType, Position: ideamap.Position{X: 300, Y: 410.25}, Data: ideamap.NodeData{Label: "B", Color: "blue"}},
		},
		Edges:     []ideamap.EdgeRecord{{ID: "edge-1source-2target", Source: "1", Target: "2", SourceHandle: "source", TargetHandle: "target"}},
		UpdatedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.Update(ctx, created.ID, fields))
	assert.True(t, apperrors.IsNotFound(store.Update(ctx, "missing", fields)))

	doc, err := store.ReadOne(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, doc.ID)
	assert.Equal(t, fields.Nodes, doc.Nodes)
	assert.Equal(t, fields.Edges, doc.Edges)
	assert.True(t, fields.UpdatedAt.Equal(doc.UpdatedAt))
}

func TestSnippetRepository(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t).Snippets()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &snippet.Snippet{ID: "a", Title: "first", Code: "x", Language: snippet.LanguageCSS, CreatedAt: base}))
	require.NoError(t, repo.Create(ctx, &snippet.Snippet{ID: "b", Title: "second", Code: "y", Language: snippet.LanguagePython, CreatedAt: base.Add(time.Hour)}))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, snippet.LanguagePython, items[0].Language)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, repo.Delete(ctx, "a"))
	assert.True(t, apperrors.IsNotFound(repo.Delete(ctx, "a")))
}

func TestNoteRepository(t *testing.T) {
	ctx := context.Background()
	repo := openSQLite(t).Notes()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &note.Note{ID: "own", Title: "t", Content: "c", Category: note.CategoryReact, CreatedAt: base, UserID: "u1"}))
	require.NoError(t, repo.Create(ctx, &note.Note{ID: "other", Title: "t", Content: "c", Category: note.CategoryCSS, CreatedAt: base.Add(time.Minute), UserID: "u2"}))
	require.NoError(t, repo.Create(ctx, &note.Note{ID: "anon", Title: "t", Content: "c", Category: note.CategoryGeneral, CreatedAt: base.Add(2 * time.Minute)}))

	mine, err := repo.ListVisible(ctx, note.Viewer{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "own", mine[0].ID)

	require.NoError(t, repo.UpdateSharing(ctx, "other", true, "tok"))

	mine, err = repo.ListVisible(ctx, note.Viewer{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "other", mine[0].ID)

	public, err := repo.ListVisible(ctx, note.Viewer{})
	require.NoError(t, err)
	require.Len(t, public, 1)

	shared, err := repo.GetShared(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u2", shared.UserID)
	assert.True(t, shared.IsShared)

	anon, err := repo.GetByID(ctx, "anon")
	require.NoError(t, err)
	assert.Empty(t, anon.UserID)
	assert.Empty(t, anon.ShareToken)

	require.NoError(t, repo.UpdateSharing(ctx, "other", false, "tok"))
	_, err = repo.GetShared(ctx, "tok")
	assert.True(t, apperrors.IsNotFound(err))

	require.NoError(t, repo.Delete(ctx, "own"))
	_, err = repo.GetByID(ctx, "own")
	assert.True(t, apperrors.IsNotFound(err))
}
