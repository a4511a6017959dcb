package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/domain/ideamap"
	"devdash-backend/domain/note"
	apperrors "devdash-backend/pkg/errors"
)

// restStub answers PostgREST requests with canned bodies and records what it saw.
type restStub struct {
	t        *testing.T
	status   int
	body     string
	method   string
	path     string
	query    map[string][]string
	received []byte
}

func (s *restStub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.method = r.Method
	s.path = r.URL.Path
	s.query = r.URL.Query()
	s.received, _ = io.ReadAll(r.Body)
	w.Header().Set("Content-Type", "application/json")
	if s.status == 0 {
		s.status = http.StatusOK
	}
	w.WriteHeader(s.status)
	_, _ = io.WriteString(w, s.body)
}

func newStub(t *testing.T, body string) (*restStub, string) {
	t.Helper()
	stub := &restStub{t: t, body: body}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)
	return stub, srv.URL
}

func TestIdeaMapStore_ReadOne(t *testing.T) {
	ctx := context.Background()

	t.Run("empty table", func(t *testing.T) {
		_, url := newStub(t, `[]`)
		client, err := NewClient(url, "anon-key")
		require.NoError(t, err)

		_, err = NewIdeaMapStore(client, "idea_maps", zap.NewNop()).ReadOne(ctx)
		assert.ErrorIs(t, err, ports.ErrRecordNotFound)
	})

	t.Run("row with legacy colors", func(t *testing.T) {
		stub, url := newStub(t, `[{"id":"11111111-1111-1111-1111-111111111111",
			"nodes":[{"id":"1700000000000","type":"custom","position":{"x":120,"y":340},
				"data":{"label":"Idea","color":"border-red-500 bg-red-900/50","memo":""}}],
			"edges":[],"updated_at":"2024-05-01T10:00:00.123456+00:00"}]`)
		client, err := NewClient(url, "anon-key")
		require.NoError(t, err)

		doc, err := NewIdeaMapStore(client, "idea_maps", zap.NewNop()).ReadOne(ctx)
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, stub.method)
		assert.Equal(t, "/rest/v1/idea_maps", stub.path)
		assert.Equal(t, "1", stub.query["limit"][0])
		require.Len(t, doc.Nodes, 1)
		m, _ := ideamap.FromDocument(*doc)
		n, _ := m.Node("1700000000000")
		assert.Equal(t, ideamap.ColorRed, n.Color)
	})

	t.Run("server error", func(t *testing.T) {
		stub, url := newStub(t, `{"code":"42P01","message":"relation does not exist"}`)
		stub.status = http.StatusNotFound
		client, err := NewClient(url, "anon-key")
		require.NoError(t, err)

		_, err = NewIdeaMapStore(client, "idea_maps", zap.NewNop()).ReadOne(ctx)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeDatabase))
	})
}

func TestIdeaMapStore_Update(t *testing.T) {
	stub, url := newStub(t, `[{"id":"rec-1"}]`)
	client, err := NewClient(url, "anon-key")
	require.NoError(t, err)

	fields := ideamap.DocumentFields{
		Nodes:     []ideamap.NodeRecord{{ID: "1", Type: ideamap.NodeType, Data: ideamap.NodeData{Label: "A", Color: "blue"}}},
		Edges:     []ideamap.EdgeRecord{},
		UpdatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, NewIdeaMapStore(client, "idea_maps", zap.NewNop()).Update(context.Background(), "rec-1", fields))

	assert.Equal(t, http.MethodPatch, stub.method)
	assert.Equal(t, "eq.rec-1", stub.query["id"][0])
	var sent map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(stub.received, &sent))
	assert.Contains(t, sent, "nodes")
	assert.Contains(t, sent, "edges")
	assert.Contains(t, sent, "updated_at")
	assert.NotContains(t, sent, "id")
}

func TestNoteRepository_ListVisible(t *testing.T) {
	ctx := context.Background()
	body := `[{"id":"n1","title":"t","content":"c","category":"css","created_at":"2024-01-01T00:00:00Z",
		"user_id":null,"is_shared":true,"share_token":"tok"}]`

	t.Run("anonymous sees shared only", func(t *testing.T) {
		stub, url := newStub(t, body)
		client, err := NewClient(url, "anon-key")
		require.NoError(t, err)

		notes, err := NewNoteRepository(client, "notes").ListVisible(ctx, note.Viewer{})
		require.NoError(t, err)

		assert.Equal(t, "eq.true", stub.query["is_shared"][0])
		require.Len(t, notes, 1)
		assert.Empty(t, notes[0].UserID)
		assert.Equal(t, "tok", notes[0].ShareToken)
	})

	t.Run("signed in sees own and shared", func(t *testing.T) {
		stub, url := newStub(t, body)
		client, err := NewClient(url, "anon-key")
		require.NoError(t, err)
		uid := "6f1c2a7e-4b7d-4a51-9d55-2c3e5b7f0a11"

		_, err = NewNoteRepository(client, "notes").ListVisible(ctx, note.Viewer{UserID: uid})
		require.NoError(t, err)
		assert.Equal(t, "(user_id.eq."+uid+",is_shared.eq.true)", stub.query["or"][0])
	})

	t.Run("malformed user id is rejected before querying", func(t *testing.T) {
		stub, url := newStub(t, body)
		client, err := NewClient(url, "anon-key")
		require.NoError(t, err)

		_, err = NewNoteRepository(client, "notes").ListVisible(ctx, note.Viewer{UserID: "x),is_shared.eq.false"})
		assert.True(t, apperrors.IsValidation(err))
		assert.Empty(t, stub.method)
	})
}
