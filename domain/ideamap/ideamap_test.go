package ideamap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "devdash-backend/pkg/errors"
)

func newTestMap(t *testing.T, ids ...string) *IdeaMap {
	t.Helper()
	m := New("rec-1")
	for _, id := range ids {
		require.NoError(t, m.AppendNode(Node{ID: id, Label: "node " + id, Color: ColorGreen}))
	}
	return m
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		raw  string
		want Color
	}{
		{"green", ColorGreen},
		{"PURPLE", ColorPurple},
		{"border-red-500 bg-red-900/50", ColorRed},
		{"", ColorBlue},
		{"orange", ColorBlue},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColor(tt.raw))
		})
	}
}

func TestColorStyleFallsBackToBlue(t *testing.T) {
	assert.Equal(t, ColorBlue.Style(), Color("mauve").Style())
	assert.Equal(t, "#22c55e", ColorGreen.Style().Border)
}

func TestRemoveNodeCascadesEdges(t *testing.T) {
	m := newTestMap(t, "a", "b", "c")
	_, err := m.Connect(Connection{Source: "a", Target: "b"})
	require.NoError(t, err)
	_, err = m.Connect(Connection{Source: "c", Target: "a"})
	require.NoError(t, err)
	keep, err := m.Connect(Connection{Source: "b", Target: "c"})
	require.NoError(t, err)

	removed, ok := m.RemoveNode("a")
	require.True(t, ok)
	assert.Equal(t, 2, removed)
	assert.False(t, m.HasNode("a"))
	assert.Equal(t, []Edge{keep}, m.Edges())

	_, ok = m.RemoveNode("a")
	assert.False(t, ok)
}

func TestConnect(t *testing.T) {
	t.Run("parallel edges get distinct ids", func(t *testing.T) {
		m := newTestMap(t, "a", "b")
		e1, err := m.Connect(Connection{Source: "a", Target: "b"})
		require.NoError(t, err)
		e2, err := m.Connect(Connection{Source: "a", Target: "b"})
		require.NoError(t, err)

		assert.Equal(t, "edge-asource-btarget", e1.ID)
		assert.Equal(t, "edge-asource-btarget-2", e2.ID)
		assert.Equal(t, 2, m.EdgeCount())
	})

	t.Run("self loop is allowed", func(t *testing.T) {
		m := newTestMap(t, "a")
		_, err := m.Connect(Connection{Source: "a", Target: "a"})
		assert.NoError(t, err)
	})

	t.Run("missing endpoint", func(t *testing.T) {
		m := newTestMap(t, "a")
		_, err := m.Connect(Connection{Source: "a", Target: "ghost"})
		assert.True(t, apperrors.IsValidation(err))
		assert.Zero(t, m.EdgeCount())
	})

	t.Run("wrong anchors", func(t *testing.T) {
		m := newTestMap(t, "a", "b")
		_, err := m.Connect(Connection{Source: "a", Target: "b", SourceHandle: AnchorTarget})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestRemoveEdgesIsIdempotent(t *testing.T) {
	m := newTestMap(t, "a", "b")
	e, err := m.Connect(Connection{Source: "a", Target: "b"})
	require.NoError(t, err)

	assert.Equal(t, 1, m.RemoveEdges(e.ID, "unknown"))
	assert.Equal(t, 0, m.RemoveEdges(e.ID))
	assert.Empty(t, m.Edges())
}

func TestFieldsAndFromDocumentRoundTrip(t *testing.T) {
	m := newTestMap(t, "a", "b")
	require.True(t, m.MoveNode("a", Position{X: 12.5, Y: -3}))
	require.NoError(t, m.SetMemo("b", "remember"))
	_, err := m.Connect(Connection{Source: "a", Target: "b"})
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	fields := m.Fields(now)
	assert.Equal(t, NodeType, fields.Nodes[0].Type)
	assert.Equal(t, "green", fields.Nodes[0].Data.Color)

	back, discarded := FromDocument(fields.Document("rec-1"))
	assert.Zero(t, discarded)
	assert.Equal(t, "rec-1", back.RecordID())
	assert.Equal(t, m.Nodes(), back.Nodes())
	assert.Equal(t, m.Edges(), back.Edges())
}

func TestFromDocumentSanitizes(t *testing.T) {
	doc := Document{
		ID: "rec",
		Nodes: []NodeRecord{
			{ID: "1", Type: NodeType, Data: NodeData{Label: "one", Color: "border-yellow-500 bg-yellow-900/50"}},
			{ID: "1", Type: NodeType, Data: NodeData{Label: "dup"}},
			{ID: "2", Type: NodeType, Data: NodeData{Label: "two"}},
			{ID: "3", Type: NodeType, Data: NodeData{Label: "   "}},
			{ID: "", Type: NodeType, Data: NodeData{Label: "no id"}},
		},
		Edges: []EdgeRecord{
			{ID: "e1", Source: "1", Target: "2"},
			{ID: "e1", Source: "2", Target: "1"},
			{ID: "", Source: "1", Target: "2"},
			{ID: "e2", Source: "1", Target: "gone"},
			{ID: "e3", Source: "1", Target: "3"},
		},
	}
	m, discarded := FromDocument(doc)
	assert.Equal(t, 7, discarded)
	require.Equal(t, 2, m.NodeCount())
	n, _ := m.Node("1")
	assert.Equal(t, ColorYellow, n.Color)
	_, ok := m.Node("3")
	assert.False(t, ok)
	assert.Equal(t, []Edge{{ID: "e1", Source: "1", Target: "2", SourceHandle: AnchorSource, TargetHandle: AnchorTarget}}, m.Edges())

	assert.Equal(t, 1, m.RemoveEdges("e1"))
	assert.Empty(t, m.Edges())
}

func TestIDGenerator(t *testing.T) {
	fixed := time.UnixMilli(1700000000000)
	g := NewIDGenerator(func() time.Time { return fixed })

	first := g.Next(nil)
	second := g.Next(nil)
	third := g.Next(func(id string) bool { return id == "1700000000002" })

	assert.Equal(t, "1700000000000", first)
	assert.Equal(t, "1700000000001", second)
	assert.Equal(t, "1700000000003", third)
}
