package ideamap

import (
	"fmt"
	"strconv"

	apperrors "devdash-backend/pkg/errors"
)

// IdeaMap is the aggregate behind the canvas: ordered nodes and edges plus
// the id of the record they were loaded from. An empty RecordID means there
// is nothing to save into.
type IdeaMap struct {
	recordID string
	nodes    []*Node
	edges    []Edge
}

// New returns an empty map bound to recordID.
func New(recordID string) *IdeaMap {
	return &IdeaMap{recordID: recordID}
}

func (m *IdeaMap) RecordID() string { return m.recordID }

// Nodes returns copies of the nodes in insertion order.
func (m *IdeaMap) Nodes() []Node {
	out := make([]Node, len(m.nodes))
	for i, n := range m.nodes {
		out[i] = *n
	}
	return out
}

// Edges returns a copy of the edges in insertion order.
func (m *IdeaMap) Edges() []Edge {
	return append([]Edge(nil), m.edges...)
}

func (m *IdeaMap) NodeCount() int { return len(m.nodes) }
func (m *IdeaMap) EdgeCount() int { return len(m.edges) }

func (m *IdeaMap) node(id string) *Node {
	for _, n := range m.nodes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// HasNode reports whether a node with id is present.
func (m *IdeaMap) HasNode(id string) bool {
	return m.node(id) != nil
}

// Node returns a copy of the node with id.
func (m *IdeaMap) Node(id string) (Node, bool) {
	if n := m.node(id); n != nil {
		return *n, true
	}
	return Node{}, false
}

// AppendNode adds n at the end of the node list. Ids must be unique.
func (m *IdeaMap) AppendNode(n Node) error {
	if n.ID == "" {
		return apperrors.NewValidationError("node id is required")
	}
	if m.HasNode(n.ID) {
		return apperrors.NewConflictError(fmt.Sprintf("node %s already exists", n.ID))
	}
	if !n.Color.Valid() {
		n.Color = DefaultColor
	}
	m.nodes = append(m.nodes, &n)
	return nil
}

// BindHandles replaces the handles of every node using bind.
func (m *IdeaMap) BindHandles(bind func(id string) NodeHandles) {
	for _, n := range m.nodes {
		n.Handles = bind(n.ID)
	}
}

// MoveNode sets a node's position. Unknown ids are ignored.
func (m *IdeaMap) MoveNode(id string, p Position) bool {
	n := m.node(id)
	if n == nil {
		return false
	}
	n.Position = p
	return true
}

// SetMemo replaces a node's memo.
func (m *IdeaMap) SetMemo(id, memo string) error {
	n := m.node(id)
	if n == nil {
		return apperrors.NewNotFoundError("node " + id)
	}
	n.Memo = memo
	return nil
}

// RemoveNode drops the node and every edge that references it. It returns
// the number of edges removed along with it.
func (m *IdeaMap) RemoveNode(id string) (int, bool) {
	idx := -1
	for i, n := range m.nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, false
	}
	m.nodes = append(m.nodes[:idx], m.nodes[idx+1:]...)

	kept := m.edges[:0]
	removed := 0
	for _, e := range m.edges {
		if e.Source == id || e.Target == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept
	return removed, true
}

// Connect appends an edge for c. Both endpoints must exist; a node may be
// connected to itself and the same pair may be connected more than once, in
// which case the derived id gets a numeric suffix.
func (m *IdeaMap) Connect(c Connection) (Edge, error) {
	if c.SourceHandle == "" {
		c.SourceHandle = AnchorSource
	}
	if c.TargetHandle == "" {
		c.TargetHandle = AnchorTarget
	}
	if c.SourceHandle != AnchorSource || c.TargetHandle != AnchorTarget {
		return Edge{}, apperrors.NewValidationError("edges run from an outgoing anchor to an incoming anchor")
	}
	if !m.HasNode(c.Source) {
		return Edge{}, apperrors.NewValidationError("source node " + c.Source + " does not exist")
	}
	if !m.HasNode(c.Target) {
		return Edge{}, apperrors.NewValidationError("target node " + c.Target + " does not exist")
	}

	base := EdgeID(c)
	id := base
	for i := 2; m.HasEdge(id); i++ {
		id = base + "-" + strconv.Itoa(i)
	}
	e := Edge{ID: id, Source: c.Source, Target: c.Target, SourceHandle: c.SourceHandle, TargetHandle: c.TargetHandle}
	m.edges = append(m.edges, e)
	return e, nil
}

// HasEdge reports whether an edge with id is present.
func (m *IdeaMap) HasEdge(id string) bool {
	for _, e := range m.edges {
		if e.ID == id {
			return true
		}
	}
	return false
}

// RemoveEdges drops every edge whose id is listed and returns how many were
// present. Unknown ids are ignored.
func (m *IdeaMap) RemoveEdges(ids ...string) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := m.edges[:0]
	removed := 0
	for _, e := range m.edges {
		if _, ok := drop[e.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.edges = kept
	return removed
}

// Clear empties the map and keeps the record id.
func (m *IdeaMap) Clear() {
	m.nodes = nil
	m.edges = nil
}
