package ideamap

import (
	"strings"
	"time"
)

// Document is the persisted form of an idea map: one record holding the
// whole graph.
type Document struct {
	ID        string       `json:"id" dynamodbav:"id"`
	Nodes     []NodeRecord `json:"nodes" dynamodbav:"nodes"`
	Edges     []EdgeRecord `json:"edges" dynamodbav:"edges"`
	UpdatedAt time.Time    `json:"updated_at" dynamodbav:"updated_at"`
}

// DocumentFields is what a save writes into an existing record.
type DocumentFields struct {
	Nodes     []NodeRecord `json:"nodes" dynamodbav:"nodes"`
	Edges     []EdgeRecord `json:"edges" dynamodbav:"edges"`
	UpdatedAt time.Time    `json:"updated_at" dynamodbav:"updated_at"`
}

type NodeRecord struct {
	ID       string   `json:"id" dynamodbav:"id"`
	Type     string   `json:"type" dynamodbav:"type"`
	Position Position `json:"position" dynamodbav:"position"`
	Data     NodeData `json:"data" dynamodbav:"data"`
}

type NodeData struct {
	Label string `json:"label" dynamodbav:"label"`
	Color string `json:"color" dynamodbav:"color"`
	Memo  string `json:"memo" dynamodbav:"memo"`
}

type EdgeRecord struct {
	ID           string `json:"id" dynamodbav:"id"`
	Source       string `json:"source" dynamodbav:"source"`
	Target       string `json:"target" dynamodbav:"target"`
	SourceHandle string `json:"sourceHandle,omitempty" dynamodbav:"sourceHandle,omitempty"`
	TargetHandle string `json:"targetHandle,omitempty" dynamodbav:"targetHandle,omitempty"`
}

// Fields projects the map onto its persisted shape, stamped with now.
// Handles are dropped.
func (m *IdeaMap) Fields(now time.Time) DocumentFields {
	f := DocumentFields{
		Nodes:     make([]NodeRecord, 0, len(m.nodes)),
		Edges:     make([]EdgeRecord, 0, len(m.edges)),
		UpdatedAt: now.UTC(),
	}
	for _, n := range m.nodes {
		f.Nodes = append(f.Nodes, NodeRecord{
			ID:       n.ID,
			Type:     NodeType,
			Position: n.Position,
			Data:     NodeData{Label: n.Label, Color: n.Color.String(), Memo: n.Memo},
		})
	}
	for _, e := range m.edges {
		f.Edges = append(f.Edges, EdgeRecord{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: string(e.SourceHandle),
			TargetHandle: string(e.TargetHandle),
		})
	}
	return f
}

// FromDocument rebuilds a map from a stored record. Colors are normalized.
// Nodes and edges with an empty or repeated id keep only their first
// occurrence, nodes with a blank label are dropped, and so are edges whose
// endpoints are missing; the second result counts what was discarded.
// Handles are left unbound.
func FromDocument(doc Document) (*IdeaMap, int) {
	m := New(doc.ID)
	discarded := 0
	for _, r := range doc.Nodes {
		if r.ID == "" || m.HasNode(r.ID) || strings.TrimSpace(r.Data.Label) == "" {
			discarded++
			continue
		}
		m.nodes = append(m.nodes, &Node{
			ID:       r.ID,
			Position: r.Position,
			Label:    r.Data.Label,
			Color:    ParseColor(r.Data.Color),
			Memo:     r.Data.Memo,
		})
	}
	for _, r := range doc.Edges {
		if r.ID == "" || m.HasEdge(r.ID) || !m.HasNode(r.Source) || !m.HasNode(r.Target) {
			discarded++
			continue
		}
		m.edges = append(m.edges, Edge{
			ID:           r.ID,
			Source:       r.Source,
			Target:       r.Target,
			SourceHandle: anchorOr(r.SourceHandle, AnchorSource),
			TargetHandle: anchorOr(r.TargetHandle, AnchorTarget),
		})
	}
	return m, discarded
}

func anchorOr(raw string, fallback Anchor) Anchor {
	if raw == "" {
		return fallback
	}
	return Anchor(raw)
}

// Document returns the full record for stores that write whole documents.
func (f DocumentFields) Document(id string) Document {
	return Document{ID: id, Nodes: f.Nodes, Edges: f.Edges, UpdatedAt: f.UpdatedAt}
}
