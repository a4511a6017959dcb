package ideamap

import domain "devdash-backend/domain/ideamap"

// View is what the canvas renders.
type View struct {
	SessionID string         `json:"session_id"`
	RecordID  string         `json:"record_id,omitempty"`
	Nodes     []NodeView     `json:"nodes"`
	Edges     []EdgeView     `json:"edges"`
	Draft     Draft          `json:"draft"`
	Palette   []PaletteEntry `json:"palette"`
	Notices   []Notice       `json:"notices"`
}

type NodeView struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Position domain.Position `json:"position"`
	Data     NodeViewData    `json:"data"`
}

type NodeViewData struct {
	Label     string       `json:"label"`
	Color     domain.Color `json:"color"`
	Memo      string       `json:"memo"`
	Style     domain.Style `json:"style"`
	Editing   bool         `json:"editing"`
	MemoDraft string       `json:"memo_draft,omitempty"`
}

type EdgeView struct {
	ID           string        `json:"id"`
	Source       string        `json:"source"`
	Target       string        `json:"target"`
	SourceHandle domain.Anchor `json:"sourceHandle"`
	TargetHandle domain.Anchor `json:"targetHandle"`
}

type PaletteEntry struct {
	Name  domain.Color `json:"name"`
	Style domain.Style `json:"style"`
}

// View snapshots the session for rendering.
func (s *Session) View() View {
	s.lock()
	defer s.mu.Unlock()
	s.pruneNotices()

	v := View{
		SessionID: s.id,
		RecordID:  s.graph.RecordID(),
		Nodes:     []NodeView{},
		Edges:     []EdgeView{},
		Draft:     s.draft,
		Notices:   append([]Notice{}, s.notices...),
	}
	for _, n := range s.graph.Nodes() {
		memoDraft, editing := s.editing[n.ID]
		v.Nodes = append(v.Nodes, NodeView{
			ID:       n.ID,
			Type:     domain.NodeType,
			Position: n.Position,
			Data: NodeViewData{
				Label:     n.Label,
				Color:     n.Color,
				Memo:      n.Memo,
				Style:     n.Color.Style(),
				Editing:   editing,
				MemoDraft: memoDraft,
			},
		})
	}
	for _, e := range s.graph.Edges() {
		v.Edges = append(v.Edges, EdgeView{
			ID:           e.ID,
			Source:       e.Source,
			Target:       e.Target,
			SourceHandle: e.SourceHandle,
			TargetHandle: e.TargetHandle,
		})
	}
	for _, c := range domain.Palette() {
		v.Palette = append(v.Palette, PaletteEntry{Name: c, Style: c.Style()})
	}
	return v
}
