package ideamap

import (
	"encoding/json"

	domain "devdash-backend/domain/ideamap"
)

type NodeChangeType string

const (
	NodeChangePosition   NodeChangeType = "position"
	NodeChangeSelect     NodeChangeType = "select"
	NodeChangeDimensions NodeChangeType = "dimensions"
	NodeChangeAdd        NodeChangeType = "add"
	NodeChangeRemove     NodeChangeType = "remove"
	NodeChangeReset      NodeChangeType = "reset"
)

// NodeChange is one entry of a node change batch sent by the canvas.
// Only position changes affect the graph; node removal goes through
// DeleteNode so it can be confirmed. Add and reset entries carry an item
// instead of an id, so ID is optional here.
type NodeChange struct {
	Type             NodeChangeType   `json:"type" validate:"required"`
	ID               string           `json:"id,omitempty"`
	Position         *domain.Position `json:"position,omitempty"`
	PositionAbsolute *domain.Position `json:"positionAbsolute,omitempty"`
	Dragging         bool             `json:"dragging,omitempty"`
	Selected         bool             `json:"selected,omitempty"`
	Item             json.RawMessage  `json:"item,omitempty"`
}

type EdgeChangeType string

const (
	EdgeChangeRemove EdgeChangeType = "remove"
	EdgeChangeSelect EdgeChangeType = "select"
	EdgeChangeAdd    EdgeChangeType = "add"
	EdgeChangeReset  EdgeChangeType = "reset"
)

// EdgeChange is one entry of an edge change batch sent by the canvas.
// Only removals affect the graph; edges are added through Connect.
type EdgeChange struct {
	Type     EdgeChangeType  `json:"type" validate:"required"`
	ID       string          `json:"id,omitempty"`
	Selected bool            `json:"selected,omitempty"`
	Item     json.RawMessage `json:"item,omitempty"`
}
