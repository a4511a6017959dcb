package ideamap

import (
	"context"
	"fmt"
)

// Anchor names the two fixed connection points of every node.
type Anchor string

const (
	// AnchorTarget is the incoming anchor on the top edge.
	AnchorTarget Anchor = "target"
	// AnchorSource is the outgoing anchor on the bottom edge.
	AnchorSource Anchor = "source"
)

// NodeType is the only node kind the canvas renders.
const NodeType = "custom"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Confirmer asks the person editing the graph a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// NodeHandles are the per-node actions a rendered node can trigger.
// They are rebound whenever nodes are created or loaded and are never persisted.
type NodeHandles struct {
	Delete     func(ctx context.Context, c Confirmer) (bool, error)
	UpdateMemo func(memo string) error
}

// Node is the view-model of a node on the canvas.
type Node struct {
	ID       string
	Position Position
	Label    string
	Color    Color
	Memo     string
	Handles  NodeHandles
}

// Edge is a directed connection from a node's outgoing anchor to a node's
// incoming anchor.
type Edge struct {
	ID           string
	Source       string
	Target       string
	SourceHandle Anchor
	TargetHandle Anchor
}

// Connection is the request to create an edge, as reported by the canvas.
type Connection struct {
	Source       string `json:"source" validate:"required"`
	Target       string `json:"target" validate:"required"`
	SourceHandle Anchor `json:"sourceHandle,omitempty"`
	TargetHandle Anchor `json:"targetHandle,omitempty"`
}

// EdgeID derives the id of an edge from its endpoints and anchors.
func EdgeID(c Connection) string {
	return fmt.Sprintf("edge-%s%s-%s%s", c.Source, c.SourceHandle, c.Target, c.TargetHandle)
}
