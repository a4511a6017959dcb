// Package ideamap manages editing sessions over the idea-map canvas: the
// in-memory graph, the gestures that change it, and loading and saving the
// single record it lives in.
package ideamap

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"devdash-backend/application/ports"
	domain "devdash-backend/domain/ideamap"
	"devdash-backend/domain/events"
	apperrors "devdash-backend/pkg/errors"
)

const (
	positionMin  = 100.0
	positionSpan = 400.0
)

// Draft is the state of the add-node control.
type Draft struct {
	Label string       `json:"label"`
	Color domain.Color `json:"color"`
}

// Session is one editor's view of the idea map. All methods are safe for
// concurrent use; store calls happen outside the lock.
type Session struct {
	id        string
	store     ports.IdeaMapStore
	publisher ports.EventPublisher
	logger    *zap.Logger
	clock     func() time.Time
	random    func() float64
	noticeTTL time.Duration

	mu        sync.Mutex
	ids       *domain.IDGenerator
	graph     *domain.IdeaMap
	draft     Draft
	editing   map[string]string
	notices   []Notice
	noticeSeq int
	closed    bool
	lastUsed  time.Time
}

type Option func(*Session)

// WithClock replaces time.Now for ids, timestamps and notice expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.clock = now }
}

// WithRandom replaces the source of new node positions. f returns values in [0, 1).
func WithRandom(f func() float64) Option {
	return func(s *Session) { s.random = f }
}

func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Session) { s.publisher = p }
}

func WithNoticeTTL(d time.Duration) Option {
	return func(s *Session) { s.noticeTTL = d }
}

// NewSession returns an empty, unloaded session.
func NewSession(id string, store ports.IdeaMapStore, logger *zap.Logger, opts ...Option) *Session {
	s := &Session{
		id:        id,
		store:     store,
		logger:    logger,
		clock:     time.Now,
		random:    rand.Float64,
		noticeTTL: DefaultNoticeTTL,
		graph:     domain.New(""),
		draft:     Draft{Color: domain.DefaultColor},
		editing:   map[string]string{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.logger = s.logger.With(zap.String("session_id", id))
	s.ids = domain.NewIDGenerator(s.clock)
	s.lastUsed = s.clock()
	return s
}

func (s *Session) ID() string { return s.id }

// RecordID is the id of the record loaded into this session, empty if none.
func (s *Session) RecordID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.RecordID()
}

// LastUsed is the time of the most recent call that touched the session.
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Close detaches the session. Saves still in flight finish against the store
// but no longer report back.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// lock takes s.mu and marks the session used.
func (s *Session) lock() {
	s.mu.Lock()
	s.lastUsed = s.clock()
}

// Load replaces the graph with the stored record. A missing record yields an
// empty graph with no record id. On failure the current graph is kept and an
// error notice is posted.
func (s *Session) Load(ctx context.Context) error {
	doc, err := s.store.ReadOne(ctx)

	s.lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}

	switch {
	case errors.Is(err, ports.ErrRecordNotFound):
		s.logger.Info("no idea map record, starting empty")
		s.replaceGraph(domain.New(""))
		return nil
	case err != nil:
		s.logger.Error("failed to load idea map", zap.Error(err))
		s.post(NoticeError, "Failed to load the map")
		return apperrors.NewDatabaseError("load idea map", err)
	}

	graph, discarded := domain.FromDocument(*doc)
	if discarded > 0 {
		s.logger.Warn("dropped invalid entries from stored idea map",
			zap.String("record_id", doc.ID), zap.Int("discarded", discarded))
	}
	s.replaceGraph(graph)
	s.logger.Debug("idea map loaded",
		zap.String("record_id", doc.ID),
		zap.Int("nodes", graph.NodeCount()),
		zap.Int("edges", graph.EdgeCount()))
	return nil
}

// replaceGraph installs g and rebinds node handles. Callers hold s.mu.
func (s *Session) replaceGraph(g *domain.IdeaMap) {
	s.graph = g
	s.graph.BindHandles(s.bind)
	s.editing = map[string]string{}
}

func (s *Session) bind(id string) domain.NodeHandles {
	return domain.NodeHandles{
		Delete: func(ctx context.Context, c domain.Confirmer) (bool, error) {
			return s.DeleteNode(ctx, id, c)
		},
		UpdateMemo: func(memo string) error {
			return s.UpdateMemo(id, memo)
		},
	}
}

// Handles returns the actions bound to node id.
func (s *Session) Handles(id string) (domain.NodeHandles, bool) {
	s.lock()
	defer s.mu.Unlock()
	n, ok := s.graph.Node(id)
	if !ok {
		return domain.NodeHandles{}, false
	}
	return n.Handles, true
}

// SetDraft updates the add-node control.
func (s *Session) SetDraft(label string, color domain.Color) {
	s.lock()
	defer s.mu.Unlock()
	if !color.Valid() {
		color = domain.DefaultColor
	}
	s.draft = Draft{Label: label, Color: color}
}

func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// SubmitDraft adds a node from the add-node control and clears its label on
// success. The chosen color is kept.
func (s *Session) SubmitDraft() (domain.Node, bool) {
	s.lock()
	defer s.mu.Unlock()
	n, ok := s.addNode(s.draft.Label, s.draft.Color)
	if ok {
		s.draft.Label = ""
	}
	return n, ok
}

// AddNode appends a node at a random position. A blank label does nothing.
func (s *Session) AddNode(label string, color domain.Color) (domain.Node, bool) {
	s.lock()
	defer s.mu.Unlock()
	return s.addNode(label, color)
}

func (s *Session) addNode(label string, color domain.Color) (domain.Node, bool) {
	if strings.TrimSpace(label) == "" {
		return domain.Node{}, false
	}
	if !color.Valid() {
		color = domain.DefaultColor
	}
	n := domain.Node{
		ID: s.ids.Next(s.graph.HasNode),
		Position: domain.Position{
			X: positionMin + s.random()*positionSpan,
			Y: positionMin + s.random()*positionSpan,
		},
		Label: label,
		Color: color,
	}
	n.Handles = s.bind(n.ID)
	if err := s.graph.AppendNode(n); err != nil {
		// ids come from the generator and are checked against the graph
		s.logger.Error("failed to append node", zap.String("node_id", n.ID), zap.Error(err))
		return domain.Node{}, false
	}
	return n, true
}

// ApplyNodeChanges applies position patches from the canvas and returns how
// many moved a node. Changes for unknown nodes are ignored.
func (s *Session) ApplyNodeChanges(changes []NodeChange) int {
	s.lock()
	defer s.mu.Unlock()
	moved := 0
	for _, c := range changes {
		if c.Type != NodeChangePosition || c.Position == nil {
			continue
		}
		if s.graph.MoveNode(c.ID, *c.Position) {
			moved++
		}
	}
	return moved
}

// DeleteNode asks c to confirm, then removes the node and every edge touching
// it in one step. It reports whether anything was removed.
func (s *Session) DeleteNode(ctx context.Context, id string, c domain.Confirmer) (bool, error) {
	s.lock()
	exists := s.graph.HasNode(id)
	s.mu.Unlock()
	if !exists {
		return false, apperrors.NewNotFoundError("node " + id)
	}

	if !confirmed(ctx, c, PromptDeleteNode) {
		return false, nil
	}

	s.lock()
	defer s.mu.Unlock()
	edges, ok := s.graph.RemoveNode(id)
	if ok {
		delete(s.editing, id)
		s.logger.Debug("node deleted", zap.String("node_id", id), zap.Int("edges_removed", edges))
	}
	return ok, nil
}

// Connect adds an edge from conn's source to its target.
func (s *Session) Connect(conn domain.Connection) (domain.Edge, error) {
	s.lock()
	defer s.mu.Unlock()
	return s.graph.Connect(conn)
}

// ApplyEdgeChanges applies removals reported by the canvas. Selection changes
// are view-only and ignored.
func (s *Session) ApplyEdgeChanges(changes []EdgeChange) int {
	ids := make([]string, 0, len(changes))
	for _, c := range changes {
		if c.Type == EdgeChangeRemove && c.ID != "" {
			ids = append(ids, c.ID)
		}
	}
	return s.DeleteEdges(ids)
}

// DeleteEdges removes the listed edges without asking.
func (s *Session) DeleteEdges(ids []string) int {
	s.lock()
	defer s.mu.Unlock()
	return s.graph.RemoveEdges(ids...)
}

// DeleteEdge asks c to confirm, then removes exactly that edge. Deleting an
// edge that is already gone is a no-op and does not prompt.
func (s *Session) DeleteEdge(ctx context.Context, id string, c domain.Confirmer) bool {
	s.lock()
	exists := s.graph.HasEdge(id)
	s.mu.Unlock()
	if !exists || !confirmed(ctx, c, PromptDeleteEdge) {
		return false
	}

	s.lock()
	defer s.mu.Unlock()
	return s.graph.RemoveEdges(id) > 0
}

// UpdateMemo replaces a node's memo.
func (s *Session) UpdateMemo(id, memo string) error {
	s.lock()
	defer s.mu.Unlock()
	return s.graph.SetMemo(id, memo)
}

// BeginMemoEdit puts a node into memo-edit mode with its current memo as the draft.
func (s *Session) BeginMemoEdit(id string) (string, error) {
	s.lock()
	defer s.mu.Unlock()
	n, ok := s.graph.Node(id)
	if !ok {
		return "", apperrors.NewNotFoundError("node " + id)
	}
	s.editing[id] = n.Memo
	return n.Memo, nil
}

// CommitMemoEdit stores memo and leaves edit mode.
func (s *Session) CommitMemoEdit(id, memo string) error {
	s.lock()
	defer s.mu.Unlock()
	if err := s.graph.SetMemo(id, memo); err != nil {
		return err
	}
	delete(s.editing, id)
	return nil
}

// CancelMemoEdit leaves edit mode without touching the memo.
func (s *Session) CancelMemoEdit(id string) {
	s.lock()
	defer s.mu.Unlock()
	delete(s.editing, id)
}

// Editing reports whether node id is in memo-edit mode.
func (s *Session) Editing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.editing[id]
	return ok
}

// ClearAll asks c to confirm, then empties the graph. The record id is kept.
func (s *Session) ClearAll(ctx context.Context, c domain.Confirmer) bool {
	if !confirmed(ctx, c, PromptClearAll) {
		return false
	}
	s.lock()
	defer s.mu.Unlock()
	s.graph.Clear()
	s.editing = map[string]string{}
	return true
}

// Save writes the graph to its record. Without a record id it does nothing.
// The write runs outside the lock, so two overlapping saves both reach the
// store and the later write wins. A failed save leaves the graph as it is.
func (s *Session) Save(ctx context.Context) error {
	s.lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	recordID := s.graph.RecordID()
	if recordID == "" {
		s.mu.Unlock()
		s.logger.Debug("save skipped, no record loaded")
		return nil
	}
	fields := s.graph.Fields(s.clock())
	s.mu.Unlock()

	err := s.store.Update(ctx, recordID, fields)

	s.mu.Lock()
	closed := s.closed
	if !closed {
		if err != nil {
			s.post(NoticeError, "Failed to save the map")
		} else {
			s.post(NoticeSuccess, "Saved")
		}
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("failed to save idea map", zap.String("record_id", recordID), zap.Error(err))
		return apperrors.NewDatabaseError("save idea map", err)
	}
	s.logger.Info("idea map saved",
		zap.String("record_id", recordID),
		zap.Int("nodes", len(fields.Nodes)),
		zap.Int("edges", len(fields.Edges)),
		zap.Bool("session_closed", closed))
	s.publish(ctx, events.NewIdeaMapSaved(recordID, len(fields.Nodes), len(fields.Edges), fields.UpdatedAt))
	return nil
}

func (s *Session) publish(ctx context.Context, e events.DomainEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", zap.String("event_type", e.GetEventType()), zap.Error(err))
	}
}

// Counts returns the number of nodes and edges.
func (s *Session) Counts() (nodes, edges int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.graph.NodeCount(), s.graph.EdgeCount()
}

func (s *Session) String() string {
	n, e := s.Counts()
	return fmt.Sprintf("session %s (%d nodes, %d edges)", s.id, n, e)
}
