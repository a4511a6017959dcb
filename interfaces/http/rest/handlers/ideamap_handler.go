package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	app "devdash-backend/application/ideamap"
	domain "devdash-backend/domain/ideamap"
	"devdash-backend/pkg/common"
	apperrors "devdash-backend/pkg/errors"
)

// SessionObserver is told how many editor sessions are open and how saves
// went.
type SessionObserver interface {
	SetSessions(n int)
	ObserveSave(err error)
}

// IdeaMapHandler exposes editor sessions over HTTP. Every route below
// /ideamap/sessions/{sessionID} acts on that session's in-memory graph;
// only save and reload touch the store.
type IdeaMapHandler struct {
	registry *app.Registry
	observer SessionObserver
	logger   *zap.Logger
}

func NewIdeaMapHandler(registry *app.Registry, observer SessionObserver, logger *zap.Logger) *IdeaMapHandler {
	return &IdeaMapHandler{registry: registry, observer: observer, logger: logger}
}

// Routes mounts the session endpoints.
func (h *IdeaMapHandler) Routes(r chi.Router) {
	r.Post("/", h.OpenSession)
	r.Route("/{sessionID}", func(r chi.Router) {
		r.Get("/", h.GetSession)
		r.Delete("/", h.CloseSession)

		r.Put("/draft", h.SetDraft)
		r.Post("/draft/submit", h.SubmitDraft)

		r.Post("/nodes", h.AddNode)
		r.Post("/nodes/changes", h.ApplyNodeChanges)
		r.Delete("/nodes/{nodeID}", h.DeleteNode)
		r.Put("/nodes/{nodeID}/memo", h.UpdateMemo)
		r.Post("/nodes/{nodeID}/edit", h.BeginMemoEdit)
		r.Delete("/nodes/{nodeID}/edit", h.CancelMemoEdit)

		r.Post("/edges", h.Connect)
		r.Post("/edges/changes", h.ApplyEdgeChanges)
		r.Post("/edges/bulk-delete", h.BulkDeleteEdges)
		r.Delete("/edges/{edgeID}", h.DeleteEdge)

		r.Post("/clear", h.ClearAll)
		r.Post("/save", h.Save)
		r.Post("/reload", h.Reload)
		r.Delete("/notices/{noticeID}", h.DismissNotice)
	})
}

type AddNodeRequest struct {
	Label string `json:"label" validate:"required"`
	Color string `json:"color,omitempty"`
}

type DraftRequest struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

type NodeChangesRequest struct {
	Changes []app.NodeChange `json:"changes" validate:"dive"`
}

type EdgeChangesRequest struct {
	Changes []app.EdgeChange `json:"changes" validate:"dive"`
}

type BulkDeleteEdgesRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type MemoRequest struct {
	Memo string `json:"memo"`
}

func (h *IdeaMapHandler) session(w http.ResponseWriter, r *http.Request) (*app.Session, bool) {
	s, err := h.registry.Get(chi.URLParam(r, "sessionID"))
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return nil, false
	}
	return s, true
}

func (h *IdeaMapHandler) observeSessions() {
	if h.observer != nil {
		h.observer.SetSessions(h.registry.Len())
	}
}

// OpenSession handles POST /ideamap/sessions
func (h *IdeaMapHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	s, err := h.registry.Open(r.Context())
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	h.observeSessions()
	common.RespondJSON(w, http.StatusCreated, s.View())
}

// GetSession handles GET /ideamap/sessions/{sessionID}
func (h *IdeaMapHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	common.RespondJSON(w, http.StatusOK, s.View())
}

// CloseSession handles DELETE /ideamap/sessions/{sessionID}
func (h *IdeaMapHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Close(chi.URLParam(r, "sessionID")); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	h.observeSessions()
	w.WriteHeader(http.StatusNoContent)
}

// SetDraft handles PUT .../draft
func (h *IdeaMapHandler) SetDraft(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req DraftRequest
	if err := decode(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	s.SetDraft(req.Label, domain.ParseColor(req.Color))
	common.RespondJSON(w, http.StatusOK, s.Draft())
}

// SubmitDraft handles POST .../draft/submit
func (h *IdeaMapHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	n, added := s.SubmitDraft()
	if !added {
		respondAppError(w, r, h.logger, apperrors.NewValidationError("label is required"))
		return
	}
	common.RespondJSON(w, http.StatusCreated, nodeView(n, false))
}

// AddNode handles POST .../nodes
func (h *IdeaMapHandler) AddNode(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req AddNodeRequest
	if err := decode(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	n, added := s.AddNode(req.Label, domain.ParseColor(req.Color))
	if !added {
		respondAppError(w, r, h.logger, apperrors.NewValidationError("label is required"))
		return
	}
	common.RespondJSON(w, http.StatusCreated, nodeView(n, false))
}

// ApplyNodeChanges handles POST .../nodes/changes
func (h *IdeaMapHandler) ApplyNodeChanges(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req NodeChangesRequest
	if err := decodeChanges(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"moved": s.ApplyNodeChanges(req.Changes)})
}

// DeleteNode handles DELETE .../nodes/{nodeID} through the node's own
// delete handle.
func (h *IdeaMapHandler) DeleteNode(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	handles, found := s.Handles(nodeID)
	if !found {
		respondAppError(w, r, h.logger, apperrors.NewNotFoundError("node "+nodeID))
		return
	}
	c := confirmerFor(r)
	deleted, err := handles.Delete(r.Context(), c)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	if c.settled(w, r, h.logger) {
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"confirmed": true, "deleted": deleted})
}

// UpdateMemo handles PUT .../nodes/{nodeID}/memo. A node in edit mode
// leaves it.
func (h *IdeaMapHandler) UpdateMemo(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req MemoRequest
	if err := decode(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	var err error
	if s.Editing(nodeID) {
		err = s.CommitMemoEdit(nodeID, req.Memo)
	} else if handles, found := s.Handles(nodeID); found {
		err = handles.UpdateMemo(req.Memo)
	} else {
		err = apperrors.NewNotFoundError("node " + nodeID)
	}
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"id": nodeID, "memo": req.Memo})
}

// BeginMemoEdit handles POST .../nodes/{nodeID}/edit
func (h *IdeaMapHandler) BeginMemoEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	nodeID := chi.URLParam(r, "nodeID")
	memo, err := s.BeginMemoEdit(nodeID)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"id": nodeID, "editing": true, "memo_draft": memo})
}

// CancelMemoEdit handles DELETE .../nodes/{nodeID}/edit
func (h *IdeaMapHandler) CancelMemoEdit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	s.CancelMemoEdit(chi.URLParam(r, "nodeID"))
	w.WriteHeader(http.StatusNoContent)
}

// Connect handles POST .../edges
func (h *IdeaMapHandler) Connect(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var conn domain.Connection
	if err := decode(w, r, &conn); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	e, err := s.Connect(conn)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, edgeView(e))
}

// ApplyEdgeChanges handles POST .../edges/changes
func (h *IdeaMapHandler) ApplyEdgeChanges(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req EdgeChangesRequest
	if err := decodeChanges(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"removed": s.ApplyEdgeChanges(req.Changes)})
}

// BulkDeleteEdges handles POST .../edges/bulk-delete. Selection deletes from
// the canvas are not confirmed.
func (h *IdeaMapHandler) BulkDeleteEdges(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req BulkDeleteEdgesRequest
	if err := decode(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]int{"removed": s.DeleteEdges(req.IDs)})
}

// DeleteEdge handles DELETE .../edges/{edgeID}
func (h *IdeaMapHandler) DeleteEdge(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	c := confirmerFor(r)
	deleted := s.DeleteEdge(r.Context(), chi.URLParam(r, "edgeID"), c)
	if c.settled(w, r, h.logger) {
		return
	}
	if c.prompt == "" {
		// already gone; nothing was asked
		common.RespondJSON(w, http.StatusOK, map[string]any{"deleted": false})
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"confirmed": true, "deleted": deleted})
}

// ClearAll handles POST .../clear
func (h *IdeaMapHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	c := confirmerFor(r)
	cleared := s.ClearAll(r.Context(), c)
	if c.settled(w, r, h.logger) {
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{"confirmed": true, "cleared": cleared})
}

// Save handles POST .../save. The outcome is also posted as a notice on
// the session.
func (h *IdeaMapHandler) Save(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	err := s.Save(r.Context())
	if h.observer != nil && s.RecordID() != "" {
		h.observer.ObserveSave(err)
	}
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, s.View())
}

// Reload handles POST .../reload
func (h *IdeaMapHandler) Reload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.Load(r.Context()); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, s.View())
}

// DismissNotice handles DELETE .../notices/{noticeID}
func (h *IdeaMapHandler) DismissNotice(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "noticeID"))
	if err != nil {
		respondAppError(w, r, h.logger, apperrors.NewValidationError("notice id must be a number"))
		return
	}
	if !s.DismissNotice(id) {
		respondAppError(w, r, h.logger, apperrors.NewNotFoundError("notice "+strconv.Itoa(id)))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func nodeView(n domain.Node, editing bool) app.NodeView {
	return app.NodeView{
		ID:       n.ID,
		Type:     domain.NodeType,
		Position: n.Position,
		Data: app.NodeViewData{
			Label:   n.Label,
			Color:   n.Color,
			Memo:    n.Memo,
			Style:   n.Color.Style(),
			Editing: editing,
		},
	}
}

func edgeView(e domain.Edge) app.EdgeView {
	return app.EdgeView{
		ID:           e.ID,
		Source:       e.Source,
		Target:       e.Target,
		SourceHandle: e.SourceHandle,
		TargetHandle: e.TargetHandle,
	}
}
