package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"devdash-backend/application/services"
	"devdash-backend/domain/note"
	"devdash-backend/pkg/common"
)

type NoteHandler struct {
	service *services.NoteService
	logger  *zap.Logger
}

func NewNoteHandler(service *services.NoteService, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{service: service, logger: logger}
}

func (h *NoteHandler) Routes(r chi.Router) {
	r.Get("/", h.ListNotes)
	r.Post("/", h.CreateNote)
	r.Get("/shared/{token}", h.GetSharedNote)
	r.Delete("/{noteID}", h.DeleteNote)
	r.Post("/{noteID}/share", h.ToggleShare)
}

type CreateNoteRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category,omitempty"`
}

// NoteResponse adds the public link to shared notes.
type NoteResponse struct {
	*note.Note
	ShareURL string `json:"share_url,omitempty"`
}

func (h *NoteHandler) response(n *note.Note) NoteResponse {
	resp := NoteResponse{Note: n}
	if n.IsShared {
		resp.ShareURL = h.service.ShareURL(n)
	}
	return resp
}

// ListNotes handles GET /notes?q=
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.service.List(r.Context(), viewerFrom(r), r.URL.Query().Get("q"))
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	out := make([]NoteResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, h.response(n))
	}
	common.RespondWithMeta(w, http.StatusOK, out, &common.MetaInfo{Count: len(out)})
}

// CreateNote handles POST /notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if err := decode(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	n, err := h.service.Create(r.Context(), viewerFrom(r), req.Title, req.Content, req.Category)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, h.response(n))
}

// DeleteNote handles DELETE /notes/{noteID}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), viewerFrom(r), chi.URLParam(r, "noteID")); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleShare handles POST /notes/{noteID}/share
func (h *NoteHandler) ToggleShare(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.ToggleShare(r.Context(), viewerFrom(r), chi.URLParam(r, "noteID"))
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.response(n))
}

// GetSharedNote handles GET /notes/shared/{token}. No sign-in needed.
func (h *NoteHandler) GetSharedNote(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.GetShared(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, h.response(n))
}
