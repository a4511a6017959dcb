package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"devdash-backend/application/services"
	"devdash-backend/pkg/common"
)

type SnippetHandler struct {
	service *services.SnippetService
	logger  *zap.Logger
}

func NewSnippetHandler(service *services.SnippetService, logger *zap.Logger) *SnippetHandler {
	return &SnippetHandler{service: service, logger: logger}
}

func (h *SnippetHandler) Routes(r chi.Router) {
	r.Get("/", h.ListSnippets)
	r.Post("/", h.CreateSnippet)
	r.Delete("/{snippetID}", h.DeleteSnippet)
}

// CreateSnippetRequest leaves title and code checks to the domain so blank
// strings get the same message everywhere.
type CreateSnippetRequest struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// ListSnippets handles GET /snippets
func (h *SnippetHandler) ListSnippets(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context())
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondWithMeta(w, http.StatusOK, list, &common.MetaInfo{Count: len(list)})
}

// CreateSnippet handles POST /snippets
func (h *SnippetHandler) CreateSnippet(w http.ResponseWriter, r *http.Request) {
	var req CreateSnippetRequest
	if err := decode(w, r, &req); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	s, err := h.service.Create(r.Context(), req.Title, req.Code, req.Language)
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusCreated, s)
}

// DeleteSnippet handles DELETE /snippets/{snippetID}
func (h *SnippetHandler) DeleteSnippet(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "snippetID")); err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
