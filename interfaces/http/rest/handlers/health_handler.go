package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"devdash-backend/application/ports"
	"devdash-backend/pkg/common"
)

// HealthHandler answers liveness and readiness probes. Readiness reads the
// idea-map record, so a store that is down or unreachable fails it.
type HealthHandler struct {
	store   ports.IdeaMapStore
	timeout time.Duration
	logger  *zap.Logger
}

func NewHealthHandler(store ports.IdeaMapStore, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{store: store, timeout: 3 * time.Second, logger: logger}
}

func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	_, err := h.store.ReadOne(ctx)
	if err != nil && !errors.Is(err, ports.ErrRecordNotFound) {
		h.logger.Warn("readiness check failed", zap.Error(err))
		common.RespondError(w, http.StatusServiceUnavailable, "UNAVAILABLE", "record store unreachable")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]any{
		"status":         "ready",
		"ideamap_record": err == nil,
	})
}
