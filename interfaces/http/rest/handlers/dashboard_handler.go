package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"devdash-backend/application/services"
	"devdash-backend/pkg/common"
)

type DashboardHandler struct {
	service *services.DashboardService
	logger  *zap.Logger
}

func NewDashboardHandler(service *services.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, logger: logger}
}

// GetSummary handles GET /dashboard
func (h *DashboardHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := h.service.Summary(r.Context(), viewerFrom(r))
	if err != nil {
		respondAppError(w, r, h.logger, err)
		return
	}
	common.RespondJSON(w, http.StatusOK, sum)
}
