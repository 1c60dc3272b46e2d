package handler

import (
	"net/http"

	"github.com/ooo-portfolio/backend/internal/logging"
	"github.com/ooo-portfolio/backend/internal/service"
)

// DashboardHandler は管理画面ダッシュボードの HTTP ハンドラ
type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats は GET /api/admin/dashboard を処理する
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		logging.FromContext(r.Context()).Error("dashboard stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
