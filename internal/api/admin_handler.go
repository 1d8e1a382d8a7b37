package api

import (
	"net/http"

	"github.com/phrazzld/taskr-api/internal/api/shared"
	"github.com/phrazzld/taskr-api/internal/service"
)

// AdminHandler serves administrator-only endpoints.
type AdminHandler struct {
	statsService service.StatsService
	errors       *ErrorNormalizer
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(statsService service.StatsService, errs *ErrorNormalizer) *AdminHandler {
	return &AdminHandler{statsService: statsService, errors: errs}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity(w, r)
	if !ok {
		return
	}

	stats, err := h.statsService.Dashboard(r.Context(), caller)
	if err != nil {
		h.errors.Respond(w, r, err, nil)
		return
	}

	shared.RespondWithData(w, r, http.StatusOK, "Admin dashboard data fetched successfully", stats)
}
