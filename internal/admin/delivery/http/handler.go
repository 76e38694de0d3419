package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/cineshelf/cineshelf/internal/admin/usecase/query"
	"github.com/cineshelf/cineshelf/internal/middleware"
	"github.com/cineshelf/cineshelf/pkg/response"
)

// Handler serves the admin dashboard endpoints.
type Handler struct {
	statsHandler *query.StatsHandler
	auth         *middleware.Authenticator
}

// NewHandler creates an admin HTTP handler
func NewHandler(statsHandler *query.StatsHandler, auth *middleware.Authenticator) *Handler {
	return &Handler{statsHandler: statsHandler, auth: auth}
}

// Stats handles GET /api/admin/stats
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle()
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, "Stats retrieved successfully", stats)
}

// RegisterRoutes registers admin routes
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/admin/stats", h.auth.Admin(h.Stats)).Methods("GET")
}
