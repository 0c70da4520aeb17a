package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/reservations/service"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
)

// LogHandler exposes the reservation audit trail to administrators.
type LogHandler struct {
	query service.QueryService
	log   *logger.Logger
}

func NewLogHandler(query service.QueryService, log *logger.Logger) *LogHandler {
	return &LogHandler{
		query: query,
		log:   log,
	}
}

func (h *LogHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, pageSize, err := httputil.ExtractPage(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListLogs", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.query.ListLogs(r.Context(), page, pageSize)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListLogs", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ListLogs", "operation", "WriteSuccess", "error", err)
	}
}

func (h *LogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/reservation-logs", middleware.RequireRole(model.RoleAdmin, h.log, h.List))
}
