package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/reservations/service"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
)

type SpaceHandler struct {
	query service.QueryService
	log   *logger.Logger
}

func NewSpaceHandler(query service.QueryService, log *logger.Logger) *SpaceHandler {
	return &SpaceHandler{
		query: query,
		log:   log,
	}
}

func (h *SpaceHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	page, pageSize, err := httputil.ExtractPage(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSpaces", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	result, err := h.query.ListSpaces(r.Context(), page, pageSize)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListSpaces", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ListSpaces", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SpaceHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	space, err := h.query.GetSpace(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetSpace", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, space); err != nil {
		h.log.Error("failed to write success response", "handler", "GetSpace", "operation", "WriteSuccess", "error", err)
	}
}

func (h *SpaceHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/spaces", h.List)
	router.GET("/api/v1/spaces/id/:id", h.GetByID)
}
