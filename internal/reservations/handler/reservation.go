package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roombook/internal/reservations/service"
	"roombook/pkg/auth"
	apperrors "roombook/pkg/errors"
	httputil "roombook/pkg/http"
	"roombook/pkg/logger"
	"roombook/pkg/middleware"
	"roombook/pkg/model"
)

type ReservationHandler struct {
	service service.ReservationService
	query   service.QueryService
	log     *logger.Logger
}

func NewReservationHandler(reservations service.ReservationService, query service.QueryService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: reservations,
		query:   query,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requester, ok := h.requester(w, r, "Create")
	if !ok {
		return
	}

	var req model.CreateReservationRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	id, err := h.service.Create(r.Context(), requester, &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	w.Header().Set("Location", "/api/v1/reservations/id/"+id)
	if err := httputil.WriteCreated(w, model.CreateReservationResponse{ID: id}); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	reservation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	requester, ok := h.requester(w, r, "Delete")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), requester, ps.ByName("id")); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *ReservationHandler) ListBySpace(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, pageSize, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "ListBySpace", err)
		return
	}

	result, err := h.query.ListBySpace(r.Context(), page, pageSize, ps.ByName("space_id"))
	if err != nil {
		h.writeError(w, "ListBySpace", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ListBySpace", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) ListByMember(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	page, pageSize, err := httputil.ExtractPage(r)
	if err != nil {
		h.writeError(w, "ListByMember", err)
		return
	}

	result, err := h.query.ListByMember(r.Context(), page, pageSize, ps.ByName("member_id"))
	if err != nil {
		h.writeError(w, "ListByMember", err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "ListByMember", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.DELETE("/api/v1/reservations/id/:id", h.Delete)
	router.GET("/api/v1/reservations/space/:space_id", h.ListBySpace)
	router.GET("/api/v1/reservations/member/:member_id", h.ListByMember)
}

func (h *ReservationHandler) requester(w http.ResponseWriter, r *http.Request, handler string) (auth.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		h.writeError(w, handler, apperrors.Unauthorized("Authentication required"))
	}
	return principal, ok
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

// decodeBody reads a single JSON object. Unknown fields and trailing data
// are rejected.
func decodeBody(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(target); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperrors.PayloadTooLarge(tooLarge.Limit)
		}
		return apperrors.MalformedInput(service.ReasonFields, "Invalid request body")
	}
	if decoder.More() {
		return apperrors.MalformedInput(service.ReasonFields, "Request body must contain a single JSON object")
	}
	return nil
}
