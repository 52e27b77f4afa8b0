package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"queendoctor/internal/bookings/service"
	httputil "queendoctor/pkg/http"
	"queendoctor/pkg/logger"
	"queendoctor/pkg/middleware"
	"queendoctor/pkg/model"
)

type BookingHandler struct {
	service      service.BookingService
	requireToken func(http.Handler) http.Handler
	log          *logger.Logger
}

// NewBookingHandler wires the booking routes. requireToken guards the listing
// endpoint only; the write endpoints stay open.
func NewBookingHandler(service service.BookingService, requireToken func(http.Handler) http.Handler, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:      service,
		requireToken: requireToken,
		log:          log,
	}
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := model.BookingFilter{
		Email:    query.Get("email"),
		Unscoped: !query.Has("email"),
	}

	bookings, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteOK(w, bookings); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := httputil.DecodeObject(r)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	result, err := h.service.Create(r.Context(), model.Booking(body))
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Create", "operation", "WriteOK", "error", err)
	}
}

// UpdateStatus accepts an empty body, which clears status to null.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.StatusUpdate
	if r.ContentLength != 0 {
		body, err := httputil.DecodeObject(r)
		if err != nil {
			h.writeError(w, "UpdateStatus", err)
			return
		}
		update.Status = body["status"]
	}

	result, err := h.service.UpdateStatus(r.Context(), ps.ByName("id"), update)
	if err != nil {
		h.writeError(w, "UpdateStatus", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "UpdateStatus", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	result, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	if err := httputil.WriteOK(w, result); err != nil {
		h.log.Error("failed to write success response", "handler", "Delete", "operation", "WriteOK", "error", err)
	}
}

func (h *BookingHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/bookings", middleware.Route(h.List, h.requireToken))
	router.POST("/bookings", h.Create)
	router.PATCH("/bookings/:id", h.UpdateStatus)
	router.DELETE("/bookings/:id", h.Delete)
}
