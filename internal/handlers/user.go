package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// CreateRequest handles POST /api/user/services/requests
func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input models.CreateRequestInput
	if !decodeJSON(w, r, &input) {
		return
	}

	req, err := h.svc.CreateRequest(r.Context(), actor, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Service request created successfully",
		"request": req,
	})
}

// ListUserRequests handles GET /api/user/services/requests
func (h *Handler) ListUserRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requests, err := h.svc.ListUserRequests(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// CancelRequest handles POST /api/user/services/requests/{requestId}/cancel
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	req, err := h.svc.CancelRequest(r.Context(), actor, chi.URLParam(r, "requestId"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Request cancelled successfully",
		"request": req,
	})
}
