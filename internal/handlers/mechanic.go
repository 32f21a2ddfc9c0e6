package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/models"
)

// AssignWorker handles POST /api/mechanic/assign-worker
func (h *Handler) AssignWorker(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input models.AssignWorkerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	result, err := h.svc.AssignWorker(r.Context(), actor, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Worker assigned successfully",
		"worker":  result.Worker,
		"request": result.Request,
	})
}

// ListWorkers handles GET /api/mechanic/workers
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	workers, err := h.svc.ListWorkers(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": workers})
}

// ListAvailableWorkers handles GET /api/mechanic/available-workers
func (h *Handler) ListAvailableWorkers(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	workers, err := h.svc.ListAvailableWorkers(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workers": workers})
}

// AddWorker handles POST /api/mechanic/workers
func (h *Handler) AddWorker(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input models.CreateWorkerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	worker, err := h.svc.AddWorker(r.Context(), actor, input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Worker added successfully",
		"worker":  worker,
	})
}

// UpdateWorker handles PUT /api/mechanic/workers/{id}
func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input models.UpdateWorkerInput
	if !decodeJSON(w, r, &input) {
		return
	}

	worker, err := h.svc.UpdateWorker(r.Context(), actor, chi.URLParam(r, "id"), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Worker updated successfully",
		"worker":  worker,
	})
}

// DeleteWorker handles DELETE /api/mechanic/workers/{id}
func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteWorker(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Worker deleted successfully"})
}

// ListMechanicRequests handles GET /api/mechanic/requests?status=
func (h *Handler) ListMechanicRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requests, err := h.svc.ListMechanicRequests(r.Context(), actor, r.URL.Query().Get("status"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// UpdateRequestStatus handles the mechanic status routes
func (h *Handler) UpdateRequestStatus(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	var input models.StatusUpdateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	req, err := h.svc.UpdateRequestStatus(r.Context(), actor, chi.URLParam(r, "requestId"), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Request status updated successfully",
		"request": req,
	})
}
