package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CompleteTask handles the worker completion routes
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	requestID := chi.URLParam(r, "requestId")
	if requestID == "" {
		requestID = chi.URLParam(r, "taskId")
	}

	result, err := h.svc.CompleteTask(r.Context(), actor, requestID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Task completed successfully",
		"worker":  result.Worker,
		"request": result.Request,
	})
}

// WorkerProfile handles GET /api/worker/profile
func (h *Handler) WorkerProfile(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	profile, err := h.svc.WorkerProfile(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"worker": profile})
}

// CurrentTask handles GET /api/worker/current-task
func (h *Handler) CurrentTask(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	task, err := h.svc.CurrentTask(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"currentTask": task})
}

// CompletedTasks handles GET /api/worker/tasks
func (h *Handler) CompletedTasks(w http.ResponseWriter, r *http.Request) {
	actor, ok := h.actor(w, r)
	if !ok {
		return
	}
	tasks, err := h.svc.CompletedTasks(r.Context(), actor)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tasks": tasks})
}
