package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/middleware"
	"github.com/mihirp5027/Odoo-RoadGuard-404-Not-Found/internal/workflow"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// fail writes err as a JSON error response
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var wfErr *workflow.Error
	if !errors.As(err, &wfErr) {
		wfErr = &workflow.Error{Kind: workflow.KindInternal, Message: "Internal server error", Err: err}
	}

	status := wfErr.HTTPStatus()
	resp := errorResponse{Error: wfErr.Message}
	if status >= http.StatusInternalServerError {
		log.WithError(err).WithFields(log.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).Error("Request failed")
		if h.exposeDetails && wfErr.Err != nil {
			resp.Details = wfErr.Err.Error()
		}
	}
	writeJSON(w, status, resp)
}

// actor resolves the authenticated caller or writes a 401
func (h *Handler) actor(w http.ResponseWriter, r *http.Request) (workflow.Actor, bool) {
	claims, _ := middleware.GetClaimsFromContext(r.Context())
	actor, err := workflow.ActorFromClaims(claims)
	if err != nil {
		h.fail(w, r, err)
		return workflow.Actor{}, false
	}
	return actor, true
}
