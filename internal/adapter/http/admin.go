package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleApprove moves a pending campaign to active.
func (h *Handler) handleApprove(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		http.Error(w, "missing admin", http.StatusUnauthorized)
		return
	}
	if err := h.svc.Approve(r.Context(), chi.URLParam(r, "id"), admin); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// handleReject moves a pending campaign to rejected with a stored reason.
func (h *Handler) handleReject(w http.ResponseWriter, r *http.Request) {
	admin := adminID(r)
	if admin == "" {
		http.Error(w, "missing admin", http.StatusUnauthorized)
		return
	}
	var req rejectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.Reject(r.Context(), chi.URLParam(r, "id"), admin, req.Reason); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
