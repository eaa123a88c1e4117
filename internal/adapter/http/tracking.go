package httpadapter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleRecordView increments the view counter. Public and fire-and-forget:
// the display layer calls it on every rotation tick.
func (h *Handler) handleRecordView(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RecordView(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleRecordClick increments the click counter.
func (h *Handler) handleRecordClick(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.RecordClick(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
