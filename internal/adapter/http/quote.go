package httpadapter

import (
	"net/http"
	"strconv"

	"market-ads/internal/core/domain"
)

// handleQuote prices a placement. Public, no auth, no state: it simply
// exposes the pricing engine. Expects ad_type and duration query parameters.
func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	adType := domain.AdType(q.Get("ad_type"))
	months, err := strconv.Atoi(q.Get("duration"))
	if err != nil {
		http.Error(w, "invalid duration", http.StatusBadRequest)
		return
	}
	breakdown, err := h.svc.Quote(adType, months)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, breakdown)
}

// handleAvailableSlots lists the slots the calling owner may still book for
// a slot-bearing ad type.
func (h *Handler) handleAvailableSlots(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	adType := domain.AdType(r.URL.Query().Get("ad_type"))
	slots, err := h.svc.AvailableSlots(r.Context(), adType, owner)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string][]int{"available_slots": slots})
}
