package httpadapter

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"market-ads/internal/core/port"
)

// handleCancel cancels a pending or active campaign for its owner.
func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	if err := h.svc.Cancel(r.Context(), chi.URLParam(r, "id"), owner); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type renewRequest struct {
	DurationMonths int    `json:"duration_months" validate:"required"`
	PaymentID      string `json:"payment_id" validate:"required"`
}

// handleRenew manually renews an expired or cancelled campaign.
func (h *Handler) handleRenew(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	var req renewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, err := h.svc.Renew(r.Context(), chi.URLParam(r, "id"), owner, req.DurationMonths, req.PaymentID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResponse(c, nil))
}

type autoRenewRequest struct {
	Enabled bool `json:"enabled"`
}

// handleSetAutoRenew toggles automatic renewal.
func (h *Handler) handleSetAutoRenew(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	var req autoRenewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.svc.SetAutoRenew(r.Context(), chi.URLParam(r, "id"), owner, req.Enabled); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateContentRequest struct {
	Title         string `json:"title" validate:"omitempty,max=200"`
	Description   string `json:"description" validate:"omitempty,max=2000"`
	MediaURL      string `json:"media_url" validate:"omitempty,url"`
	MediaPublicID string `json:"media_public_id"`
}

// handleUpdateContent edits title/description/media while the campaign has
// not been approved yet.
func (h *Handler) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	var req updateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	err := h.svc.UpdateContent(r.Context(), port.UpdateContentReq{
		CampaignID:    chi.URLParam(r, "id"),
		OwnerID:       owner,
		Title:         req.Title,
		Description:   req.Description,
		MediaURL:      req.MediaURL,
		MediaPublicID: req.MediaPublicID,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
