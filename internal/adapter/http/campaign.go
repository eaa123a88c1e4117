package httpadapter

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"market-ads/internal/core/domain"
	"market-ads/internal/core/port"
)

type createCampaignRequest struct {
	AdType         string `json:"ad_type" validate:"required"`
	SlotNumber     *int   `json:"slot_number"`
	DurationMonths int    `json:"duration_months" validate:"required"`
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"max=2000"`
	MediaURL       string `json:"media_url" validate:"omitempty,url"`
	MediaPublicID  string `json:"media_public_id"`
	LinkTarget     string `json:"link_target" validate:"required"`
	AutoRenew      bool   `json:"auto_renew"`
}

type campaignResponse struct {
	ID               string                `json:"id"`
	OwnerID          string                `json:"owner_id"`
	AdType           string                `json:"ad_type"`
	SlotNumber       *int                  `json:"slot_number,omitempty"`
	DurationMonths   int                   `json:"duration_months"`
	Price            domain.PriceBreakdown `json:"price"`
	Status           string                `json:"status"`
	PaymentStatus    string                `json:"payment_status"`
	StartDate        time.Time             `json:"start_date"`
	EndDate          time.Time             `json:"end_date"`
	AutoRenew        bool                  `json:"auto_renew"`
	Views            int64                 `json:"views"`
	Clicks           int64                 `json:"clicks"`
	ClickThroughRate float64               `json:"click_through_rate"`
	Title            string                `json:"title"`
	Description      string                `json:"description,omitempty"`
	MediaURL         string                `json:"media_url,omitempty"`
	LinkTarget       string                `json:"link_target"`
	RejectionReason  string                `json:"rejection_reason,omitempty"`
	RenewalHistory   []renewalResponse     `json:"renewal_history,omitempty"`
}

type renewalResponse struct {
	RenewedAt      time.Time `json:"renewed_at"`
	DurationMonths int       `json:"duration_months"`
	Price          int64     `json:"price"`
}

func toCampaignResponse(c *domain.Campaign, renewals []domain.Renewal) campaignResponse {
	resp := campaignResponse{
		ID:             c.ID,
		OwnerID:        c.OwnerID,
		AdType:         string(c.AdType),
		SlotNumber:     c.SlotNumber,
		DurationMonths: c.DurationMonths,
		Price: domain.PriceBreakdown{
			BasePrice:       c.BasePrice,
			DiscountPercent: c.DiscountPercent,
			TotalPrice:      c.TotalPrice,
		},
		Status:           string(c.Status),
		PaymentStatus:    string(c.PaymentStatus),
		StartDate:        c.StartDate,
		EndDate:          c.EndDate,
		AutoRenew:        c.AutoRenew,
		Views:            c.Views,
		Clicks:           c.Clicks,
		ClickThroughRate: c.ClickThroughRate,
		Title:            c.Title,
		Description:      c.Description,
		MediaURL:         c.MediaURL,
		LinkTarget:       c.LinkTarget,
		RejectionReason:  c.RejectionReason,
	}
	for _, ren := range renewals {
		resp.RenewalHistory = append(resp.RenewalHistory, renewalResponse{
			RenewedAt:      ren.RenewedAt,
			DurationMonths: ren.DurationMonths,
			Price:          ren.Price,
		})
	}
	return resp
}

// handleCreate books a new campaign for the calling owner. The campaign
// starts in awaiting_payment; the payment-completed signal moves it on.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	owner := ownerID(r)
	if owner == "" {
		http.Error(w, "missing owner", http.StatusUnauthorized)
		return
	}
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c, err := h.svc.Create(r.Context(), port.CreateCampaignReq{
		OwnerID:        owner,
		AdType:         domain.AdType(req.AdType),
		SlotNumber:     req.SlotNumber,
		DurationMonths: req.DurationMonths,
		Title:          req.Title,
		Description:    req.Description,
		MediaURL:       req.MediaURL,
		MediaPublicID:  req.MediaPublicID,
		LinkTarget:     req.LinkTarget,
		AutoRenew:      req.AutoRenew,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toCampaignResponse(c, nil))
}

// handleGet returns a campaign with its renewal history.
func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	c, renewals, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toCampaignResponse(c, renewals))
}

type paymentCompletedRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Method    string `json:"method" validate:"required"`
}

// handlePaymentCompleted consumes the payment collaborator's completion
// signal and moves the campaign into pending review.
func (h *Handler) handlePaymentCompleted(w http.ResponseWriter, r *http.Request) {
	var req paymentCompletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.svc.OnPaymentCompleted(r.Context(), chi.URLParam(r, "id"), req.PaymentID, req.Method); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
