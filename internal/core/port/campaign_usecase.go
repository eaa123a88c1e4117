package port

import (
	"context"

	"market-ads/internal/core/domain"
)

// CampaignUseCase is the primary port into the campaign engine. It owns the
// lifecycle state machine and delegates pricing and slot accounting to the
// pricing engine and the repository.
type CampaignUseCase interface {
	// Quote prices a placement without touching any state. Public.
	Quote(adType domain.AdType, months int) (domain.PriceBreakdown, error)

	// AvailableSlots lists the slot numbers the owner could still book for
	// a slot-bearing ad type. Other owners sharing a slot does not make it
	// unavailable: occupants rotate at display time.
	AvailableSlots(ctx context.Context, adType domain.AdType, ownerID string) ([]int, error)

	// Create books a campaign in awaiting_payment with its price computed
	// and stored. The slot (when applicable) is pre-checked but not
	// reserved until the campaign leaves awaiting_payment.
	Create(ctx context.Context, req CreateCampaignReq) (*domain.Campaign, error)

	// Get returns a campaign with its renewal history.
	Get(ctx context.Context, id string) (*domain.Campaign, []domain.Renewal, error)

	// OnPaymentCompleted consumes the payment-completed signal and moves
	// the campaign from awaiting_payment to pending.
	OnPaymentCompleted(ctx context.Context, campaignID, paymentID, method string) error

	// Approve moves a pending campaign to active, occupying its slot.
	Approve(ctx context.Context, campaignID, adminID string) error

	// Reject moves a pending campaign to rejected and flags the payment
	// for refund.
	Reject(ctx context.Context, campaignID, adminID, reason string) error

	// Cancel moves a pending or active campaign to cancelled and forces
	// auto-renew off.
	Cancel(ctx context.Context, campaignID, ownerID string) error

	// Renew reactivates an expired or cancelled campaign for a fresh
	// duration priced at current rates. The new end date is based on now,
	// not on the old end date.
	Renew(ctx context.Context, campaignID, ownerID string, months int, paymentID string) (*domain.Campaign, error)

	// SetAutoRenew toggles automatic renewal. Owner only.
	SetAutoRenew(ctx context.Context, campaignID, ownerID string, enabled bool) error

	// UpdateContent edits title/description/media while the campaign has
	// not been approved yet. Replaced media is deleted from the media
	// store best-effort.
	UpdateContent(ctx context.Context, req UpdateContentReq) error

	// RecordView and RecordClick bump the analytics counters. Public,
	// fire-and-forget.
	RecordView(ctx context.Context, campaignID string) error
	RecordClick(ctx context.Context, campaignID string) error
}

// CreateCampaignReq carries everything needed to book a campaign.
type CreateCampaignReq struct {
	OwnerID        string
	AdType         domain.AdType
	SlotNumber     *int
	DurationMonths int
	Title          string
	Description    string
	MediaURL       string
	MediaPublicID  string
	LinkTarget     string
	AutoRenew      bool
}

// UpdateContentReq carries a content edit. Empty fields are left unchanged;
// a new MediaPublicID replaces (and deletes) the previous media.
type UpdateContentReq struct {
	CampaignID    string
	OwnerID       string
	Title         string
	Description   string
	MediaURL      string
	MediaPublicID string
}
