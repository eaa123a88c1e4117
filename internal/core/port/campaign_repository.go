package port

import (
	"context"
	"time"

	"market-ads/internal/core/domain"
)

// CampaignRepository is the persistence port of the campaign engine.
// Implementations must be concurrency-safe. Slot occupancy is never stored
// separately: it is always derived from campaign rows, so there is no second
// source of truth to drift.
type CampaignRepository interface {
	// Insert stores a newly created campaign.
	Insert(ctx context.Context, c *domain.Campaign) error

	// Get returns a campaign by id, or ErrCampaignNotFound.
	Get(ctx context.Context, id string) (*domain.Campaign, error)

	// Transition persists c's mutable fields guarded by the expected
	// previous statuses: the row is updated only while its stored status is
	// one of from. Zero matched rows yield ErrInvalidTransition, so the
	// guard is re-checked at write time rather than against a stale read.
	// A violation of the per-owner slot uniqueness index yields
	// ErrSlotUnavailable.
	Transition(ctx context.Context, c *domain.Campaign, from ...domain.Status) error

	// UpdateContent persists title, description and media fields guarded by
	// the content-editable statuses.
	UpdateContent(ctx context.Context, c *domain.Campaign) error

	// Renew atomically applies a guarded transition and appends one renewal
	// history entry in the same transaction.
	Renew(ctx context.Context, c *domain.Campaign, ren *domain.Renewal, from ...domain.Status) error

	// ListRenewals returns the append-only renewal history, oldest first.
	ListRenewals(ctx context.Context, campaignID string) ([]domain.Renewal, error)

	// OccupiedSlots returns the slot numbers the owner currently holds for
	// the ad type, counting pending and active campaigns whose end date is
	// after now.
	OccupiedSlots(ctx context.Context, adType domain.AdType, ownerID string, now time.Time) ([]int, error)

	// OwnerHoldsSlot reports whether the owner already has a pending or
	// active campaign on (adType, slot).
	OwnerHoldsSlot(ctx context.Context, ownerID string, adType domain.AdType, slot int, now time.Time) (bool, error)

	// IncrementViews and IncrementClicks bump the analytics counters with a
	// single atomic statement that also recomputes the click-through rate.
	IncrementViews(ctx context.Context, id string) error
	IncrementClicks(ctx context.Context, id string) error

	// ListExpiringSoon returns active campaigns ending within the window
	// that have not been warned yet.
	ListExpiringSoon(ctx context.Context, now time.Time, window time.Duration) ([]domain.Campaign, error)

	// MarkExpiryWarned sets the warning flag so the campaign is not warned
	// twice.
	MarkExpiryWarned(ctx context.Context, id string, now time.Time) error

	// ExpireDue moves every active campaign whose end date has passed to
	// expired and returns how many rows changed. Idempotent.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)

	// ListAutoRenewable returns expired campaigns with auto-renew enabled.
	ListAutoRenewable(ctx context.Context, now time.Time) ([]domain.Campaign, error)
}
