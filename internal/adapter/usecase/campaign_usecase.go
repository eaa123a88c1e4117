package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"market-ads/internal/core/domain"
	"market-ads/internal/core/port"
	"market-ads/internal/core/pricing"
)

// CampaignUseCase owns the campaign lifecycle state machine. It orchestrates
// the pricing engine, the repository and the external collaborators to
// implement the port.CampaignUseCase interface.
type CampaignUseCase struct {
	repo      port.CampaignRepository
	pricer    *pricing.Engine
	directory port.ShopDirectory
	media     port.MediaStore
	notifier  port.Notifier
	logger    *slog.Logger

	slots *slotLocks
}

// NewCampaignUseCase wires the engine together.
func NewCampaignUseCase(
	repo port.CampaignRepository,
	pricer *pricing.Engine,
	directory port.ShopDirectory,
	media port.MediaStore,
	notifier port.Notifier,
	logger *slog.Logger,
) *CampaignUseCase {
	return &CampaignUseCase{
		repo:      repo,
		pricer:    pricer,
		directory: directory,
		media:     media,
		notifier:  notifier,
		logger:    logger,
		slots:     newSlotLocks(),
	}
}

// Quote prices a placement. Pure pass-through to the pricing engine.
func (u *CampaignUseCase) Quote(adType domain.AdType, months int) (domain.PriceBreakdown, error) {
	return u.pricer.Quote(adType, months)
}

// AvailableSlots returns the ascending slot numbers the owner does not
// already hold for adType. Slots held by other owners stay available:
// occupants share a slot and rotate at display time.
func (u *CampaignUseCase) AvailableSlots(ctx context.Context, adType domain.AdType, ownerID string) ([]int, error) {
	if !adType.Known() {
		return nil, port.ErrInvalidAdType
	}
	if !adType.SlotBased() {
		return nil, port.ErrNotSlotBased
	}
	held, err := u.repo.OccupiedSlots(ctx, adType, ownerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	taken := make(map[int]bool, len(held))
	for _, s := range held {
		taken[s] = true
	}
	free := make([]int, 0, domain.SlotMax)
	for s := domain.SlotMin; s <= domain.SlotMax; s++ {
		if !taken[s] {
			free = append(free, s)
		}
	}
	return free, nil
}

// Create validates the booking, computes and stores the price and inserts
// the campaign in awaiting_payment. The slot is only pre-checked here: an
// unpaid booking does not occupy it yet.
func (u *CampaignUseCase) Create(ctx context.Context, req port.CreateCampaignReq) (*domain.Campaign, error) {
	if !req.AdType.Known() {
		return nil, port.ErrInvalidAdType
	}
	if !u.pricer.Valid(req.DurationMonths) {
		return nil, port.ErrInvalidDuration
	}
	if req.AdType.SlotBased() {
		if req.SlotNumber == nil || *req.SlotNumber < domain.SlotMin || *req.SlotNumber > domain.SlotMax {
			return nil, port.ErrSlotRequired
		}
		if req.MediaURL == "" {
			return nil, port.ErrMediaRequired
		}
	} else if req.SlotNumber != nil {
		return nil, port.ErrNotSlotBased
	}
	if err := u.directory.ResolveLinkTarget(ctx, req.OwnerID, req.LinkTarget); err != nil {
		return nil, err
	}

	price, err := u.pricer.Quote(req.AdType, req.DurationMonths)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c := &domain.Campaign{
		ID:              uuid.NewString(),
		OwnerID:         req.OwnerID,
		AdType:          req.AdType,
		SlotNumber:      req.SlotNumber,
		DurationMonths:  req.DurationMonths,
		BasePrice:       price.BasePrice,
		DiscountPercent: price.DiscountPercent,
		TotalPrice:      price.TotalPrice,
		Status:          domain.StatusAwaitingPayment,
		PaymentStatus:   domain.PaymentPending,
		StartDate:       now,
		EndDate:         now.AddDate(0, req.DurationMonths, 0),
		AutoRenew:       req.AutoRenew,
		Title:           req.Title,
		Description:     req.Description,
		MediaURL:        req.MediaURL,
		MediaPublicID:   req.MediaPublicID,
		LinkTarget:      req.LinkTarget,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.AdType.SlotBased() {
		unlock := u.slots.lock(req.OwnerID, req.AdType, *req.SlotNumber)
		defer unlock()

		held, err := u.repo.OwnerHoldsSlot(ctx, req.OwnerID, req.AdType, *req.SlotNumber, now)
		if err != nil {
			return nil, err
		}
		if held {
			return nil, port.ErrSlotUnavailable
		}
	}

	if err := u.repo.Insert(ctx, c); err != nil {
		return nil, fmt.Errorf("insert campaign: %w", err)
	}
	return c, nil
}

// Get returns a campaign with its renewal history.
func (u *CampaignUseCase) Get(ctx context.Context, id string) (*domain.Campaign, []domain.Renewal, error) {
	c, err := u.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	renewals, err := u.repo.ListRenewals(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, renewals, nil
}

// OnPaymentCompleted consumes the external payment-completed signal and
// moves the campaign into pending review. Occupancy starts here, so the slot
// is checked again under the per-slot lock: two unpaid bookings may coexist
// but only the first payment wins the slot.
func (u *CampaignUseCase) OnPaymentCompleted(ctx context.Context, campaignID, paymentID, method string) error {
	c, err := u.repo.Get(ctx, campaignID)
	if err != nil {
		return err
	}
	if c.Status != domain.StatusAwaitingPayment {
		return port.ErrInvalidTransition
	}

	now := time.Now().UTC()
	if c.AdType.SlotBased() {
		unlock := u.slots.lock(c.OwnerID, c.AdType, *c.SlotNumber)
		defer unlock()

		held, err := u.repo.OwnerHoldsSlot(ctx, c.OwnerID, c.AdType, *c.SlotNumber, now)
		if err != nil {
			return err
		}
		if held {
			return port.ErrSlotUnavailable
		}
	}

	c.Status = domain.StatusPending
	c.PaymentStatus = domain.PaymentCompleted
	c.UpdatedAt = now
	if err := u.repo.Transition(ctx, c, domain.StatusAwaitingPayment); err != nil {
		return err
	}
	u.logger.Info("payment completed",
		slog.String("campaign_id", campaignID),
		slog.String("payment_id", paymentID),
		slog.String("method", method))
	return nil
}

// Approve moves a pending, paid campaign to active. From this point the
// campaign occupies its slot and its content is frozen.
func (u *CampaignUseCase) Approve(ctx context.Context, campaignID, adminID string) error {
	c, err := u.repo.Get(ctx, campaignID)
	if err != nil {
		return err
	}
	if c.Status != domain.StatusPending {
		return port.ErrInvalidTransition
	}
	if c.PaymentStatus != domain.PaymentCompleted {
		return port.ErrPaymentNotCompleted
	}

	now := time.Now().UTC()
	c.Status = domain.StatusActive
	c.ApprovedBy = adminID
	c.ApprovedAt = &now
	c.UpdatedAt = now
	if err := u.repo.Transition(ctx, c, domain.StatusPending); err != nil {
		return err
	}
	u.notify(ctx, c.OwnerID, "Your advertisement was approved",
		fmt.Sprintf("Campaign %q is now live until %s.", c.Title, c.EndDate.Format("2006-01-02")))
	return nil
}

// Reject moves a pending campaign to rejected and flags the payment for
// refund. The refund itself is handled by the payment collaborator.
func (u *CampaignUseCase) Reject(ctx context.Context, campaignID, adminID, reason string) error {
	c, err := u.repo.Get(ctx, campaignID)
	if err != nil {
		return err
	}
	if c.Status != domain.StatusPending {
		return port.ErrInvalidTransition
	}

	c.Status = domain.StatusRejected
	c.PaymentStatus = domain.PaymentRefunded
	c.RejectionReason = reason
	c.UpdatedAt = time.Now().UTC()
	if err := u.repo.Transition(ctx, c, domain.StatusPending); err != nil {
		return err
	}
	u.logger.Info("campaign rejected",
		slog.String("campaign_id", campaignID),
		slog.String("admin_id", adminID),
		slog.String("reason", reason))
	u.notify(ctx, c.OwnerID, "Your advertisement was rejected",
		fmt.Sprintf("Campaign %q was rejected: %s. Your payment will be refunded.", c.Title, reason))
	return nil
}

// Cancel moves a pending or active campaign to cancelled and forces
// auto-renew off so the scheduler never resurrects it.
func (u *CampaignUseCase) Cancel(ctx context.Context, campaignID, ownerID string) error {
	c, err := u.repo.Get(ctx, campaignID)
	if err != nil {
		return err
	}
	if c.OwnerID != ownerID {
		return port.ErrUnauthorized
	}
	if c.Status != domain.StatusPending && c.Status != domain.StatusActive {
		return port.ErrInvalidTransition
	}

	c.Status = domain.StatusCancelled
	c.AutoRenew = false
	c.UpdatedAt = time.Now().UTC()
	return u.repo.Transition(ctx, c, domain.StatusPending, domain.StatusActive)
}

// Renew reactivates an expired or cancelled campaign for a fresh duration
// priced at current rates. The new end date is based on now, not on the old
// end date, and exactly one renewal history entry is appended.
func (u *CampaignUseCase) Renew(ctx context.Context, campaignID, ownerID string, months int, paymentID string) (*domain.Campaign, error) {
	c, err := u.repo.Get(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if c.OwnerID != ownerID {
		return nil, port.ErrUnauthorized
	}
	if c.Status != domain.StatusExpired && c.Status != domain.StatusCancelled {
		return nil, port.ErrInvalidTransition
	}
	price, err := u.pricer.Quote(c.AdType, months)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	from := c.Status
	if c.AdType.SlotBased() {
		unlock := u.slots.lock(c.OwnerID, c.AdType, *c.SlotNumber)
		defer unlock()

		held, err := u.repo.OwnerHoldsSlot(ctx, c.OwnerID, c.AdType, *c.SlotNumber, now)
		if err != nil {
			return nil, err
		}
		if held {
			return nil, port.ErrSlotUnavailable
		}
	}

	c.Status = domain.StatusActive
	c.PaymentStatus = domain.PaymentCompleted
	c.DurationMonths = months
	c.BasePrice = price.BasePrice
	c.DiscountPercent = price.DiscountPercent
	c.TotalPrice = price.TotalPrice
	c.EndDate = now.AddDate(0, months, 0)
	c.ExpiryWarningEmailed = false
	c.UpdatedAt = now

	ren := &domain.Renewal{
		CampaignID:     c.ID,
		RenewedAt:      now,
		DurationMonths: months,
		Price:          price.TotalPrice,
	}
	if err := u.repo.Renew(ctx, c, ren, from); err != nil {
		return nil, err
	}
	u.logger.Info("campaign renewed",
		slog.String("campaign_id", campaignID),
		slog.String("payment_id", paymentID),
		slog.Int("months", months))
	u.notify(ctx, c.OwnerID, "Your advertisement was renewed",
		fmt.Sprintf("Campaign %q runs until %s.", c.Title, c.EndDate.Format("2006-01-02")))
	return c, nil
}

// SetAutoRenew toggles automatic renewal for the owner.
func (u *CampaignUseCase) SetAutoRenew(ctx context.Context, campaignID, ownerID string, enabled bool) error {
	c, err := u.repo.Get(ctx, campaignID)
	if err != nil {
		return err
	}
	if c.OwnerID != ownerID {
		return port.ErrUnauthorized
	}
	c.AutoRenew = enabled
	c.UpdatedAt = time.Now().UTC()
	return u.repo.Transition(ctx, c, c.Status)
}

// UpdateContent edits title, description and media while the campaign has
// not been approved. Replaced media is deleted from the media store
// best-effort: a failed delete leaves an orphan, never a broken campaign.
func (u *CampaignUseCase) UpdateContent(ctx context.Context, req port.UpdateContentReq) error {
	c, err := u.repo.Get(ctx, req.CampaignID)
	if err != nil {
		return err
	}
	if c.OwnerID != req.OwnerID {
		return port.ErrUnauthorized
	}
	if !c.ContentEditable() {
		return port.ErrInvalidTransition
	}

	if req.Title != "" {
		c.Title = req.Title
	}
	if req.Description != "" {
		c.Description = req.Description
	}
	if req.MediaPublicID != "" && req.MediaPublicID != c.MediaPublicID {
		old := c.MediaPublicID
		c.MediaURL = req.MediaURL
		c.MediaPublicID = req.MediaPublicID
		if old != "" {
			if err := u.media.Delete(ctx, old); err != nil {
				u.logger.Warn("media delete failed",
					slog.String("public_id", old), slog.Any("error", err))
			}
		}
	}
	c.UpdatedAt = time.Now().UTC()
	return u.repo.UpdateContent(ctx, c)
}

// RecordView bumps the view counter. Fire-and-forget; the repository uses a
// single atomic statement so concurrent views never undercount
// systematically.
func (u *CampaignUseCase) RecordView(ctx context.Context, campaignID string) error {
	return u.repo.IncrementViews(ctx, campaignID)
}

// RecordClick bumps the click counter.
func (u *CampaignUseCase) RecordClick(ctx context.Context, campaignID string) error {
	return u.repo.IncrementClicks(ctx, campaignID)
}

// notify sends best-effort. Failures are logged and never surface to the
// caller: state transitions matter more than notification delivery.
func (u *CampaignUseCase) notify(ctx context.Context, recipient, subject, body string) {
	if err := u.notifier.Notify(ctx, recipient, subject, body); err != nil {
		u.logger.Warn("notification failed",
			slog.String("recipient", recipient),
			slog.String("subject", subject),
			slog.Any("error", err))
	}
}
