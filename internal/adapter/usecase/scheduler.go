package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"market-ads/internal/core/domain"
	"market-ads/internal/core/port"
	"market-ads/internal/core/pricing"
)

// Scheduler ages the campaign population forward in time. Its three jobs are
// idempotent and safe to run concurrently with user-facing requests; each
// takes the clock as an explicit argument so tests can supply fixed
// instants. Within a cycle auto-renewal runs strictly after expiry: a
// campaign must be expired before it can be auto-renewed.
type Scheduler struct {
	repo     port.CampaignRepository
	pricer   *pricing.Engine
	payments port.PaymentGateway
	notifier port.Notifier
	logger   *slog.Logger

	interval   time.Duration
	warnWindow time.Duration
}

// NewScheduler builds a scheduler. interval is the loop cadence,
// warnWindow is how far ahead of the end date the expiry warning fires.
func NewScheduler(
	repo port.CampaignRepository,
	pricer *pricing.Engine,
	payments port.PaymentGateway,
	notifier port.Notifier,
	logger *slog.Logger,
	interval, warnWindow time.Duration,
) *Scheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	if warnWindow <= 0 {
		warnWindow = 7 * 24 * time.Hour
	}
	return &Scheduler{
		repo:       repo,
		pricer:     pricer,
		payments:   payments,
		notifier:   notifier,
		logger:     logger,
		interval:   interval,
		warnWindow: warnWindow,
	}
}

// Start launches the scheduler loop in a background goroutine and returns a
// stop function. Failures within a cycle are logged and retried on the next
// cycle; there is no backoff beyond the cadence itself.
func (s *Scheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.runCycle(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runCycle(ctx)
			}
		}
	}()

	return cancel
}

func (s *Scheduler) runCycle(ctx context.Context) {
	now := time.Now().UTC()
	if err := s.RunExpiryWarnings(ctx, now); err != nil {
		s.logger.Error("expiry warning job failed", slog.Any("error", err))
	}
	if err := s.RunExpiry(ctx, now); err != nil {
		s.logger.Error("expiry job failed", slog.Any("error", err))
	}
	if err := s.RunAutoRenewals(ctx, now); err != nil {
		s.logger.Error("auto-renewal job failed", slog.Any("error", err))
	}
}

// RunExpiryWarnings notifies owners of active campaigns ending within the
// warning window, once per campaign. The emailed flag guards re-notification
// on later runs; a delivery failure still sets the flag, because the state
// change outranks best-effort delivery.
func (s *Scheduler) RunExpiryWarnings(ctx context.Context, now time.Time) error {
	expiring, err := s.repo.ListExpiringSoon(ctx, now, s.warnWindow)
	if err != nil {
		return fmt.Errorf("list expiring: %w", err)
	}
	for i := range expiring {
		c := &expiring[i]
		if err := s.notifier.Notify(ctx, c.OwnerID, "Your advertisement expires soon",
			fmt.Sprintf("Campaign %q ends on %s.", c.Title, c.EndDate.Format("2006-01-02"))); err != nil {
			s.logger.Warn("expiry warning delivery failed",
				slog.String("campaign_id", c.ID), slog.Any("error", err))
		}
		if err := s.repo.MarkExpiryWarned(ctx, c.ID, now); err != nil {
			s.logger.Error("mark expiry warned failed",
				slog.String("campaign_id", c.ID), slog.Any("error", err))
		}
	}
	if len(expiring) > 0 {
		s.logger.Info("expiry warnings sent", slog.Int("count", len(expiring)))
	}
	return nil
}

// RunExpiry moves every active campaign past its end date to expired in one
// guarded bulk update. Re-running is a no-op because already-expired rows no
// longer match the guard.
func (s *Scheduler) RunExpiry(ctx context.Context, now time.Time) error {
	n, err := s.repo.ExpireDue(ctx, now)
	if err != nil {
		return fmt.Errorf("expire due: %w", err)
	}
	if n > 0 {
		s.logger.Info("campaigns expired", slog.Int64("count", n))
	}
	return nil
}

// RunAutoRenewals renews expired campaigns that opted in. Payment capture
// gates the transition: when capture fails the campaign stays expired and is
// retried on the next cycle.
func (s *Scheduler) RunAutoRenewals(ctx context.Context, now time.Time) error {
	due, err := s.repo.ListAutoRenewable(ctx, now)
	if err != nil {
		return fmt.Errorf("list auto-renewable: %w", err)
	}
	for i := range due {
		c := &due[i]
		if err := s.renewOne(ctx, c, now); err != nil {
			s.logger.Warn("auto-renewal skipped",
				slog.String("campaign_id", c.ID), slog.Any("error", err))
		}
	}
	return nil
}

func (s *Scheduler) renewOne(ctx context.Context, c *domain.Campaign, now time.Time) error {
	price, err := s.pricer.Quote(c.AdType, c.DurationMonths)
	if err != nil {
		return fmt.Errorf("quote: %w", err)
	}
	paymentID, err := s.payments.Capture(ctx, price.TotalPrice, "auto_renew")
	if err != nil {
		// Campaign stays expired; next cycle retries.
		return fmt.Errorf("payment capture: %w", err)
	}

	c.Status = domain.StatusActive
	c.PaymentStatus = domain.PaymentCompleted
	c.BasePrice = price.BasePrice
	c.DiscountPercent = price.DiscountPercent
	c.TotalPrice = price.TotalPrice
	c.EndDate = now.AddDate(0, c.DurationMonths, 0)
	c.ExpiryWarningEmailed = false
	c.UpdatedAt = now

	ren := &domain.Renewal{
		CampaignID:     c.ID,
		RenewedAt:      now,
		DurationMonths: c.DurationMonths,
		Price:          price.TotalPrice,
	}
	if err := s.repo.Renew(ctx, c, ren, domain.StatusExpired); err != nil {
		return fmt.Errorf("renew transition: %w", err)
	}

	s.logger.Info("campaign auto-renewed",
		slog.String("campaign_id", c.ID),
		slog.String("payment_id", paymentID),
		slog.Int("months", c.DurationMonths))
	if err := s.notifier.Notify(ctx, c.OwnerID, "Your advertisement was renewed",
		fmt.Sprintf("Campaign %q runs until %s.", c.Title, c.EndDate.Format("2006-01-02"))); err != nil {
		s.logger.Warn("renewal confirmation delivery failed",
			slog.String("campaign_id", c.ID), slog.Any("error", err))
	}
	return nil
}
