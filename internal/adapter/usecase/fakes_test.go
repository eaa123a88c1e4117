package usecase

import (
	"context"
	"sync"
	"time"

	"market-ads/internal/core/domain"
	"market-ads/internal/core/port"
)

// memRepo is an in-memory port.CampaignRepository that mirrors the Postgres
// implementation's semantics: guarded status updates, the partial slot
// uniqueness constraint and atomic counter increments.
type memRepo struct {
	mu        sync.Mutex
	campaigns map[string]*domain.Campaign
	renewals  []domain.Renewal
}

func newMemRepo() *memRepo {
	return &memRepo{campaigns: make(map[string]*domain.Campaign)}
}

func (r *memRepo) slotConflict(c *domain.Campaign) bool {
	if c.SlotNumber == nil {
		return false
	}
	if c.Status != domain.StatusPending && c.Status != domain.StatusActive {
		return false
	}
	for _, other := range r.campaigns {
		if other.ID == c.ID || other.SlotNumber == nil {
			continue
		}
		if other.OwnerID == c.OwnerID && other.AdType == c.AdType &&
			*other.SlotNumber == *c.SlotNumber &&
			(other.Status == domain.StatusPending || other.Status == domain.StatusActive) {
			return true
		}
	}
	return false
}

func (r *memRepo) Insert(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slotConflict(c) {
		return port.ErrSlotUnavailable
	}
	cp := *c
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *memRepo) Get(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, port.ErrCampaignNotFound
	}
	cp := *c
	return &cp, nil
}

func statusIn(s domain.Status, from []domain.Status) bool {
	for _, f := range from {
		if s == f {
			return true
		}
	}
	return false
}

func (r *memRepo) apply(c *domain.Campaign, from []domain.Status) error {
	stored, ok := r.campaigns[c.ID]
	if !ok || !statusIn(stored.Status, from) {
		return port.ErrInvalidTransition
	}
	if r.slotConflict(c) {
		return port.ErrSlotUnavailable
	}
	cp := *c
	cp.Views = stored.Views
	cp.Clicks = stored.Clicks
	cp.ClickThroughRate = stored.ClickThroughRate
	r.campaigns[c.ID] = &cp
	return nil
}

func (r *memRepo) Transition(_ context.Context, c *domain.Campaign, from ...domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.apply(c, from)
}

func (r *memRepo) UpdateContent(_ context.Context, c *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.campaigns[c.ID]
	if !ok || !stored.ContentEditable() {
		return port.ErrInvalidTransition
	}
	stored.Title = c.Title
	stored.Description = c.Description
	stored.MediaURL = c.MediaURL
	stored.MediaPublicID = c.MediaPublicID
	stored.UpdatedAt = c.UpdatedAt
	return nil
}

func (r *memRepo) Renew(_ context.Context, c *domain.Campaign, ren *domain.Renewal, from ...domain.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.apply(c, from); err != nil {
		return err
	}
	cp := *ren
	cp.ID = int64(len(r.renewals) + 1)
	r.renewals = append(r.renewals, cp)
	return nil
}

func (r *memRepo) ListRenewals(_ context.Context, campaignID string) ([]domain.Renewal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Renewal
	for _, ren := range r.renewals {
		if ren.CampaignID == campaignID {
			out = append(out, ren)
		}
	}
	return out, nil
}

func (r *memRepo) OccupiedSlots(_ context.Context, adType domain.AdType, ownerID string, now time.Time) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []int
	for _, c := range r.campaigns {
		if c.AdType == adType && c.OwnerID == ownerID && c.SlotNumber != nil &&
			(c.Status == domain.StatusPending || c.Status == domain.StatusActive) &&
			c.EndDate.After(now) {
			out = append(out, *c.SlotNumber)
		}
	}
	return out, nil
}

func (r *memRepo) OwnerHoldsSlot(_ context.Context, ownerID string, adType domain.AdType, slot int, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.OwnerID == ownerID && c.AdType == adType && c.SlotNumber != nil && *c.SlotNumber == slot &&
			(c.Status == domain.StatusPending || c.Status == domain.StatusActive) &&
			c.EndDate.After(now) {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) IncrementViews(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return port.ErrCampaignNotFound
	}
	c.Views++
	c.ClickThroughRate = float64(c.Clicks) / float64(c.Views) * 100
	return nil
}

func (r *memRepo) IncrementClicks(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return port.ErrCampaignNotFound
	}
	c.Clicks++
	if c.Views > 0 {
		c.ClickThroughRate = float64(c.Clicks) / float64(c.Views) * 100
	} else {
		c.ClickThroughRate = 0
	}
	return nil
}

func (r *memRepo) ListExpiringSoon(_ context.Context, now time.Time, window time.Duration) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.campaigns {
		if c.Status == domain.StatusActive && !c.ExpiryWarningEmailed &&
			c.EndDate.After(now) && !c.EndDate.After(now.Add(window)) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *memRepo) MarkExpiryWarned(_ context.Context, id string, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return port.ErrCampaignNotFound
	}
	c.ExpiryWarningEmailed = true
	c.UpdatedAt = now
	return nil
}

func (r *memRepo) ExpireDue(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.campaigns {
		if c.Status == domain.StatusActive && c.EndDate.Before(now) {
			c.Status = domain.StatusExpired
			c.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ListAutoRenewable(_ context.Context, now time.Time) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Campaign
	for _, c := range r.campaigns {
		if c.Status == domain.StatusExpired && c.AutoRenew && !c.EndDate.After(now) {
			out = append(out, *c)
		}
	}
	return out, nil
}

// stubDirectory accepts every link target unless err is set.
type stubDirectory struct {
	err error
}

func (d *stubDirectory) ResolveLinkTarget(context.Context, string, string) error {
	return d.err
}

// stubMedia records delete calls.
type stubMedia struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (m *stubMedia) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, publicID)
	return m.err
}

type sentNote struct {
	recipient, subject string
}

// stubNotifier records notifications.
type stubNotifier struct {
	mu   sync.Mutex
	sent []sentNote
	err  error
}

func (n *stubNotifier) Notify(_ context.Context, recipient, subject, _ string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNote{recipient, subject})
	return n.err
}

func (n *stubNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// stubGateway captures payments, failing while err is set.
type stubGateway struct {
	mu       sync.Mutex
	err      error
	captured []int64
}

func (g *stubGateway) Capture(_ context.Context, amountCents int64, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return "", g.err
	}
	g.captured = append(g.captured, amountCents)
	return "pay-stub", nil
}
