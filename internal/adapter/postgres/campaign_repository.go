package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"market-ads/internal/core/domain"
	"market-ads/internal/core/port"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on (owner_id, ad_type, slot_number) over pending/active rows.
const uniqueViolation = "23505"

// CampaignRepository implements port.CampaignRepository using pgxpool.
type CampaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository returns a new repository instance.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepository {
	return &CampaignRepository{pool: pool}
}

const campaignColumns = `
    id, owner_id, ad_type, slot_number, duration_months,
    base_price, discount_percent, total_price,
    status, payment_status, start_date, end_date, auto_renew,
    views, clicks, click_through_rate, expiry_warning_emailed,
    title, description, media_url, media_public_id, link_target,
    approved_by, approved_at, rejection_reason, created_at, updated_at`

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c          domain.Campaign
		approvedBy *string
	)
	err := row.Scan(
		&c.ID, &c.OwnerID, &c.AdType, &c.SlotNumber, &c.DurationMonths,
		&c.BasePrice, &c.DiscountPercent, &c.TotalPrice,
		&c.Status, &c.PaymentStatus, &c.StartDate, &c.EndDate, &c.AutoRenew,
		&c.Views, &c.Clicks, &c.ClickThroughRate, &c.ExpiryWarningEmailed,
		&c.Title, &c.Description, &c.MediaURL, &c.MediaPublicID, &c.LinkTarget,
		&approvedBy, &c.ApprovedAt, &c.RejectionReason, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if approvedBy != nil {
		c.ApprovedBy = *approvedBy
	}
	return &c, nil
}

// Insert stores a newly created campaign. A concurrent insert that trips the
// slot uniqueness index is reported as ErrSlotUnavailable.
func (r *CampaignRepository) Insert(ctx context.Context, c *domain.Campaign) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO campaigns (`+campaignColumns+`)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		c.ID, c.OwnerID, c.AdType, c.SlotNumber, c.DurationMonths,
		c.BasePrice, c.DiscountPercent, c.TotalPrice,
		c.Status, c.PaymentStatus, c.StartDate, c.EndDate, c.AutoRenew,
		c.Views, c.Clicks, c.ClickThroughRate, c.ExpiryWarningEmailed,
		c.Title, c.Description, c.MediaURL, c.MediaPublicID, c.LinkTarget,
		nullIfEmpty(c.ApprovedBy), c.ApprovedAt, c.RejectionReason, c.CreatedAt, c.UpdatedAt,
	)
	return mapSlotConflict(err)
}

// Get returns a campaign by id.
func (r *CampaignRepository) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := scanCampaign(r.pool.QueryRow(ctx,
		`SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, port.ErrCampaignNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Transition updates the campaign's mutable fields while its stored status
// still matches one of the expected previous statuses. Zero matched rows
// mean another writer got there first.
func (r *CampaignRepository) Transition(ctx context.Context, c *domain.Campaign, from ...domain.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET
            duration_months = $2, base_price = $3, discount_percent = $4, total_price = $5,
            status = $6, payment_status = $7, end_date = $8, auto_renew = $9,
            expiry_warning_emailed = $10, approved_by = $11, approved_at = $12,
            rejection_reason = $13, updated_at = $14
        WHERE id = $1 AND status = ANY($15)`,
		c.ID, c.DurationMonths, c.BasePrice, c.DiscountPercent, c.TotalPrice,
		c.Status, c.PaymentStatus, c.EndDate, c.AutoRenew,
		c.ExpiryWarningEmailed, nullIfEmpty(c.ApprovedBy), c.ApprovedAt,
		c.RejectionReason, c.UpdatedAt, statusStrings(from),
	)
	if err != nil {
		return mapSlotConflict(err)
	}
	if tag.RowsAffected() == 0 {
		return port.ErrInvalidTransition
	}
	return nil
}

// UpdateContent persists the editable content fields guarded by the
// content-editable statuses.
func (r *CampaignRepository) UpdateContent(ctx context.Context, c *domain.Campaign) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET
            title = $2, description = $3, media_url = $4, media_public_id = $5, updated_at = $6
        WHERE id = $1 AND status = ANY($7)`,
		c.ID, c.Title, c.Description, c.MediaURL, c.MediaPublicID, c.UpdatedAt,
		statusStrings([]domain.Status{
			domain.StatusAwaitingPayment, domain.StatusPending, domain.StatusRejected,
		}),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrInvalidTransition
	}
	return nil
}

// Renew applies the guarded transition and appends the renewal history entry
// in one transaction so price and status commit atomically.
func (r *CampaignRepository) Renew(ctx context.Context, c *domain.Campaign, ren *domain.Renewal, from ...domain.Status) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			_ = tx.Commit(ctx)
		}
	}()

	var tag pgconn.CommandTag
	tag, err = tx.Exec(ctx, `UPDATE campaigns SET
            duration_months = $2, base_price = $3, discount_percent = $4, total_price = $5,
            status = $6, payment_status = $7, end_date = $8,
            expiry_warning_emailed = $9, updated_at = $10
        WHERE id = $1 AND status = ANY($11)`,
		c.ID, c.DurationMonths, c.BasePrice, c.DiscountPercent, c.TotalPrice,
		c.Status, c.PaymentStatus, c.EndDate, c.ExpiryWarningEmailed, c.UpdatedAt,
		statusStrings(from),
	)
	if err != nil {
		err = mapSlotConflict(err)
		return err
	}
	if tag.RowsAffected() == 0 {
		err = port.ErrInvalidTransition
		return err
	}
	_, err = tx.Exec(ctx, `INSERT INTO campaign_renewals (campaign_id, renewed_at, duration_months, price)
        VALUES ($1,$2,$3,$4)`,
		ren.CampaignID, ren.RenewedAt, ren.DurationMonths, ren.Price)
	return err
}

// ListRenewals returns the renewal history, oldest first.
func (r *CampaignRepository) ListRenewals(ctx context.Context, campaignID string) ([]domain.Renewal, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, campaign_id, renewed_at, duration_months, price
        FROM campaign_renewals WHERE campaign_id = $1 ORDER BY renewed_at, id`, campaignID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Renewal, error) {
		var ren domain.Renewal
		err := row.Scan(&ren.ID, &ren.CampaignID, &ren.RenewedAt, &ren.DurationMonths, &ren.Price)
		return ren, err
	})
}

// OccupiedSlots returns the slots the owner holds for the ad type, derived
// from pending/active campaign rows that have not run out yet.
func (r *CampaignRepository) OccupiedSlots(ctx context.Context, adType domain.AdType, ownerID string, now time.Time) ([]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT slot_number FROM campaigns
        WHERE ad_type = $1 AND owner_id = $2 AND slot_number IS NOT NULL
          AND status IN ('pending','active') AND end_date > $3
        ORDER BY slot_number`, adType, ownerID, now)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (int, error) {
		var slot int
		err := row.Scan(&slot)
		return slot, err
	})
}

// OwnerHoldsSlot reports whether the owner already occupies (adType, slot).
func (r *CampaignRepository) OwnerHoldsSlot(ctx context.Context, ownerID string, adType domain.AdType, slot int, now time.Time) (bool, error) {
	var held bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (
        SELECT 1 FROM campaigns
        WHERE owner_id = $1 AND ad_type = $2 AND slot_number = $3
          AND status IN ('pending','active') AND end_date > $4)`,
		ownerID, adType, slot, now).Scan(&held)
	return held, err
}

// IncrementViews bumps the view counter and recomputes CTR in one atomic
// statement; concurrent requests never lose updates to read-modify-write.
func (r *CampaignRepository) IncrementViews(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET
            views = views + 1,
            click_through_rate = clicks::float8 / (views + 1) * 100,
            updated_at = now()
        WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrCampaignNotFound
	}
	return nil
}

// IncrementClicks bumps the click counter and recomputes CTR atomically.
// CTR is defined as 0 while there are no views.
func (r *CampaignRepository) IncrementClicks(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET
            clicks = clicks + 1,
            click_through_rate = CASE WHEN views > 0
                THEN (clicks + 1)::float8 / views * 100 ELSE 0 END,
            updated_at = now()
        WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrCampaignNotFound
	}
	return nil
}

// ListExpiringSoon returns active campaigns ending within the window that
// have not been warned yet.
func (r *CampaignRepository) ListExpiringSoon(ctx context.Context, now time.Time, window time.Duration) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns
        WHERE status = 'active' AND expiry_warning_emailed = false
          AND end_date > $1 AND end_date <= $2
        ORDER BY end_date`, now, now.Add(window))
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// MarkExpiryWarned flips the warning flag.
func (r *CampaignRepository) MarkExpiryWarned(ctx context.Context, id string, now time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE campaigns SET
        expiry_warning_emailed = true, updated_at = $2 WHERE id = $1`, id, now)
	return err
}

// ExpireDue bulk-expires active campaigns past their end date. The status
// guard makes the statement idempotent and immune to a concurrent cancel:
// cancelled rows no longer match.
func (r *CampaignRepository) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = 'expired', updated_at = $1
        WHERE status = 'active' AND end_date < $1`, now)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ListAutoRenewable returns expired campaigns that opted into auto-renewal.
func (r *CampaignRepository) ListAutoRenewable(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns
        WHERE status = 'expired' AND auto_renew = true AND end_date <= $1
        ORDER BY end_date`, now)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

func collectCampaigns(rows pgx.Rows) ([]domain.Campaign, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Campaign, error) {
		c, err := scanCampaign(row)
		if err != nil {
			return domain.Campaign{}, err
		}
		return *c, nil
	})
}

func statusStrings(statuses []domain.Status) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func mapSlotConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return port.ErrSlotUnavailable
	}
	return err
}
