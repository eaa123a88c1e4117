package domain

import "time"

// AdType identifies a purchasable placement on the marketplace. Slot-bearing
// types occupy one of a fixed number of numbered slots and rotate between
// occupants; the remaining types have no slot and no concurrency limit.
type AdType string

const (
	AdTypeLeaderboard        AdType = "leaderboard"
	AdTypeTopSidebar         AdType = "top_sidebar"
	AdTypeRightSidebarTop    AdType = "right_sidebar_top"
	AdTypeRightSidebarMiddle AdType = "right_sidebar_middle"
	AdTypeRightSidebarBottom AdType = "right_sidebar_bottom"
	AdTypeFeaturedStore      AdType = "featured_store"
	AdTypeFeaturedProduct    AdType = "featured_product"
	AdTypeNewsletter         AdType = "newsletter_inclusion"
	AdTypeEditorial          AdType = "editorial_writeup"
)

// Slot numbers run from SlotMin to SlotMax for every slot-bearing ad type.
const (
	SlotMin = 1
	SlotMax = 6
)

var slotBased = map[AdType]bool{
	AdTypeLeaderboard:        true,
	AdTypeTopSidebar:         true,
	AdTypeRightSidebarTop:    true,
	AdTypeRightSidebarMiddle: true,
	AdTypeRightSidebarBottom: true,
	AdTypeFeaturedStore:      false,
	AdTypeFeaturedProduct:    false,
	AdTypeNewsletter:         false,
	AdTypeEditorial:          false,
}

// Known reports whether t is a member of the ad type enumeration.
func (t AdType) Known() bool {
	_, ok := slotBased[t]
	return ok
}

// SlotBased reports whether campaigns of this type occupy a numbered slot.
func (t AdType) SlotBased() bool {
	return slotBased[t]
}

// Status is the campaign lifecycle state.
type Status string

const (
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusPending         Status = "pending"
	StatusActive          Status = "active"
	StatusRejected        Status = "rejected"
	StatusCancelled       Status = "cancelled"
	StatusExpired         Status = "expired"
)

// PaymentStatus tracks the payment leg independently of the lifecycle state.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// PriceBreakdown is the result of pricing a placement.
// Prices are stored in integer units (cents).
type PriceBreakdown struct {
	BasePrice       int64 `json:"base_price"`
	DiscountPercent int   `json:"discount_percent"`
	TotalPrice      int64 `json:"total_price"`
}

// Campaign represents a paid advertisement booking by a shop owner.
// Monetary amounts are integer cents, durations are whole months.
type Campaign struct {
	ID             string
	OwnerID        string
	AdType         AdType
	SlotNumber     *int // nil for non-slot types
	DurationMonths int

	BasePrice       int64
	DiscountPercent int
	TotalPrice      int64

	Status        Status
	PaymentStatus PaymentStatus

	StartDate time.Time
	EndDate   time.Time
	AutoRenew bool

	Views            int64
	Clicks           int64
	ClickThroughRate float64

	ExpiryWarningEmailed bool

	Title         string
	Description   string
	MediaURL      string
	MediaPublicID string
	LinkTarget    string

	ApprovedBy      string
	ApprovedAt      *time.Time
	RejectionReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContentEditable reports whether title/description/media may still change.
// Once a campaign has been approved its content is frozen so that what was
// reviewed is what gets displayed.
func (c *Campaign) ContentEditable() bool {
	switch c.Status {
	case StatusAwaitingPayment, StatusPending, StatusRejected:
		return true
	}
	return false
}

// Renewal is one append-only entry in a campaign's renewal history.
type Renewal struct {
	ID             int64
	CampaignID     string
	RenewedAt      time.Time
	DurationMonths int
	Price          int64
}
