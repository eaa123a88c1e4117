package port

import "errors"

// Validation and state errors returned by the campaign engine. All of them
// are synchronous, local failures: callers get them back immediately and
// nothing is retried.
var (
	ErrInvalidAdType       = errors.New("unknown ad type")
	ErrInvalidDuration     = errors.New("duration must be 1, 3, 6 or 12 months")
	ErrSlotUnavailable     = errors.New("owner already holds this slot for this ad type")
	ErrNotSlotBased        = errors.New("ad type does not use slots")
	ErrInvalidTransition   = errors.New("transition not allowed from current status")
	ErrUnauthorized        = errors.New("caller does not own this campaign")
	ErrLinkTargetInvalid   = errors.New("link target does not resolve to owner's shop or product")
	ErrPaymentNotCompleted = errors.New("payment has not been completed")
	ErrMediaRequired       = errors.New("slot-bearing ad types require media")
	ErrSlotRequired        = errors.New("slot-bearing ad types require a slot number in range")
	ErrCampaignNotFound    = errors.New("campaign not found")
)
