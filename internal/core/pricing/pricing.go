// Package pricing computes placement prices. The engine is pure: identical
// inputs always produce identical breakdowns, so the create and renew flows
// share one instance.
package pricing

import (
	"market-ads/internal/core/domain"
	"market-ads/internal/core/port"
)

// Config holds the rate tables the engine prices from. It is supplied at
// construction and never mutated afterwards, so tests can run against
// alternate tables without touching globals.
type Config struct {
	// MonthlyRates maps ad type to its monthly base rate in cents.
	MonthlyRates map[domain.AdType]int64
	// Discounts maps duration in months to a whole-number discount percent.
	Discounts map[int]int
}

// Default returns the production rate tables.
func Default() Config {
	return Config{
		MonthlyRates: map[domain.AdType]int64{
			domain.AdTypeLeaderboard:        60000,
			domain.AdTypeTopSidebar:         45000,
			domain.AdTypeRightSidebarTop:    30000,
			domain.AdTypeRightSidebarMiddle: 25000,
			domain.AdTypeRightSidebarBottom: 20000,
			domain.AdTypeFeaturedStore:      35000,
			domain.AdTypeFeaturedProduct:    25000,
			domain.AdTypeNewsletter:         15000,
			domain.AdTypeEditorial:          50000,
		},
		Discounts: map[int]int{1: 0, 3: 10, 6: 15, 12: 20},
	}
}

// Engine prices placements from an immutable Config.
type Engine struct {
	cfg Config
}

// New returns an Engine backed by cfg.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Quote returns the price breakdown for booking adType for months months.
// total = base * months * (1 - discount/100), rounded half-up on cents.
func (e *Engine) Quote(adType domain.AdType, months int) (domain.PriceBreakdown, error) {
	base, ok := e.cfg.MonthlyRates[adType]
	if !ok {
		return domain.PriceBreakdown{}, port.ErrInvalidAdType
	}
	discount, ok := e.cfg.Discounts[months]
	if !ok {
		return domain.PriceBreakdown{}, port.ErrInvalidDuration
	}
	total := (base*int64(months)*int64(100-discount) + 50) / 100
	if total < 0 {
		total = 0
	}
	return domain.PriceBreakdown{
		BasePrice:       base,
		DiscountPercent: discount,
		TotalPrice:      total,
	}, nil
}

// Valid reports whether months is a bookable duration.
func (e *Engine) Valid(months int) bool {
	_, ok := e.cfg.Discounts[months]
	return ok
}
