package affiliate

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultCommissionRateKey is the settings row holding the program-wide rate.
const DefaultCommissionRateKey = "default_commission_rate"

var fallbackCommissionRate = decimal.RequireFromString("0.10")

// RateResolver resolves the commission rate applied to referred orders.
type RateResolver struct {
	repo     *Repository
	fallback decimal.Decimal
}

// NewRateResolver builds a resolver; configuredFallback overrides the built-in
// 0.10 fallback when it parses as a decimal.
func NewRateResolver(repo *Repository, configuredFallback string) *RateResolver {
	fallback := fallbackCommissionRate
	if parsed, err := decimal.NewFromString(configuredFallback); err == nil && !parsed.IsNegative() {
		fallback = parsed
	}
	return &RateResolver{repo: repo, fallback: fallback}
}

// Resolve returns the stored default commission rate, falling back when the
// setting is missing or unparsable. The read happens on tx so the rate is
// consistent with the surrounding order transaction.
func (r *RateResolver) Resolve(ctx context.Context, tx *gorm.DB) decimal.Decimal {
	value, err := r.repo.WithTx(tx).GetSettingValue(ctx, DefaultCommissionRateKey)
	if err != nil {
		return r.fallback
	}
	rate, err := decimal.NewFromString(value)
	if err != nil || rate.IsNegative() {
		return r.fallback
	}
	return rate
}
