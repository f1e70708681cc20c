package models

import (
	"time"

	"github.com/casatienda/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AffiliateReferral records the commission owed to a referrer for one order.
// At most one row exists per order.
type AffiliateReferral struct {
	ID               uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID          uuid.UUID            `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	ReferrerUserID   uuid.UUID            `gorm:"column:referrer_user_id;type:uuid;not null"`
	ReferredUserID   uuid.UUID            `gorm:"column:referred_user_id;type:uuid;not null"`
	CommissionRate   decimal.Decimal      `gorm:"column:commission_rate;type:numeric(6,4);not null"`
	CommissionAmount decimal.Decimal      `gorm:"column:commission_amount;type:numeric(12,2);not null"`
	Status           enums.ReferralStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	CreatedAt        time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
