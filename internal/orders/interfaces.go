package orders

import (
	"context"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
}

// ProductFinder resolves live catalog rows inside the submission transaction.
type ProductFinder interface {
	FindProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error)
}

// UserFinder loads the buyer so the coordinator can inspect referral attribution.
type UserFinder interface {
	FindUser(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
}

// ReferralRecorder persists the commission row in the same transaction as the order.
type ReferralRecorder interface {
	RecordReferral(ctx context.Context, tx *gorm.DB, referral *models.AffiliateReferral) error
}

// RateResolver yields the commission rate to apply to a referred order.
type RateResolver interface {
	Resolve(ctx context.Context, tx *gorm.DB) decimal.Decimal
}

// Notifier delivers the post-commit order alert. Failures never affect the order.
type Notifier interface {
	Send(ctx context.Context, body string) error
}
