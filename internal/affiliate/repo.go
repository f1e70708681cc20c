package affiliate

import (
	"context"
	"time"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/casatienda/storefront-backend/pkg/enums"
	"github.com/casatienda/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository persists referrals and affiliate settings.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// GetSettingValue reads a single affiliate setting by key.
func (r *Repository) GetSettingValue(ctx context.Context, key string) (string, error) {
	var setting models.AffiliateSetting
	if err := r.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		return "", err
	}
	return setting.Value, nil
}

// UpsertSetting writes an affiliate setting value.
func (r *Repository) UpsertSetting(ctx context.Context, key, value string) error {
	setting := models.AffiliateSetting{Key: key, Value: value}
	return r.db.WithContext(ctx).Save(&setting).Error
}

// CreateReferral inserts the commission row tied to an order.
func (r *Repository) CreateReferral(ctx context.Context, referral *models.AffiliateReferral) (*models.AffiliateReferral, error) {
	if referral.ID == uuid.Nil {
		referral.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(referral).Error; err != nil {
		return nil, err
	}
	return referral, nil
}

// FindReferralByOrder loads the referral recorded for an order, if any.
func (r *Repository) FindReferralByOrder(ctx context.Context, orderID uuid.UUID) (*models.AffiliateReferral, error) {
	var referral models.AffiliateReferral
	if err := r.db.WithContext(ctx).First(&referral, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &referral, nil
}

// ReferralRow joins a referral with the order it commissions, for the
// affiliate's own listing.
type ReferralRow struct {
	ID               uuid.UUID            `json:"id"`
	OrderID          uuid.UUID            `json:"order_id"`
	CommissionRate   decimal.Decimal      `json:"commission_rate"`
	CommissionAmount decimal.Decimal      `json:"commission_amount"`
	Status           enums.ReferralStatus `json:"status"`
	CreatedAt        time.Time            `json:"created_at"`
	OrderTotal       decimal.Decimal      `json:"order_total"`
	OrderDate        time.Time            `json:"order_date"`
}

const referrerReferralQuery = `
SELECT ar.id,
       ar.order_id,
       ar.commission_rate,
       ar.commission_amount,
       ar.status,
       ar.created_at,
       o.total_amount AS order_total,
       o.created_at AS order_date
FROM affiliate_referrals ar
JOIN orders o ON o.id = ar.order_id
WHERE ar.referrer_user_id = ?
ORDER BY ar.created_at DESC
`

// ListReferralsByReferrer returns the referrals credited to one affiliate,
// newest first, each carrying the referred order's total and date.
func (r *Repository) ListReferralsByReferrer(ctx context.Context, referrerID uuid.UUID) ([]ReferralRow, error) {
	var rows []ReferralRow
	if err := r.db.WithContext(ctx).Raw(referrerReferralQuery, referrerID).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AdminReferralRow joins referral, affiliate, and order data for the back office.
type AdminReferralRow struct {
	ID               uuid.UUID            `json:"id"`
	OrderID          uuid.UUID            `json:"order_id"`
	ReferrerEmail    string               `json:"referrer_email"`
	ReferrerName     string               `json:"referrer_name"`
	ReferredEmail    string               `json:"referred_email"`
	OrderTotal       decimal.Decimal      `json:"order_total"`
	CommissionRate   decimal.Decimal      `json:"commission_rate"`
	CommissionAmount decimal.Decimal      `json:"commission_amount"`
	Status           enums.ReferralStatus `json:"status"`
	CreatedAt        time.Time            `json:"created_at"`
}

const adminReferralQuery = `
SELECT ar.id,
       ar.order_id,
       referrer.email AS referrer_email,
       referrer.name AS referrer_name,
       referred.email AS referred_email,
       o.total_amount AS order_total,
       ar.commission_rate,
       ar.commission_amount,
       ar.status,
       ar.created_at
FROM affiliate_referrals ar
JOIN users referrer ON referrer.id = ar.referrer_user_id
JOIN users referred ON referred.id = ar.referred_user_id
JOIN orders o ON o.id = ar.order_id
`

// ListAdminReferrals returns the joined rows the back office renders, newest
// first, keyset-paged on (created_at, id).
func (r *Repository) ListAdminReferrals(ctx context.Context, cursor *pagination.Cursor, limit int) ([]AdminReferralRow, error) {
	query := adminReferralQuery
	args := []any{}
	if cursor != nil {
		query += "WHERE (ar.created_at, ar.id) < (?, ?)\n"
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += "ORDER BY ar.created_at DESC, ar.id DESC\nLIMIT ?"
	args = append(args, limit)

	var rows []AdminReferralRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateReferralStatus moves a referral through the payout workflow. Returns
// gorm.ErrRecordNotFound when the referral does not exist.
func (r *Repository) UpdateReferralStatus(ctx context.Context, id uuid.UUID, status enums.ReferralStatus) error {
	result := r.db.WithContext(ctx).
		Model(&models.AffiliateReferral{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountReferredSignups counts accounts registered with this affiliate's link.
func (r *Repository) CountReferredSignups(ctx context.Context, referrerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("referred_by_user_id = ?", referrerID).
		Count(&count).Error
	return count, err
}

// ReferrerStats aggregates commission totals for one affiliate.
type ReferrerStats struct {
	SignupCount     int64           `json:"signup_count"`
	TotalReferrals  int64           `json:"total_referrals"`
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	ApprovedAmount  decimal.Decimal `json:"approved_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	LifetimeEarning decimal.Decimal `json:"lifetime_earning"`
}

// StatsForReferrer computes the dashboard aggregates for one affiliate.
func (r *Repository) StatsForReferrer(ctx context.Context, referrerID uuid.UUID) (*ReferrerStats, error) {
	referrals, err := r.ListReferralsByReferrer(ctx, referrerID)
	if err != nil {
		return nil, err
	}
	signups, err := r.CountReferredSignups(ctx, referrerID)
	if err != nil {
		return nil, err
	}

	stats := ReferrerStats{
		SignupCount:     signups,
		PendingAmount:   decimal.Zero,
		ApprovedAmount:  decimal.Zero,
		PaidAmount:      decimal.Zero,
		LifetimeEarning: decimal.Zero,
	}
	for _, referral := range referrals {
		stats.TotalReferrals++
		switch referral.Status {
		case enums.ReferralStatusPending:
			stats.PendingAmount = stats.PendingAmount.Add(referral.CommissionAmount)
		case enums.ReferralStatusApproved:
			stats.ApprovedAmount = stats.ApprovedAmount.Add(referral.CommissionAmount)
		case enums.ReferralStatusPaid:
			stats.PaidAmount = stats.PaidAmount.Add(referral.CommissionAmount)
		}
		if referral.Status != enums.ReferralStatusRejected {
			stats.LifetimeEarning = stats.LifetimeEarning.Add(referral.CommissionAmount)
		}
	}
	return &stats, nil
}
