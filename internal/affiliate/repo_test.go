package affiliate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/casatienda/storefront-backend/pkg/enums"
	"github.com/casatienda/storefront-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAffiliateTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	users := `
CREATE TABLE IF NOT EXISTS users (
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  password_hash TEXT NOT NULL,
  name TEXT NOT NULL,
  phone TEXT,
  role TEXT NOT NULL DEFAULT 'customer',
  referred_by_user_id TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  last_login_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  customer_name TEXT NOT NULL,
  customer_email TEXT NOT NULL,
  customer_phone TEXT,
  shipping_address TEXT,
  total_amount TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	referrals := `
CREATE TABLE IF NOT EXISTS affiliate_referrals (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL UNIQUE,
  referrer_user_id TEXT NOT NULL,
  referred_user_id TEXT NOT NULL,
  commission_rate TEXT NOT NULL,
  commission_amount TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`
	settings := `
CREATE TABLE IF NOT EXISTS affiliate_settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(users).Error)
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(referrals).Error)
	require.NoError(t, db.Exec(settings).Error)

	require.NoError(t, db.Exec("DELETE FROM affiliate_referrals").Error)
	require.NoError(t, db.Exec("DELETE FROM affiliate_settings").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	require.NoError(t, db.Exec("DELETE FROM users").Error)
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()),
		PasswordHash: "hash",
		Name:         name,
		Role:         enums.UserRoleCustomer,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func mustCreateOrder(t *testing.T, db *gorm.DB, userID uuid.UUID, total string) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		CustomerName:  "Cliente",
		CustomerEmail: "cliente@example.com",
		TotalAmount:   decimal.RequireFromString(total),
		Status:        enums.OrderStatusPending,
	}
	require.NoError(t, db.Create(order).Error)
	return order
}

func mustCreateReferral(t *testing.T, db *gorm.DB, orderID, referrerID, referredID uuid.UUID, amount string, status enums.ReferralStatus) *models.AffiliateReferral {
	t.Helper()
	referral := &models.AffiliateReferral{
		ID:               uuid.New(),
		OrderID:          orderID,
		ReferrerUserID:   referrerID,
		ReferredUserID:   referredID,
		CommissionRate:   decimal.RequireFromString("0.10"),
		CommissionAmount: decimal.RequireFromString(amount),
		Status:           status,
		CreatedAt:        time.Now(),
	}
	require.NoError(t, db.Create(referral).Error)
	return referral
}

func TestRateResolverUsesStoredSetting(t *testing.T) {
	db := setupAffiliateTestDB(t)
	repo := NewRepository(db)
	resolver := NewRateResolver(repo, "0.10")
	ctx := context.Background()

	require.NoError(t, repo.UpsertSetting(ctx, DefaultCommissionRateKey, "0.15"))

	rate := resolver.Resolve(ctx, db)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.15")), "got %s", rate)
}

func TestRateResolverFallsBackWhenMissingOrUnparsable(t *testing.T) {
	db := setupAffiliateTestDB(t)
	repo := NewRepository(db)
	resolver := NewRateResolver(repo, "0.10")
	ctx := context.Background()

	rate := resolver.Resolve(ctx, db)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.10")), "missing setting should fall back, got %s", rate)

	require.NoError(t, repo.UpsertSetting(ctx, DefaultCommissionRateKey, "not-a-number"))
	rate = resolver.Resolve(ctx, db)
	assert.True(t, rate.Equal(decimal.RequireFromString("0.10")), "unparsable setting should fall back, got %s", rate)
}

func TestStatsForReferrerAggregatesByStatus(t *testing.T) {
	db := setupAffiliateTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	referrer := mustCreateUser(t, db, "referrer")
	buyer := mustCreateUser(t, db, "buyer")
	require.NoError(t, db.Model(&models.User{}).
		Where("id = ?", buyer.ID).
		Update("referred_by_user_id", referrer.ID).Error)

	order1 := mustCreateOrder(t, db, buyer.ID, "100.00")
	order2 := mustCreateOrder(t, db, buyer.ID, "50.00")
	order3 := mustCreateOrder(t, db, buyer.ID, "80.00")
	mustCreateReferral(t, db, order1.ID, referrer.ID, buyer.ID, "10.00", enums.ReferralStatusPending)
	mustCreateReferral(t, db, order2.ID, referrer.ID, buyer.ID, "5.00", enums.ReferralStatusPaid)
	mustCreateReferral(t, db, order3.ID, referrer.ID, buyer.ID, "8.00", enums.ReferralStatusRejected)

	stats, err := repo.StatsForReferrer(ctx, referrer.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.SignupCount)
	assert.EqualValues(t, 3, stats.TotalReferrals)
	assert.True(t, stats.PendingAmount.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, stats.PaidAmount.Equal(decimal.RequireFromString("5.00")))
	assert.True(t, stats.LifetimeEarning.Equal(decimal.RequireFromString("15.00")), "rejected commissions are excluded")
}

func TestListReferralsByReferrerCarriesOrderTotalAndDate(t *testing.T) {
	db := setupAffiliateTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	referrer := mustCreateUser(t, db, "referrer")
	buyer := mustCreateUser(t, db, "buyer")
	order := mustCreateOrder(t, db, buyer.ID, "120.00")
	orderDate := time.Date(2026, 7, 15, 9, 30, 0, 0, time.UTC)
	require.NoError(t, db.Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("created_at", orderDate).Error)
	mustCreateReferral(t, db, order.ID, referrer.ID, buyer.ID, "12.00", enums.ReferralStatusPending)

	rows, err := repo.ListReferralsByReferrer(ctx, referrer.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, order.ID, rows[0].OrderID)
	assert.True(t, rows[0].OrderTotal.Equal(decimal.RequireFromString("120.00")), "got %s", rows[0].OrderTotal)
	assert.True(t, rows[0].OrderDate.Equal(orderDate), "got %s", rows[0].OrderDate)
}

func TestListAdminReferralsJoinsUsersAndOrders(t *testing.T) {
	db := setupAffiliateTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	referrer := mustCreateUser(t, db, "referrer")
	buyer := mustCreateUser(t, db, "buyer")
	order := mustCreateOrder(t, db, buyer.ID, "120.00")
	mustCreateReferral(t, db, order.ID, referrer.ID, buyer.ID, "12.00", enums.ReferralStatusPending)

	rows, err := repo.ListAdminReferrals(ctx, nil, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, referrer.Email, rows[0].ReferrerEmail)
	assert.Equal(t, buyer.Email, rows[0].ReferredEmail)
	assert.True(t, rows[0].OrderTotal.Equal(decimal.RequireFromString("120.00")))
}

func TestListAdminReferralsKeysetPaging(t *testing.T) {
	db := setupAffiliateTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	referrer := mustCreateUser(t, db, "referrer")
	buyer := mustCreateUser(t, db, "buyer")

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		order := mustCreateOrder(t, db, buyer.ID, "30.00")
		referral := mustCreateReferral(t, db, order.ID, referrer.ID, buyer.ID, "3.00", enums.ReferralStatusPending)
		require.NoError(t, db.Model(&models.AffiliateReferral{}).
			Where("id = ?", referral.ID).
			Update("created_at", base.Add(time.Duration(i)*time.Minute)).Error)
	}

	first, err := repo.ListAdminReferrals(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt), "rows should be newest first")

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	second, err := repo.ListAdminReferrals(ctx, cursor, 2)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.True(t, second[0].CreatedAt.Before(first[1].CreatedAt))
}

func TestUpdateReferralStatus(t *testing.T) {
	db := setupAffiliateTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	referrer := mustCreateUser(t, db, "referrer")
	buyer := mustCreateUser(t, db, "buyer")
	order := mustCreateOrder(t, db, buyer.ID, "60.00")
	referral := mustCreateReferral(t, db, order.ID, referrer.ID, buyer.ID, "6.00", enums.ReferralStatusPending)

	require.NoError(t, repo.UpdateReferralStatus(ctx, referral.ID, enums.ReferralStatusApproved))
	reloaded, err := repo.FindReferralByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ReferralStatusApproved, reloaded.Status)

	err = repo.UpdateReferralStatus(ctx, uuid.New(), enums.ReferralStatusPaid)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
