package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/casatienda/storefront-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

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
	items := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  quantity INTEGER NOT NULL DEFAULT 1,
  price_at_purchase TEXT NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(orders).Error)
	require.NoError(t, db.Exec(items).Error)

	require.NoError(t, db.Exec("DELETE FROM order_items").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func mustSeedOrder(t *testing.T, repo Repository, userID uuid.UUID, total string, createdAt time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:            uuid.New(),
		UserID:        userID,
		CustomerName:  "Cliente",
		CustomerEmail: fmt.Sprintf("cliente-%s@example.com", uuid.NewString()),
		TotalAmount:   decimal.RequireFromString(total),
		Status:        enums.OrderStatusPending,
		CreatedAt:     createdAt,
	}
	_, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)
	return order
}

func TestCreateOrderWithItemsRoundTrip(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	order := mustSeedOrder(t, repo, uuid.New(), "55.40", time.Now())

	now := time.Now()
	items := []models.OrderItem{
		{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       uuid.New(),
			ProductName:     "Ceramic Mug",
			Quantity:        1,
			PriceAtPurchase: decimal.RequireFromString("19.90"),
			CreatedAt:       now,
		},
		{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       uuid.New(),
			ProductName:     "Linen Apron",
			Quantity:        1,
			PriceAtPurchase: decimal.RequireFromString("35.50"),
			CreatedAt:       now.Add(time.Millisecond),
		},
	}
	require.NoError(t, repo.CreateOrderItems(ctx, items))

	loaded, err := repo.FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, loaded.TotalAmount.Equal(decimal.RequireFromString("55.40")))
	assert.Equal(t, enums.OrderStatusPending, loaded.Status)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Ceramic Mug", loaded.Items[0].ProductName)
	assert.True(t, loaded.Items[0].PriceAtPurchase.Equal(decimal.RequireFromString("19.90")))
	assert.Equal(t, 1, loaded.Items[0].Quantity)
}

func TestFindOrderByIDMissing(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindOrderByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOrdersByUserNewestFirst(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	older := mustSeedOrder(t, repo, userID, "10.00", time.Now().Add(-time.Hour))
	newer := mustSeedOrder(t, repo, userID, "20.00", time.Now())
	mustSeedOrder(t, repo, uuid.New(), "99.00", time.Now())

	orders, err := repo.ListOrdersByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, newer.ID, orders[0].ID)
	assert.Equal(t, older.ID, orders[1].ID)
}

func TestWithTxRollbackLeavesNoOrder(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	orderID := uuid.New()
	err := db.Transaction(func(tx *gorm.DB) error {
		scoped := repo.WithTx(tx)
		order := &models.Order{
			ID:            orderID,
			UserID:        uuid.New(),
			CustomerName:  "Cliente",
			CustomerEmail: "rollback@example.com",
			TotalAmount:   decimal.RequireFromString("15.00"),
			Status:        enums.OrderStatusPending,
		}
		if _, err := scoped.CreateOrder(ctx, order); err != nil {
			return err
		}
		return fmt.Errorf("force rollback")
	})
	require.Error(t, err)

	_, err = repo.FindOrderByID(ctx, orderID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
