package product

import (
	"context"
	"fmt"
	"testing"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupProductsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  description TEXT,
  price TEXT NOT NULL,
  image_url TEXT,
  tag TEXT,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(products).Error)
	t.Cleanup(func() {
		db.Exec("DELETE FROM products")
	})
	return db
}

func mustCreateProduct(t *testing.T, db *gorm.DB, name, tag string, active bool) *models.Product {
	t.Helper()
	var tagPtr *string
	if tag != "" {
		tagPtr = &tag
	}
	item := &models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString("19.99"),
		Tag:      tagPtr,
		IsActive: active,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestRepositoryListOrdersByName(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, "Zapato", "", true)
	mustCreateProduct(t, db, "Abrigo", "", true)
	mustCreateProduct(t, db, "Mochila", "", true)

	items, err := repo.List(ctx, ListFilters{ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Abrigo", items[0].Name)
	assert.Equal(t, "Mochila", items[1].Name)
	assert.Equal(t, "Zapato", items[2].Name)
}

func TestRepositoryListFiltersByTagAndActive(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateProduct(t, db, fmt.Sprintf("offer-%s", uuid.NewString()), "ofertas", true)
	mustCreateProduct(t, db, fmt.Sprintf("offer-%s", uuid.NewString()), "ofertas", false)
	mustCreateProduct(t, db, fmt.Sprintf("plain-%s", uuid.NewString()), "", true)

	tag := "ofertas"
	items, err := repo.List(ctx, ListFilters{Tag: &tag, ActiveOnly: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.NotNil(t, items[0].Tag)
	assert.Equal(t, "ofertas", *items[0].Tag)
}

func TestRepositoryCreateEnforcesUniqueName(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	name := fmt.Sprintf("unique-%s", uuid.NewString())
	_, err := repo.Create(ctx, &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.Product{
		ID:    uuid.New(),
		Name:  name,
		Price: decimal.RequireFromString("6.00"),
	})
	require.Error(t, err)
}

func TestRepositoryUpdateAndDelete(t *testing.T) {
	db := setupProductsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := mustCreateProduct(t, db, fmt.Sprintf("upd-%s", uuid.NewString()), "", true)

	require.NoError(t, repo.Update(ctx, item.ID, map[string]any{"is_active": false}))
	reloaded, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.FindByID(ctx, item.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
