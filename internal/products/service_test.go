package product

import (
	"context"
	"fmt"
	"testing"

	pkgerrors "github.com/casatienda/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	db := setupProductsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)
	return svc
}

func TestServiceCreateAndGetProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	name := fmt.Sprintf("svc-%s", uuid.NewString())
	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  name,
		Price: decimal.RequireFromString("49.90"),
	})
	require.NoError(t, err)
	assert.Equal(t, name, created.Name)
	assert.True(t, created.IsActive)

	loaded, err := svc.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, loaded.Price.Equal(decimal.RequireFromString("49.90")))
}

func TestServiceCreateDuplicateNameConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	name := fmt.Sprintf("dup-%s", uuid.NewString())
	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: name, Price: decimal.New(10, 0)})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: name, Price: decimal.New(12, 0)})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCreateValidatesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "  ", Price: decimal.New(1, 0)})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "ok", Price: decimal.New(-5, 0)})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceGetProductNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  fmt.Sprintf("before-%s", uuid.NewString()),
		Price: decimal.New(20, 0),
	})
	require.NoError(t, err)

	newPrice := decimal.RequireFromString("25.50")
	inactive := false
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{
		Price:    &newPrice,
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.True(t, updated.Price.Equal(newPrice))
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceDeleteProduct(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{
		Name:  fmt.Sprintf("del-%s", uuid.NewString()),
		Price: decimal.New(7, 0),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID))

	err = svc.DeleteProduct(ctx, created.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
