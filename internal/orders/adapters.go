package orders

import (
	"context"

	"github.com/casatienda/storefront-backend/internal/affiliate"
	product "github.com/casatienda/storefront-backend/internal/products"
	"github.com/casatienda/storefront-backend/internal/users"
	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productFinderAdapter rebinds the catalog repository to the submission
// transaction so every price read sees the same snapshot.
type productFinderAdapter struct {
	repo *product.Repository
}

// NewProductFinder adapts the catalog repository for in-transaction lookups.
func NewProductFinder(repo *product.Repository) ProductFinder {
	return &productFinderAdapter{repo: repo}
}

func (a *productFinderAdapter) FindProduct(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Product, error) {
	return a.repo.WithTx(tx).FindByID(ctx, id)
}

type userFinderAdapter struct {
	repo *users.Repository
}

// NewUserFinder adapts the users repository for in-transaction lookups.
func NewUserFinder(repo *users.Repository) UserFinder {
	return &userFinderAdapter{repo: repo}
}

func (a *userFinderAdapter) FindUser(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error) {
	return a.repo.WithTx(tx).FindByID(ctx, id)
}

type referralRecorderAdapter struct {
	repo *affiliate.Repository
}

// NewReferralRecorder adapts the affiliate repository so the commission row
// joins the order's transaction.
func NewReferralRecorder(repo *affiliate.Repository) ReferralRecorder {
	return &referralRecorderAdapter{repo: repo}
}

func (a *referralRecorderAdapter) RecordReferral(ctx context.Context, tx *gorm.DB, referral *models.AffiliateReferral) error {
	_, err := a.repo.WithTx(tx).CreateReferral(ctx, referral)
	return err
}
