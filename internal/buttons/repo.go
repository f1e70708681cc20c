package buttons

import (
	"context"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists floating button configuration.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListActive returns storefront-visible buttons in display order.
func (r *Repository) ListActive(ctx context.Context) ([]models.FloatingButton, error) {
	var items []models.FloatingButton
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListAll returns every button for the back office, same ordering as the storefront.
func (r *Repository) ListAll(ctx context.Context) ([]models.FloatingButton, error) {
	var items []models.FloatingButton
	err := r.db.WithContext(ctx).
		Order("sort_order ASC, id ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID loads one button.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FloatingButton, error) {
	var item models.FloatingButton
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new button.
func (r *Repository) Create(ctx context.Context, button *models.FloatingButton) (*models.FloatingButton, error) {
	if button.ID == uuid.Nil {
		button.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(button).Error; err != nil {
		return nil, err
	}
	return button, nil
}

// Update applies the provided column updates.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.FloatingButton{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// Delete removes the button row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.FloatingButton{}, "id = ?", id).Error
}
