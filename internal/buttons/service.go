package buttons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	pkgerrors "github.com/casatienda/storefront-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ButtonDTO is the transport shape for floating buttons.
type ButtonDTO struct {
	ID        uuid.UUID `json:"id"`
	Label     string    `json:"label"`
	URL       string    `json:"url"`
	Icon      *string   `json:"icon,omitempty"`
	SortOrder int       `json:"sort_order"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateButtonInput holds the validated payload to create a button.
type CreateButtonInput struct {
	Label     string
	URL       string
	Icon      *string
	SortOrder int
	IsActive  *bool
}

// UpdateButtonInput holds optional mutation values.
type UpdateButtonInput struct {
	Label     *string
	URL       *string
	Icon      *string
	SortOrder *int
	IsActive  *bool
}

// Service exposes storefront reads and admin management of floating buttons.
type Service interface {
	ListActive(ctx context.Context) ([]ButtonDTO, error)
	ListAll(ctx context.Context) ([]ButtonDTO, error)
	Create(ctx context.Context, input CreateButtonInput) (*ButtonDTO, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateButtonInput) (*ButtonDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo *Repository
}

// NewService constructs a buttons service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("buttons repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListActive(ctx context.Context) ([]ButtonDTO, error) {
	items, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buttons")
	}
	return fromModels(items), nil
}

func (s *service) ListAll(ctx context.Context) ([]ButtonDTO, error) {
	items, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buttons")
	}
	return fromModels(items), nil
}

func (s *service) Create(ctx context.Context, input CreateButtonInput) (*ButtonDTO, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "button label required")
	}
	link := strings.TrimSpace(input.URL)
	if link == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "button url required")
	}

	isActive := true
	if input.IsActive != nil {
		isActive = *input.IsActive
	}

	created, err := s.repo.Create(ctx, &models.FloatingButton{
		Label:     label,
		URL:       link,
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
		IsActive:  isActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create button")
	}
	return fromModel(created), nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateButtonInput) (*ButtonDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "button id required")
	}

	updates := map[string]any{}
	if input.Label != nil {
		label := strings.TrimSpace(*input.Label)
		if label == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "button label cannot be empty")
		}
		updates["label"] = label
	}
	if input.URL != nil {
		link := strings.TrimSpace(*input.URL)
		if link == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "button url cannot be empty")
		}
		updates["url"] = link
	}
	if input.Icon != nil {
		updates["icon"] = *input.Icon
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no updates provided")
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "button not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load button")
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update button")
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload button")
	}
	return fromModel(updated), nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "button id required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "button not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load button")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete button")
	}
	return nil
}

func fromModel(b *models.FloatingButton) *ButtonDTO {
	if b == nil {
		return nil
	}
	return &ButtonDTO{
		ID:        b.ID,
		Label:     b.Label,
		URL:       b.URL,
		Icon:      b.Icon,
		SortOrder: b.SortOrder,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

func fromModels(items []models.FloatingButton) []ButtonDTO {
	dtos := make([]ButtonDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, *fromModel(&items[i]))
	}
	return dtos
}
