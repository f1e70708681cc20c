package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/casatienda/storefront-backend/pkg/db/models"
	"github.com/casatienda/storefront-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID               uuid.UUID      `json:"id"`
	Email            string         `json:"email"`
	Name             string         `json:"name"`
	Phone            *string        `json:"phone,omitempty"`
	Role             enums.UserRole `json:"role"`
	ReferredByUserID *uuid.UUID     `json:"referred_by_user_id,omitempty"`
	IsActive         bool           `json:"is_active"`
	LastLoginAt      *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email            string
	PasswordHash     string
	Name             string
	Phone            *string
	Role             enums.UserRole
	ReferredByUserID *uuid.UUID
	IsActive         *bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:               u.ID,
		Email:            u.Email,
		Name:             u.Name,
		Phone:            u.Phone,
		Role:             u.Role,
		ReferredByUserID: u.ReferredByUserID,
		IsActive:         u.IsActive,
		LastLoginAt:      u.LastLoginAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	isActive := true
	if c.IsActive != nil {
		isActive = *c.IsActive
	}
	role := c.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Email:            c.Email,
		PasswordHash:     c.PasswordHash,
		Name:             c.Name,
		Phone:            c.Phone,
		Role:             role,
		ReferredByUserID: c.ReferredByUserID,
		IsActive:         isActive,
	}
}
