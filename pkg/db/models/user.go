package models

import (
	"time"

	"github.com/casatienda/storefront-backend/pkg/enums"
	"github.com/google/uuid"
)

// User represents the canonical identity entity. Every user carries an
// affiliate link; ReferredByUserID records who recruited them and never
// changes after registration.
type User struct {
	ID               uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string         `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash     string         `gorm:"column:password_hash;not null"`
	Name             string         `gorm:"column:name;not null"`
	Phone            *string        `gorm:"column:phone"`
	Role             enums.UserRole `gorm:"column:role;type:text;not null;default:'customer'"`
	ReferredByUserID *uuid.UUID     `gorm:"column:referred_by_user_id;type:uuid"`
	IsActive         bool           `gorm:"column:is_active;not null;default:true"`
	LastLoginAt      *time.Time     `gorm:"column:last_login_at"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
