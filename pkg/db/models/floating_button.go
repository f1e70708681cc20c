package models

import (
	"time"

	"github.com/google/uuid"
)

// FloatingButton is an admin configured quick link rendered on the storefront.
type FloatingButton struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Label     string    `gorm:"column:label;not null"`
	URL       string    `gorm:"column:url;not null"`
	Icon      *string   `gorm:"column:icon"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
