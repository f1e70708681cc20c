package models

import (
	"time"
)

// AffiliateSetting is a key/value row for affiliate program knobs, such as
// the default commission rate.
type AffiliateSetting struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName keeps the settings table singularized by GORM's default pluralizer.
func (AffiliateSetting) TableName() string {
	return "affiliate_settings"
}
