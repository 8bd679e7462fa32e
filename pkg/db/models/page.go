package models

import (
	"time"

	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
)

// Page is a CMS page composed of layout blocks.
type Page struct {
	ID        uint                 `gorm:"column:id;primaryKey;autoIncrement"`
	Title     string               `gorm:"column:title;not null"`
	Slug      string               `gorm:"column:slug;not null;uniqueIndex"`
	Layout    dbtypes.JSONDocument `gorm:"column:layout;type:jsonb;not null"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// Global is a singleton content document (header, footer, landing page).
type Global struct {
	Slug      string               `gorm:"column:slug;primaryKey"`
	Data      dbtypes.JSONDocument `gorm:"column:data;type:jsonb;not null"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
