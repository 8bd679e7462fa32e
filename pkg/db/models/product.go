package models

import (
	"time"

	dbtypes "github.com/angelmondragon/carpenter-backend/pkg/db/types"
)

// Product is a door model offered in the catalog. Dimension options are
// stored as a single JSON document.
type Product struct {
	ID             uint               `gorm:"column:id;primaryKey;autoIncrement"`
	Name           string             `gorm:"column:name;not null"`
	Description    *string            `gorm:"column:description"`
	CategoryID     uint               `gorm:"column:category_id;not null;index"`
	Category       *Category          `gorm:"foreignKey:CategoryID"`
	LegacyImageURL *string            `gorm:"column:legacy_image_url"`
	Dimensions     dbtypes.Dimensions `gorm:"column:dimensions;type:jsonb;not null"`
	Images         []ProductImage     `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt      time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
