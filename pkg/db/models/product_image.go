package models

import "time"

// ProductImage stores ordered gallery entries for products.
type ProductImage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint      `gorm:"column:product_id;not null;index"`
	MediaID   uint      `gorm:"column:media_id;not null"`
	Media     *Media    `gorm:"foreignKey:MediaID"`
	Position  int       `gorm:"column:position;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
