package models

import "time"

// Media is an uploaded asset referenced by products and content blocks.
type Media struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	URL       string    `gorm:"column:url;not null"`
	Alt       *string   `gorm:"column:alt"`
	FileName  string    `gorm:"column:file_name;not null"`
	MimeType  string    `gorm:"column:mime_type;not null"`
	Width     *int      `gorm:"column:width"`
	Height    *int      `gorm:"column:height"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
