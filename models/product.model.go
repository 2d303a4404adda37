package models

import (
	"time"
)

type Product struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:255;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Brand       string `gorm:"size:100" json:"brand"`
	Color       string `gorm:"size:50" json:"color"`
	Material    string `gorm:"size:100" json:"material"`
	IsAvailable bool   `gorm:"not null" json:"is_available"`

	ImageID *uint `gorm:"uniqueIndex" json:"image_id"`
	Image   *File `gorm:"foreignKey:ImageID;constraint:OnDelete:SET NULL" json:"image,omitempty"`

	CategoryID uint      `gorm:"index;not null" json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// File is an uploaded object kept under the storage directory.
type File struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OriginalName string    `gorm:"size:255;not null" json:"original_name"`
	Path         string    `gorm:"size:255;not null;uniqueIndex" json:"path"`
	MimeType     string    `gorm:"size:100;not null" json:"mime_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
