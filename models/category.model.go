package models

import "time"

type Category struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"type:text;not null" json:"description"`

	// Nullable self reference. Children are looked up by parent_id, never cascaded.
	ParentID *uint     `gorm:"index" json:"parent_id"`
	Parent   *Category `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT" json:"parent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
