package models

import "time"

type Order struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UserID        uint          `gorm:"index;not null" json:"user_id"`
	Status        OrderStatus   `gorm:"size:20;not null;index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null;default:'created'" json:"payment_status"`
	Address       string        `gorm:"type:text;not null" json:"address"`
	TotalSum      int64         `gorm:"not null" json:"total_sum"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	// Snapshot taken at checkout; never re-synced with later product edits.
	Products []Product `gorm:"many2many:order_products" json:"products"`

	// Only set on the checkout response.
	ClientSecret string `gorm:"-" json:"client_secret,omitempty"`
}
