package models

import "time"

type CartItem struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	UserID     uint  `gorm:"index;not null" json:"user_id"`
	ProductID  uint  `gorm:"index;not null" json:"product_id"`
	Quantity   int   `gorm:"not null" json:"quantity"`
	TotalPrice int64 `gorm:"not null" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    *User    `gorm:"foreignKey:UserID" json:"-"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
