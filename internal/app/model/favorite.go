package model

import (
	"time"
)

// Favorite is a user-product bookmark. The composite unique index makes
// duplicate rows impossible under concurrent toggles, and rows are hard
// deleted (no DeletedAt) so the index stays authoritative.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_user_product_favorite,unique" json:"user_id"`
	ProductID uint      `gorm:"not null;index:idx_user_product_favorite,unique" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (Favorite) TableName() string {
	return "favorites"
}
