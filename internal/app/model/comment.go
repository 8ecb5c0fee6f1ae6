package model

import (
	"time"

	"gorm.io/gorm"
)

// Comment is a per-product review with an integer rating.
// UserID is set server-side at creation and never changes afterwards.
type Comment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	User      User           `gorm:"foreignKey:UserID" json:"user"`
	ProductID uint           `gorm:"not null;index" json:"product_id"`
	Text      string         `gorm:"type:text;not null" json:"text"`
	Rating    int            `gorm:"not null" json:"rating"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}
