package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Price       float64        `gorm:"not null" json:"price"`
	ImageURL    string         `json:"image_url"`
	GalleryURLs pq.StringArray `gorm:"type:text[]" json:"gallery_urls,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Comments []Comment `gorm:"foreignKey:ProductID" json:"comments"`

	// Computed per request from Comments; never persisted
	AverageRating float64 `gorm:"-" json:"average_rating"`
}

func (Product) TableName() string {
	return "products"
}
