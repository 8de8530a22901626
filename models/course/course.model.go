package course

import "gorm.io/gorm"

// Course represents a learning course authored by a trainer
type Course struct {
	gorm.Model
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Status      string  `json:"status" gorm:"default:'DRAFT'"` // DRAFT, PUBLISHED, ARCHIVED
	CreatedBy   uint    `json:"created_by" gorm:"index;not null"`
	Rating      float64 `json:"rating" gorm:"default:0"` // average rating, refreshed by scheduler
	RatingCount int64   `json:"rating_count" gorm:"default:0"`
	IsDeleted   bool    `gorm:"default:false"`
}
