package models

import (
	"time"

	"gorm.io/gorm"
)

type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"index;not null"`
	IPAddress string    `gorm:"default:''"`
	UserAgent string    `gorm:"default:''"`
	LoginAt   time.Time `json:"login_at"`
	IsDeleted bool      `gorm:"default:false"`
}
