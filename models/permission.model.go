package models

import "gorm.io/gorm"

// Permission grants a user a named capability (seeded from role at signup)
type Permission struct {
	gorm.Model
	UserID     uint   `gorm:"index;not null"`
	Permission string `gorm:"not null"` // e.g. course:view, course:manage, certificate:approve
	IsDeleted  bool   `gorm:"default:false"`
}
