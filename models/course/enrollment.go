package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment tracks a user's registration in a course with aggregate progress
type Enrollment struct {
	gorm.Model
	UserID             uint       `json:"user_id" gorm:"index;not null"`
	CourseID           uint       `json:"course_id" gorm:"index;not null"`
	Status             string     `json:"status" gorm:"default:'ENROLLED'"` // ENROLLED, IN_PROGRESS, COMPLETED, DROPPED
	ProgressPercentage float64    `json:"progress_percentage" gorm:"default:0"` // 0-100, two decimals
	EnrollmentAt       time.Time  `json:"enrollment_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	IsDeleted          bool       `gorm:"default:false"`
}
