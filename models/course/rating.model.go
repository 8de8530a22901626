package course

import "gorm.io/gorm"

// CourseRating is one user's rating of a course; one row per (course, user),
// overwritable while enrolled
type CourseRating struct {
	gorm.Model
	CourseID  uint   `json:"course_id" gorm:"not null;uniqueIndex:idx_course_user_rating"`
	UserID    uint   `json:"user_id" gorm:"not null;uniqueIndex:idx_course_user_rating"`
	Rating    int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"` // 1-5 rating
	Review    string `json:"review" gorm:"type:text;default:''"`                       // optional review text
	IsDeleted bool   `gorm:"default:false"`
}
