package course

import "gorm.io/gorm"

// Module represents a section within a course
type Module struct {
	gorm.Model
	CourseID      uint   `json:"course_id" gorm:"index;not null"`
	Title         string `json:"title"`
	VideoURL      string `json:"video_url"`
	DocURL        string `json:"doc_url"`
	ContentText   string `json:"content_text" gorm:"type:text"`
	OrderSequence int    `json:"order_sequence" gorm:"default:0"` // module order in course, unique per course
	IsDeleted     bool   `gorm:"default:false"`
}

// ChecklistItem is the smallest trackable unit of required action within a module
type ChecklistItem struct {
	gorm.Model
	ModuleID      uint   `json:"module_id" gorm:"index;not null"`
	Title         string `json:"title"`
	ItemType      string `json:"item_type" gorm:"default:'TEXT'"` // VIDEO, TEXT, QUIZ, TASK, EXERCISE
	OrderSequence int    `json:"order_sequence" gorm:"default:0"`
	XPReward      int    `json:"xp_reward" gorm:"default:0"`
	IsDeleted     bool   `gorm:"default:false"`
}
