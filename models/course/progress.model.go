package course

import (
	"time"

	"gorm.io/gorm"
)

// ModuleProgress is the per-enrollment completion record for a module or one
// of its checklist items. A row with ChecklistItemID set tracks a single
// checklist item; a row with ChecklistItemID nil tracks the whole module
// (legacy text/video flags).
type ModuleProgress struct {
	gorm.Model
	EnrollmentID     uint       `json:"enrollment_id" gorm:"index;not null"`
	ModuleID         uint       `json:"module_id" gorm:"index;not null"`
	ChecklistItemID  *uint      `json:"checklist_item_id" gorm:"index"`
	IsTextRead       bool       `json:"is_text_read" gorm:"default:false"`
	IsVideoWatched   bool       `json:"is_video_watched" gorm:"default:false"`
	IsQuizPassed     bool       `json:"is_quiz_passed" gorm:"default:false"`
	HighestQuizScore float64    `json:"highest_quiz_score" gorm:"default:0"`
	IsCompleted      bool       `json:"is_completed" gorm:"default:false"`
	CompletedAt      *time.Time `json:"completed_at"`
	IsDeleted        bool       `gorm:"default:false"`
}

// IsItemLevel reports whether the row tracks a single checklist item rather
// than the whole module.
func (p *ModuleProgress) IsItemLevel() bool {
	return p.ChecklistItemID != nil
}
