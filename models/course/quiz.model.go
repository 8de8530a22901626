package course

import "gorm.io/gorm"

// Quiz belongs to a course and may be linked to one module
type Quiz struct {
	gorm.Model
	CourseID        uint    `json:"course_id" gorm:"index;not null"`
	ModuleID        *uint   `json:"module_id" gorm:"index"`
	Title           string  `json:"title"`
	PassingScore    float64 `json:"passing_score" gorm:"default:70"` // percentage 0-100
	MinScore        float64 `json:"min_score" gorm:"default:0"`
	IsTimed         bool    `json:"is_timed" gorm:"default:false"`
	TimeLimitSecond int     `json:"time_limit_second" gorm:"default:0"`
	XPBonus         int     `json:"xp_bonus" gorm:"default:0"`
	IsDeleted       bool    `gorm:"default:false"`
}

// Question belongs to a quiz; Point is its weight in the total score
type Question struct {
	gorm.Model
	QuizID        uint    `json:"quiz_id" gorm:"index;not null"`
	QuestionText  string  `json:"question_text" gorm:"type:text"`
	Explanation   string  `json:"explanation" gorm:"type:text"`
	Point         float64 `json:"point" gorm:"default:1"`
	OrderSequence int     `json:"order_sequence" gorm:"default:0"`
	IsDeleted     bool    `gorm:"default:false"`
}

// Answer belongs to a question; exactly one answer per question is correct
type Answer struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	AnswerText string `json:"answer_text"`
	IsCorrect  bool   `json:"is_correct" gorm:"default:false"`
	IsDeleted  bool   `gorm:"default:false"`
}
