package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserQuizAttempt is one scored submission of a quiz by a user
type UserQuizAttempt struct {
	gorm.Model
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	QuizID      uint           `json:"quiz_id" gorm:"index;not null"`
	CourseID    uint           `json:"course_id" gorm:"index;not null"` // denormalized from quiz
	Score       float64        `json:"score" gorm:"default:0"`          // percentage 0-100, two decimals
	IsPassed    bool           `json:"is_passed" gorm:"default:false"`
	SubmittedAt time.Time      `json:"submitted_at"`
	AnswersJSON datatypes.JSON `json:"answers_json"` // submitted (question_id, answer_id) pairs as sent
	IsDeleted   bool           `gorm:"default:false"`
}

// UserAnswer records the chosen answer for one question within an attempt
type UserAnswer struct {
	gorm.Model
	AttemptID  uint `json:"attempt_id" gorm:"index;not null;uniqueIndex:idx_attempt_question"`
	QuestionID uint `json:"question_id" gorm:"not null;uniqueIndex:idx_attempt_question"`
	AnswerID   uint `json:"answer_id" gorm:"not null"`
	IsCorrect  bool `json:"is_correct" gorm:"default:false"`
}
