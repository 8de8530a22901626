package controllers

import (
	"encoding/json"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"time"

	"github.com/gofiber/fiber/v2"
)

// maxQuizAttempts caps non-passing attempts per (user, quiz). A prior passed
// attempt blocks resubmission regardless of count.
const maxQuizAttempts = 3

// SubmittedAnswer is one (question, answer) pair in a quiz submission
type SubmittedAnswer struct {
	QuestionID uint `json:"question_id" validate:"required,gt=0"`
	AnswerID   uint `json:"answer_id" validate:"required,gt=0"`
}

// SubmitQuiz grades a quiz submission and records the attempt
func SubmitQuiz(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	// Check enrollment in the quiz's course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, quiz.CourseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	reqData, ok := c.Locals("validatedQuizSubmission").(*struct {
		Answers []SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Load the quiz's questions and answers for referential validation
	var questions []courseModels.Question
	if err := database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).Find(&questions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load questions!", nil)
	}

	questionByID := make(map[uint]courseModels.Question, len(questions))
	questionIDs := make([]uint, len(questions))
	for i, q := range questions {
		questionByID[q.ID] = q
		questionIDs[i] = q.ID
	}

	var answers []courseModels.Answer
	if len(questionIDs) > 0 {
		if err := database.Database.Db.Where("question_id IN ? AND is_deleted = ?", questionIDs, false).Find(&answers).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load answers!", nil)
		}
	}

	answerByID := make(map[uint]courseModels.Answer, len(answers))
	for _, a := range answers {
		answerByID[a.ID] = a
	}

	// Reject the whole submission on any out-of-quiz reference, no partial grading
	seen := make(map[uint]bool, len(reqData.Answers))
	for _, sub := range reqData.Answers {
		if _, found := questionByID[sub.QuestionID]; !found {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question does not belong to this quiz!", nil)
		}
		if seen[sub.QuestionID] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Duplicate answer for a question!", nil)
		}
		seen[sub.QuestionID] = true

		answer, found := answerByID[sub.AnswerID]
		if !found || answer.QuestionID != sub.QuestionID {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Answer does not belong to the question!", nil)
		}
	}

	answersJSON, _ := json.Marshal(reqData.Answers)

	// Count checks -> create attempt -> create answers -> finalize score,
	// all inside one transaction
	tx := database.Database.Db.Begin()

	// "Already passed" takes priority over "attempts exhausted"
	var passedCount int64
	tx.Model(&courseModels.UserQuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND is_passed = ? AND is_deleted = ?", userID, quizID, true, false).
		Count(&passedCount)
	if passedCount > 0 {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz already passed!", nil)
	}

	var attemptCount int64
	tx.Model(&courseModels.UserQuizAttempt{}).
		Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Count(&attemptCount)
	if attemptCount >= maxQuizAttempts {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Maximum quiz attempts reached!", nil)
	}

	attempt := courseModels.UserQuizAttempt{
		UserID:      userID,
		QuizID:      uint(quizID),
		CourseID:    quiz.CourseID,
		Score:       0,
		IsPassed:    false,
		SubmittedAt: time.Now(),
		AnswersJSON: answersJSON,
	}

	if err := tx.Create(&attempt).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create attempt: "+err.Error(), nil)
	}

	earnedPoints := float64(0)
	for _, sub := range reqData.Answers {
		answer := answerByID[sub.AnswerID]

		userAnswer := courseModels.UserAnswer{
			AttemptID:  attempt.ID,
			QuestionID: sub.QuestionID,
			AnswerID:   sub.AnswerID,
			IsCorrect:  answer.IsCorrect,
		}
		if err := tx.Create(&userAnswer).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record answer: "+err.Error(), nil)
		}

		if answer.IsCorrect {
			earnedPoints += questionByID[sub.QuestionID].Point
		}
	}

	// Omitted questions still count toward the total
	totalPoints := float64(0)
	for _, q := range questions {
		totalPoints += q.Point
	}

	score := float64(0)
	if totalPoints > 0 {
		score = round2(earnedPoints / totalPoints * 100)
	}
	isPassed := score >= quiz.PassingScore

	attempt.Score = score
	attempt.IsPassed = isPassed
	if err := tx.Save(&attempt).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to finalize attempt: "+err.Error(), nil)
	}

	// A passed module quiz also advances course progress
	if isPassed && quiz.ModuleID != nil {
		progress, err := getModuleLevelProgress(tx, enrollment.ID, *quiz.ModuleID)
		if err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress: "+err.Error(), nil)
		}

		progress.IsQuizPassed = true
		if score > progress.HighestQuizScore {
			progress.HighestQuizScore = score
		}
		if err := tx.Save(&progress).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress: "+err.Error(), nil)
		}

		if err := recalcChecklistProgress(tx, &enrollment); err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment progress: "+err.Error(), nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted!", fiber.Map{
		"attempt_id":    attempt.ID,
		"score":         score,
		"is_passed":     isPassed,
		"earned_points": earnedPoints,
		"total_points":  totalPoints,
	})
}

// GetAttemptResult returns a graded attempt with per-question correctness.
// Owner only.
func GetAttemptResult(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	attemptID := c.Locals("attemptID").(int)

	var attempt courseModels.UserQuizAttempt
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", attemptID, false).First(&attempt).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Attempt not found!", nil)
	}

	if attempt.UserID != userID {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your attempt.", nil)
	}

	var userAnswers []courseModels.UserAnswer
	database.Database.Db.Where("attempt_id = ?", attempt.ID).Find(&userAnswers)

	type AnswerResult struct {
		QuestionID   uint   `json:"question_id"`
		QuestionText string `json:"question_text"`
		Explanation  string `json:"explanation"`
		AnswerID     uint   `json:"answer_id"`
		IsCorrect    bool   `json:"is_correct"`
	}

	results := make([]AnswerResult, len(userAnswers))
	for i, ua := range userAnswers {
		var question courseModels.Question
		database.Database.Db.Where("id = ?", ua.QuestionID).First(&question)
		results[i] = AnswerResult{
			QuestionID:   ua.QuestionID,
			QuestionText: question.QuestionText,
			Explanation:  question.Explanation,
			AnswerID:     ua.AnswerID,
			IsCorrect:    ua.IsCorrect,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempt fetched successfully!", fiber.Map{
		"attempt": attempt,
		"answers": results,
	})
}

// GetQuizAttempts lists the current user's attempts for a quiz
func GetQuizAttempts(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var attempts []courseModels.UserQuizAttempt
	database.Database.Db.Where("user_id = ? AND quiz_id = ? AND is_deleted = ?", userID, quizID, false).
		Order("submitted_at desc").Find(&attempts)

	remaining := maxQuizAttempts - len(attempts)
	if remaining < 0 {
		remaining = 0
	}
	for _, a := range attempts {
		if a.IsPassed {
			remaining = 0
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Attempts fetched successfully!", fiber.Map{
		"attempts":           attempts,
		"attempts_remaining": remaining,
	})
}
