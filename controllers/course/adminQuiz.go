package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// QuizPayload is the validated quiz create/update body
type QuizPayload struct {
	Title           string  `json:"title" validate:"required,min=3"`
	ModuleID        *uint   `json:"module_id" validate:"omitempty,gt=0"`
	PassingScore    float64 `json:"passing_score" validate:"gte=0,lte=100"`
	MinScore        float64 `json:"min_score" validate:"gte=0,lte=100"`
	IsTimed         bool    `json:"is_timed"`
	TimeLimitSecond int     `json:"time_limit_second" validate:"gte=0"`
	XPBonus         int     `json:"xp_bonus" validate:"gte=0"`
}

// QuestionPayload is the validated question body with its answers. The
// answers invariant (2-4 options, exactly one correct) is enforced here.
type QuestionPayload struct {
	QuestionText  string          `json:"question_text" validate:"required,min=3"`
	Explanation   string          `json:"explanation"`
	Point         float64         `json:"point" validate:"required,gt=0"`
	OrderSequence int             `json:"order_sequence" validate:"gte=0"`
	Answers       []AnswerPayload `json:"answers" validate:"required,min=2,max=4,dive"`
}

// AnswerPayload is one answer option within a question payload
type AnswerPayload struct {
	AnswerText string `json:"answer_text" validate:"required"`
	IsCorrect  bool   `json:"is_correct"`
}

// CountCorrect returns how many answers in the payload are flagged correct
func (p *QuestionPayload) CountCorrect() int {
	count := 0
	for _, a := range p.Answers {
		if a.IsCorrect {
			count++
		}
	}
	return count
}

// AdminCreateQuiz creates a quiz in a course, optionally linked to a module
func AdminCreateQuiz(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	reqData, ok := c.Locals("validatedQuiz").(*QuizPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// A linked module must belong to the same course
	if reqData.ModuleID != nil {
		var module courseModels.Module
		if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", *reqData.ModuleID, courseID, false).First(&module).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found in this course!", nil)
		}
	}

	quiz := courseModels.Quiz{
		CourseID:        uint(courseID),
		ModuleID:        reqData.ModuleID,
		Title:           reqData.Title,
		PassingScore:    reqData.PassingScore,
		MinScore:        reqData.MinScore,
		IsTimed:         reqData.IsTimed,
		TimeLimitSecond: reqData.TimeLimitSecond,
		XPBonus:         reqData.XPBonus,
	}

	if err := database.Database.Db.Create(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", quiz)
}

// AdminCreateQuestion adds a question with its 2-4 answers to a quiz
func AdminCreateQuestion(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quiz.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*QuestionPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.CountCorrect() != 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question must have exactly one correct answer!", nil)
	}

	orderSequence := reqData.OrderSequence
	if orderSequence == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Question{}).
			Where("quiz_id = ? AND is_deleted = ?", quizID, false).
			Select("COALESCE(MAX(order_sequence), 0)").Scan(&maxOrder)
		orderSequence = maxOrder + 1
	}

	tx := database.Database.Db.Begin()

	question := courseModels.Question{
		QuizID:        uint(quizID),
		QuestionText:  reqData.QuestionText,
		Explanation:   reqData.Explanation,
		Point:         reqData.Point,
		OrderSequence: orderSequence,
	}
	if err := tx.Create(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create question: "+err.Error(), nil)
	}

	answers := make([]courseModels.Answer, len(reqData.Answers))
	for i, a := range reqData.Answers {
		answers[i] = courseModels.Answer{
			QuestionID: question.ID,
			AnswerText: a.AnswerText,
			IsCorrect:  a.IsCorrect,
		}
		if err := tx.Create(&answers[i]).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create answer: "+err.Error(), nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Question created successfully!", fiber.Map{
		"question": question,
		"answers":  answers,
	})
}

// AdminUpdateQuestion replaces a question's text, weight and answer set
func AdminUpdateQuestion(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	questionID := c.Locals("questionID").(int)

	var question courseModels.Question
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", question.QuizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quiz.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	reqData, ok := c.Locals("validatedQuestion").(*QuestionPayload)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.CountCorrect() != 1 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Question must have exactly one correct answer!", nil)
	}

	tx := database.Database.Db.Begin()

	question.QuestionText = reqData.QuestionText
	question.Explanation = reqData.Explanation
	question.Point = reqData.Point
	if reqData.OrderSequence > 0 {
		question.OrderSequence = reqData.OrderSequence
	}
	if err := tx.Save(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update question: "+err.Error(), nil)
	}

	// Replace the whole answer set to keep the one-correct invariant simple
	if err := tx.Model(&courseModels.Answer{}).Where("question_id = ?", question.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update answers: "+err.Error(), nil)
	}

	answers := make([]courseModels.Answer, len(reqData.Answers))
	for i, a := range reqData.Answers {
		answers[i] = courseModels.Answer{
			QuestionID: question.ID,
			AnswerText: a.AnswerText,
			IsCorrect:  a.IsCorrect,
		}
		if err := tx.Create(&answers[i]).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create answer: "+err.Error(), nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question updated successfully!", fiber.Map{
		"question": question,
		"answers":  answers,
	})
}

// AdminDeleteQuestion soft deletes a question and its answers
func AdminDeleteQuestion(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	questionID := c.Locals("questionID").(int)

	var question courseModels.Question
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", questionID, false).First(&question).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Question not found!", nil)
	}

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", question.QuizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quiz.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	tx := database.Database.Db.Begin()

	question.IsDeleted = true
	if err := tx.Save(&question).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete question!", nil)
	}

	if err := tx.Model(&courseModels.Answer{}).Where("question_id = ?", question.ID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete answers!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Question deleted successfully!", nil)
}

// AdminDeleteQuiz soft deletes a quiz with its questions and answers
func AdminDeleteQuiz(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quiz.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	tx := database.Database.Db.Begin()

	quiz.IsDeleted = true
	if err := tx.Save(&quiz).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete quiz!", nil)
	}

	var questionIDs []uint
	tx.Model(&courseModels.Question{}).Where("quiz_id = ? AND is_deleted = ?", quizID, false).Pluck("id", &questionIDs)

	if len(questionIDs) > 0 {
		if err := tx.Model(&courseModels.Question{}).Where("id IN ?", questionIDs).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete questions!", nil)
		}
		if err := tx.Model(&courseModels.Answer{}).Where("question_id IN ?", questionIDs).Update("is_deleted", true).Error; err != nil {
			tx.Rollback()
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete answers!", nil)
		}
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz deleted successfully!", nil)
}

// AdminGetQuiz returns the quiz with questions and answers, correct flags included
func AdminGetQuiz(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	quizID := c.Locals("quizID").(int)

	var quiz courseModels.Quiz
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quizID, false).First(&quiz).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", quiz.CourseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	type QuestionWithAnswers struct {
		courseModels.Question
		Answers []courseModels.Answer `json:"answers"`
	}

	var questions []courseModels.Question
	database.Database.Db.Where("quiz_id = ? AND is_deleted = ?", quizID, false).Order("order_sequence asc").Find(&questions)

	result := make([]QuestionWithAnswers, len(questions))
	for i, q := range questions {
		result[i] = QuestionWithAnswers{Question: q}
		var answers []courseModels.Answer
		database.Database.Db.Where("question_id = ? AND is_deleted = ?", q.ID, false).Find(&answers)
		result[i].Answers = answers
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", fiber.Map{
		"quiz":      quiz,
		"questions": result,
	})
}
