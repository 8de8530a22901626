package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"lms/config"
	authController "lms/controllers/auth"
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	authRoutes "lms/routers/authRoutes"
	courseRoutes "lms/routers/courseRoutes"
	userRoutes "lms/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var userSeq uint64

// setupTest builds an isolated in-memory database and a fiber app with
// the full route table registered.
func setupTest(t *testing.T) *fiber.App {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:    "test-secret",
		SaltRound: 4,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	return app
}

func createUser(t *testing.T, role string) (models.User, string) {
	t.Helper()
	db := database.Database.Db

	seq := atomic.AddUint64(&userSeq, 1)
	user := models.User{
		Name:     fmt.Sprintf("%s %d", role, seq),
		Email:    fmt.Sprintf("%s-%d@test.local", strings.ToLower(role), seq),
		Mobile:   fmt.Sprintf("99%08d", seq),
		Role:     role,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, authController.SeedPermissions(db, role, user.ID))

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email, user.Mobile)
	require.NoError(t, err)
	return user, token
}

func createPublishedCourse(t *testing.T, createdBy uint) courseModels.Course {
	t.Helper()
	course := courseModels.Course{
		Title:       "Go From Zero",
		Description: "An introductory course",
		Category:    "programming",
		Status:      "PUBLISHED",
		CreatedBy:   createdBy,
	}
	require.NoError(t, database.Database.Db.Create(&course).Error)
	return course
}

func createModule(t *testing.T, courseID uint, seq int, contentText, videoURL string) courseModels.Module {
	t.Helper()
	module := courseModels.Module{
		CourseID:      courseID,
		Title:         fmt.Sprintf("Module %d", seq),
		ContentText:   contentText,
		VideoURL:      videoURL,
		OrderSequence: seq,
	}
	require.NoError(t, database.Database.Db.Create(&module).Error)
	return module
}

func createChecklistItem(t *testing.T, moduleID uint, seq int, itemType string) courseModels.ChecklistItem {
	t.Helper()
	item := courseModels.ChecklistItem{
		ModuleID:      moduleID,
		Title:         fmt.Sprintf("Item %d", seq),
		ItemType:      itemType,
		OrderSequence: seq,
	}
	require.NoError(t, database.Database.Db.Create(&item).Error)
	return item
}

func enroll(t *testing.T, userID, courseID uint) courseModels.Enrollment {
	t.Helper()
	enrollment := courseModels.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   "ENROLLED",
	}
	require.NoError(t, database.Database.Db.Create(&enrollment).Error)
	return enrollment
}

// createQuiz seeds a quiz with n questions of one point each, every
// question carrying one correct and one wrong answer.
func createQuiz(t *testing.T, courseID uint, moduleID *uint, passingScore float64, questionCount int) (courseModels.Quiz, []courseModels.Question, map[uint]uint, map[uint]uint) {
	t.Helper()
	db := database.Database.Db

	quiz := courseModels.Quiz{
		CourseID:     courseID,
		ModuleID:     moduleID,
		Title:        "Checkpoint Quiz",
		PassingScore: passingScore,
	}
	require.NoError(t, db.Create(&quiz).Error)

	questions := make([]courseModels.Question, 0, questionCount)
	correctByQuestion := make(map[uint]uint, questionCount)
	wrongByQuestion := make(map[uint]uint, questionCount)

	for i := 0; i < questionCount; i++ {
		question := courseModels.Question{
			QuizID:        quiz.ID,
			QuestionText:  fmt.Sprintf("Question %d", i+1),
			Point:         1,
			OrderSequence: i + 1,
		}
		require.NoError(t, db.Create(&question).Error)

		correct := courseModels.Answer{QuestionID: question.ID, AnswerText: "right", IsCorrect: true}
		wrong := courseModels.Answer{QuestionID: question.ID, AnswerText: "wrong", IsCorrect: false}
		require.NoError(t, db.Create(&correct).Error)
		require.NoError(t, db.Create(&wrong).Error)

		questions = append(questions, question)
		correctByQuestion[question.ID] = correct.ID
		wrongByQuestion[question.ID] = wrong.ID
	}

	return quiz, questions, correctByQuestion, wrongByQuestion
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, apiResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out apiResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func jsonUnmarshal(raw json.RawMessage, out interface{}) error {
	return json.Unmarshal(raw, out)
}

func dbFirst(out interface{}, id uint) error {
	return database.Database.Db.First(out, id).Error
}

func dbWhereFirst(out interface{}, query string, args ...interface{}) error {
	return database.Database.Db.Where(query, args...).First(out).Error
}

func dbCreate(v interface{}) error {
	return database.Database.Db.Create(v).Error
}

func dbCountWhere(model interface{}, query string, out *int64, args ...interface{}) {
	database.Database.Db.Model(model).Where(query, args...).Count(out)
}

func reloadEnrollment(t *testing.T, id uint) courseModels.Enrollment {
	t.Helper()
	var enrollment courseModels.Enrollment
	require.NoError(t, database.Database.Db.First(&enrollment, id).Error)
	return enrollment
}
