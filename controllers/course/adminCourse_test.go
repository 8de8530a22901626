package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrainerCourseLifecycle(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "TRAINER")

	code, resp := doRequest(t, app, http.MethodPost, "/admin/course/create", token,
		map[string]interface{}{
			"title":       "Intro to Databases",
			"description": "Tables, keys and queries",
			"category":    "data",
		})
	require.Equal(t, http.StatusCreated, code, resp.Message)

	var course courseModels.Course
	require.NoError(t, jsonUnmarshal(resp.Data, &course))
	assert.Equal(t, "DRAFT", course.Status)

	// Publishing an empty course is rejected
	code, resp = doRequest(t, app, http.MethodPatch,
		fmt.Sprintf("/admin/course/%d/status", course.ID), token,
		map[string]interface{}{"status": "PUBLISHED"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/admin/course/%d/module", course.ID), token,
		map[string]interface{}{"title": "First Module", "content_text": "hello"})
	require.Equal(t, http.StatusCreated, code, resp.Message)

	code, resp = doRequest(t, app, http.MethodPatch,
		fmt.Sprintf("/admin/course/%d/status", course.ID), token,
		map[string]interface{}{"status": "PUBLISHED"})
	require.Equal(t, http.StatusOK, code, resp.Message)

	var published courseModels.Course
	require.NoError(t, dbFirst(&published, course.ID))
	assert.Equal(t, "PUBLISHED", published.Status)
}

func TestCourseManagementRequiresPermission(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "USER")

	code, _ := doRequest(t, app, http.MethodPost, "/admin/course/create", token,
		map[string]interface{}{
			"title":       "Not Allowed",
			"description": "learners cannot author courses",
			"category":    "misc",
		})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestTrainerCannotTouchForeignCourse(t *testing.T) {
	app := setupTest(t)
	owner, _ := createUser(t, "TRAINER")
	_, intruderToken := createUser(t, "TRAINER")

	course := courseModels.Course{
		Title:     "Owned Elsewhere",
		Category:  "misc",
		Status:    "DRAFT",
		CreatedBy: owner.ID,
	}
	require.NoError(t, dbCreate(&course))

	code, _ := doRequest(t, app, http.MethodPut,
		fmt.Sprintf("/admin/course/%d", course.ID), intruderToken,
		map[string]interface{}{"title": "Hijacked"})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestModuleOrderSequenceConflict(t *testing.T) {
	app := setupTest(t)
	trainer, token := createUser(t, "TRAINER")

	course := courseModels.Course{
		Title:     "Ordered Course",
		Category:  "misc",
		Status:    "DRAFT",
		CreatedBy: trainer.ID,
	}
	require.NoError(t, dbCreate(&course))
	createModule(t, course.ID, 1, "", "")

	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/admin/course/%d/module", course.ID), token,
		map[string]interface{}{"title": "Clashing Module", "order_sequence": 1})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Order sequence already used in this course!", resp.Message)
}

func TestQuestionRequiresExactlyOneCorrectAnswer(t *testing.T) {
	app := setupTest(t)
	trainer, token := createUser(t, "TRAINER")

	course := courseModels.Course{
		Title:     "Quiz Course",
		Category:  "misc",
		Status:    "DRAFT",
		CreatedBy: trainer.ID,
	}
	require.NoError(t, dbCreate(&course))
	quiz, _, _, _ := createQuiz(t, course.ID, nil, 70, 0)

	path := fmt.Sprintf("/admin/quiz/%d/question", quiz.ID)

	// Two correct answers rejected
	code, resp := doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{
			"question_text": "Pick one",
			"point":         1,
			"answers": []map[string]interface{}{
				{"answer_text": "a", "is_correct": true},
				{"answer_text": "b", "is_correct": true},
			},
		})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Question must have exactly one correct answer!", resp.Message)

	// A single answer option fails payload validation
	code, _ = doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{
			"question_text": "Pick one",
			"point":         1,
			"answers": []map[string]interface{}{
				{"answer_text": "a", "is_correct": true},
			},
		})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	// Exactly one correct answer is accepted
	code, resp = doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{
			"question_text": "Pick one",
			"point":         1,
			"answers": []map[string]interface{}{
				{"answer_text": "a", "is_correct": true},
				{"answer_text": "b", "is_correct": false},
			},
		})
	require.Equal(t, http.StatusCreated, code, resp.Message)

	var questionCount int64
	dbCountWhere(&courseModels.Question{}, "quiz_id = ?", &questionCount, quiz.ID)
	assert.Equal(t, int64(1), questionCount)
}

func TestQuizModuleMustBelongToCourse(t *testing.T) {
	app := setupTest(t)
	trainer, token := createUser(t, "TRAINER")

	course := courseModels.Course{
		Title:     "Course A",
		Category:  "misc",
		Status:    "DRAFT",
		CreatedBy: trainer.ID,
	}
	require.NoError(t, dbCreate(&course))

	other := courseModels.Course{
		Title:     "Course B",
		Category:  "misc",
		Status:    "DRAFT",
		CreatedBy: trainer.ID,
	}
	require.NoError(t, dbCreate(&other))
	foreignModule := createModule(t, other.ID, 1, "", "")

	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/admin/course/%d/quiz", course.ID), token,
		map[string]interface{}{
			"title":     "Misplaced Quiz",
			"module_id": foreignModule.ID,
		})
	assert.Equal(t, http.StatusNotFound, code)
}
