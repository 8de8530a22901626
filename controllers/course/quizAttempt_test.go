package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type submissionBody struct {
	Answers []map[string]uint `json:"answers"`
}

func answerPair(questionID, answerID uint) map[string]uint {
	return map[string]uint{"question_id": questionID, "answer_id": answerID}
}

type submitResult struct {
	AttemptID    uint    `json:"attempt_id"`
	Score        float64 `json:"score"`
	IsPassed     bool    `json:"is_passed"`
	EarnedPoints float64 `json:"earned_points"`
	TotalPoints  float64 `json:"total_points"`
}

func TestSubmitQuizGrading(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)
	quiz, questions, correct, wrong := createQuiz(t, course.ID, nil, 50, 4)

	// 2 right, 1 wrong, 1 omitted: 2 of 4 points
	body := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
		answerPair(questions[1].ID, correct[questions[1].ID]),
		answerPair(questions[2].ID, wrong[questions[2].ID]),
	}}

	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var result submitResult
	require.NoError(t, jsonUnmarshal(resp.Data, &result))
	assert.Equal(t, 50.0, result.Score)
	assert.True(t, result.IsPassed)
	assert.Equal(t, 2.0, result.EarnedPoints)
	assert.Equal(t, 4.0, result.TotalPoints)

	var attempt courseModels.UserQuizAttempt
	require.NoError(t, dbFirst(&attempt, result.AttemptID))
	assert.Equal(t, 50.0, attempt.Score)
	assert.True(t, attempt.IsPassed)

	var answerCount int64
	dbCountWhere(&courseModels.UserAnswer{}, "attempt_id = ?", &answerCount, attempt.ID)
	assert.Equal(t, int64(3), answerCount)
}

func TestSubmitQuizScoreRounding(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)
	quiz, questions, correct, _ := createQuiz(t, course.ID, nil, 80, 3)

	// 1 of 3 points: 33.333... rounds to 33.33
	body := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
	}}

	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var result submitResult
	require.NoError(t, jsonUnmarshal(resp.Data, &result))
	assert.Equal(t, 33.33, result.Score)
	assert.False(t, result.IsPassed)
}

func TestSubmitQuizRejectsForeignReferences(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)
	quiz, questions, correct, _ := createQuiz(t, course.ID, nil, 50, 2)
	_, otherQuestions, otherCorrect, _ := createQuiz(t, course.ID, nil, 50, 1)

	// Question from another quiz rejects the whole submission
	body := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
		answerPair(otherQuestions[0].ID, otherCorrect[otherQuestions[0].ID]),
	}}
	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	assert.Equal(t, http.StatusBadRequest, code)

	// Answer belonging to a different question rejects too
	body = submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[1].ID]),
	}}
	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	assert.Equal(t, http.StatusBadRequest, code)

	// Duplicate question rejects
	body = submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
		answerPair(questions[0].ID, correct[questions[0].ID]),
	}}
	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	assert.Equal(t, http.StatusBadRequest, code)

	// Nothing was stored
	var attemptCount int64
	dbCountWhere(&courseModels.UserQuizAttempt{}, "user_id = ?", &attemptCount, learner.ID)
	assert.Equal(t, int64(0), attemptCount)
}

func TestSubmitQuizAttemptCap(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)
	quiz, questions, _, wrong := createQuiz(t, course.ID, nil, 50, 1)

	failing := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, wrong[questions[0].ID]),
	}}
	path := fmt.Sprintf("/course/quiz/%d/submit", quiz.ID)

	for i := 0; i < 3; i++ {
		code, resp := doRequest(t, app, http.MethodPost, path, token, failing)
		require.Equal(t, http.StatusOK, code, resp.Message)
	}

	code, resp := doRequest(t, app, http.MethodPost, path, token, failing)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Maximum quiz attempts reached!", resp.Message)
}

func TestSubmitQuizPassedBlocksResubmission(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)
	quiz, questions, correct, _ := createQuiz(t, course.ID, nil, 50, 1)

	passing := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
	}}
	path := fmt.Sprintf("/course/quiz/%d/submit", quiz.ID)

	code, resp := doRequest(t, app, http.MethodPost, path, token, passing)
	require.Equal(t, http.StatusOK, code, resp.Message)

	code, resp = doRequest(t, app, http.MethodPost, path, token, passing)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Quiz already passed!", resp.Message)
}

func TestSubmitQuizRequiresEnrollment(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	quiz, questions, correct, _ := createQuiz(t, course.ID, nil, 50, 1)

	body := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
	}}
	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestPassedModuleQuizAdvancesProgress(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	module := createModule(t, course.ID, 1, "", "")
	enrollment := enroll(t, learner.ID, course.ID)
	quiz, questions, correct, _ := createQuiz(t, course.ID, &module.ID, 50, 1)

	body := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
	}}
	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var progress courseModels.ModuleProgress
	require.NoError(t, dbWhereFirst(&progress,
		"enrollment_id = ? AND module_id = ? AND checklist_item_id IS NULL", enrollment.ID, module.ID))
	assert.True(t, progress.IsQuizPassed)
	assert.Equal(t, 100.0, progress.HighestQuizScore)

	// The module has no countable units, so the checklist recompute leaves
	// the enrollment percentage at zero.
	got := reloadEnrollment(t, enrollment.ID)
	assert.Equal(t, 0.0, got.ProgressPercentage)
	assert.Equal(t, "ENROLLED", got.Status)
}

func TestGetAttemptResultOwnerOnly(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")
	_, otherToken := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)
	quiz, questions, correct, _ := createQuiz(t, course.ID, nil, 50, 1)

	body := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, correct[questions[0].ID]),
	}}
	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, body)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var result submitResult
	require.NoError(t, jsonUnmarshal(resp.Data, &result))

	code, _ = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/quiz/attempt/%d", result.AttemptID), token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/quiz/attempt/%d", result.AttemptID), otherToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestGetQuizAttemptsRemaining(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)
	quiz, questions, _, wrong := createQuiz(t, course.ID, nil, 50, 1)

	failing := submissionBody{Answers: []map[string]uint{
		answerPair(questions[0].ID, wrong[questions[0].ID]),
	}}
	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/quiz/%d/submit", quiz.ID), token, failing)
	require.Equal(t, http.StatusOK, code, resp.Message)

	code, resp = doRequest(t, app, http.MethodGet,
		fmt.Sprintf("/course/quiz/%d/attempts", quiz.ID), token, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var data struct {
		Attempts          []courseModels.UserQuizAttempt `json:"attempts"`
		AttemptsRemaining int                            `json:"attempts_remaining"`
	}
	require.NoError(t, jsonUnmarshal(resp.Data, &data))
	assert.Len(t, data.Attempts, 1)
	assert.Equal(t, 2, data.AttemptsRemaining)
}
