package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollInCourse(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")
	course := createPublishedCourse(t, 1)

	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var enrollment courseModels.Enrollment
	require.NoError(t, dbWhereFirst(&enrollment, "user_id = ? AND course_id = ?", learner.ID, course.ID))
	assert.Equal(t, "ENROLLED", enrollment.Status)
	assert.Equal(t, 0.0, enrollment.ProgressPercentage)
	assert.False(t, enrollment.EnrollmentAt.IsZero())

	// Enrolling twice conflicts
	code, resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "User already enrolled in this course!", resp.Message)
}

func TestEnrollRejectsUnpublishedCourse(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "USER")

	course := courseModels.Course{
		Title:     "Draft Only",
		Category:  "programming",
		Status:    "DRAFT",
		CreatedBy: 1,
	}
	require.NoError(t, dbCreate(&course))

	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUnenrollDropsEnrollmentAndProgress(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	module := createModule(t, course.ID, 1, "", "")
	item := createChecklistItem(t, module.ID, 1, "TEXT")
	enrollment := enroll(t, learner.ID, course.ID)

	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/item/%d/complete", course.ID, item.ID), token, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	code, resp = doRequest(t, app, http.MethodDelete,
		fmt.Sprintf("/course/%d/enroll", course.ID), token, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	got := reloadEnrollment(t, enrollment.ID)
	assert.Equal(t, "DROPPED", got.Status)

	var liveProgress int64
	dbCountWhere(&courseModels.ModuleProgress{}, "enrollment_id = ? AND is_deleted = ?", &liveProgress, enrollment.ID, false)
	assert.Equal(t, int64(0), liveProgress)
}

func TestGetEnrollmentsPagination(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	for i := 0; i < 3; i++ {
		course := createPublishedCourse(t, 1)
		enroll(t, learner.ID, course.ID)
	}

	code, resp := doRequest(t, app, http.MethodGet, "/user/enrollments?page=1&limit=2", token, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var data struct {
		Enrollments []struct {
			CourseName string `json:"course_name"`
		} `json:"enrollments"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, jsonUnmarshal(resp.Data, &data))
	assert.Len(t, data.Enrollments, 2)
	assert.Equal(t, int64(3), data.Pagination.Total)

	// Missing pagination params fail validation
	code, _ = doRequest(t, app, http.MethodGet, "/user/enrollments", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
}
