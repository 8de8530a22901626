package controllers_test

import (
	"fmt"
	"net/http"
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateCourseUpsert(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")

	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)

	path := fmt.Sprintf("/course/%d/rating", course.ID)

	code, resp := doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{"rating": 4, "review": "solid material"})
	require.Equal(t, http.StatusOK, code, resp.Message)

	// Rating again updates in place instead of adding a second row
	code, resp = doRequest(t, app, http.MethodPost, path, token,
		map[string]interface{}{"rating": 5, "review": "even better on a second pass"})
	require.Equal(t, http.StatusOK, code, resp.Message)

	var count int64
	dbCountWhere(&courseModels.CourseRating{}, "course_id = ? AND user_id = ?", &count, course.ID, learner.ID)
	assert.Equal(t, int64(1), count)

	var rating courseModels.CourseRating
	require.NoError(t, dbWhereFirst(&rating, "course_id = ? AND user_id = ?", course.ID, learner.ID))
	assert.Equal(t, 5, rating.Rating)
}

func TestRateCourseRequiresEnrollment(t *testing.T) {
	app := setupTest(t)
	_, token := createUser(t, "USER")
	course := createPublishedCourse(t, 1)

	code, _ := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/rating", course.ID), token,
		map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusForbidden, code)
}

func TestRateCourseValidatesRange(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")
	course := createPublishedCourse(t, 1)
	enroll(t, learner.ID, course.ID)

	for _, bad := range []int{0, 6, -1} {
		code, _ := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/course/%d/rating", course.ID), token,
			map[string]interface{}{"rating": bad})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	}
}
