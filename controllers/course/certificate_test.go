package controllers_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"lms/database"
	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeEnrollment(t *testing.T, enrollmentID uint) {
	t.Helper()
	now := time.Now()
	err := database.Database.Db.Model(&courseModels.Enrollment{}).
		Where("id = ?", enrollmentID).
		Updates(map[string]interface{}{
			"status":              "COMPLETED",
			"progress_percentage": 100.0,
			"completed_at":        now,
		}).Error
	require.NoError(t, err)
}

func TestCertificateRequestFlow(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")
	_, adminToken := createUser(t, "ADMIN")

	course := createPublishedCourse(t, 1)
	enrollment := enroll(t, learner.ID, course.ID)
	path := fmt.Sprintf("/course/%d/certificate/request", course.ID)

	// Incomplete course cannot be certified
	code, _ := doRequest(t, app, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	completeEnrollment(t, enrollment.ID)

	code, resp := doRequest(t, app, http.MethodPost, path, token, nil)
	require.Equal(t, http.StatusCreated, code, resp.Message)

	// A second request while pending conflicts
	code, _ = doRequest(t, app, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusConflict, code)

	var request courseModels.CertificateRequest
	require.NoError(t, dbWhereFirst(&request, "user_id = ? AND course_id = ?", learner.ID, course.ID))
	assert.Equal(t, "PENDING", request.Status)

	code, resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/admin/certificate/%d/approve", request.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var certificate courseModels.Certificate
	require.NoError(t, dbWhereFirst(&certificate, "user_id = ? AND course_id = ?", learner.ID, course.ID))
	assert.NotEmpty(t, certificate.CertificateNumber)

	require.NoError(t, dbFirst(&request, request.ID))
	assert.Equal(t, "APPROVED", request.Status)
	assert.NotNil(t, request.ApprovedAt)

	// Issued certificates show up in the learner's list
	code, resp = doRequest(t, app, http.MethodGet, "/user/certificates", token, nil)
	require.Equal(t, http.StatusOK, code, resp.Message)

	var data struct {
		Certificates []struct {
			CertificateNumber string `json:"certificate_number"`
			CourseName        string `json:"course_name"`
		} `json:"certificates"`
		PendingRequests int `json:"pending_requests"`
	}
	require.NoError(t, jsonUnmarshal(resp.Data, &data))
	require.Len(t, data.Certificates, 1)
	assert.Equal(t, certificate.CertificateNumber, data.Certificates[0].CertificateNumber)
	assert.Equal(t, course.Title, data.Certificates[0].CourseName)
	assert.Equal(t, 0, data.PendingRequests)
}

func TestCertificateRejection(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")
	_, adminToken := createUser(t, "ADMIN")

	course := createPublishedCourse(t, 1)
	enrollment := enroll(t, learner.ID, course.ID)
	completeEnrollment(t, enrollment.ID)

	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/certificate/request", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, code, resp.Message)

	var request courseModels.CertificateRequest
	require.NoError(t, dbWhereFirst(&request, "user_id = ?", learner.ID))

	// Rejection requires a reason
	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/admin/certificate/%d/reject", request.ID), adminToken,
		map[string]interface{}{"reason": ""})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, resp = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/admin/certificate/%d/reject", request.ID), adminToken,
		map[string]interface{}{"reason": "Completion could not be verified"})
	require.Equal(t, http.StatusOK, code, resp.Message)

	require.NoError(t, dbFirst(&request, request.ID))
	assert.Equal(t, "REJECTED", request.Status)
	assert.Equal(t, "Completion could not be verified", request.RejectionReason)
}

func TestCertificateApprovalIsAdminOnly(t *testing.T) {
	app := setupTest(t)
	learner, token := createUser(t, "USER")
	_, trainerToken := createUser(t, "TRAINER")

	course := createPublishedCourse(t, 1)
	enrollment := enroll(t, learner.ID, course.ID)
	completeEnrollment(t, enrollment.ID)

	code, resp := doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/course/%d/certificate/request", course.ID), token, nil)
	require.Equal(t, http.StatusCreated, code, resp.Message)

	var request courseModels.CertificateRequest
	require.NoError(t, dbWhereFirst(&request, "user_id = ?", learner.ID))

	// Trainers lack the certificate:approve permission
	code, _ = doRequest(t, app, http.MethodPost,
		fmt.Sprintf("/admin/certificate/%d/approve", request.ID), trainerToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
}
