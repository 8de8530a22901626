package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
)

// AdminGetDashboard returns headline counts for trainers and admins.
// Trainers see numbers scoped to their own courses.
func AdminGetDashboard(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	db := database.Database.Db

	courseScope := db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if user.Role != "ADMIN" {
		courseScope = courseScope.Where("created_by = ?", user.ID)
	}

	var totalCourses int64
	courseScope.Count(&totalCourses)

	var publishedCourses int64
	publishedScope := db.Model(&courseModels.Course{}).Where("is_deleted = ? AND status = ?", false, "PUBLISHED")
	if user.Role != "ADMIN" {
		publishedScope = publishedScope.Where("created_by = ?", user.ID)
	}
	publishedScope.Count(&publishedCourses)

	// Collect the manageable course IDs once for the dependent counts
	var courseIDs []uint
	scope := db.Model(&courseModels.Course{}).Where("is_deleted = ?", false)
	if user.Role != "ADMIN" {
		scope = scope.Where("created_by = ?", user.ID)
	}
	scope.Pluck("id", &courseIDs)

	var totalEnrollments int64
	var completedEnrollments int64
	var totalAttempts int64
	var passedAttempts int64
	var pendingCertRequests int64

	if len(courseIDs) > 0 {
		db.Model(&courseModels.Enrollment{}).Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Count(&totalEnrollments)
		db.Model(&courseModels.Enrollment{}).Where("course_id IN ? AND status = ? AND is_deleted = ?", courseIDs, "COMPLETED", false).Count(&completedEnrollments)
		db.Model(&courseModels.UserQuizAttempt{}).Where("course_id IN ? AND is_deleted = ?", courseIDs, false).Count(&totalAttempts)
		db.Model(&courseModels.UserQuizAttempt{}).Where("course_id IN ? AND is_passed = ? AND is_deleted = ?", courseIDs, true, false).Count(&passedAttempts)
		db.Model(&courseModels.CertificateRequest{}).Where("course_id IN ? AND status = ? AND is_deleted = ?", courseIDs, "PENDING", false).Count(&pendingCertRequests)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard fetched successfully!", fiber.Map{
		"total_courses":         totalCourses,
		"published_courses":     publishedCourses,
		"total_enrollments":     totalEnrollments,
		"completed_enrollments": completedEnrollments,
		"total_quiz_attempts":   totalAttempts,
		"passed_quiz_attempts":  passedAttempts,
		"pending_cert_requests": pendingCertRequests,
	})
}
