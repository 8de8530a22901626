package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RateCourse creates or updates the current user's rating for a course.
// Only enrolled users may rate.
func RateCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedRating").(*struct {
		Rating int    `json:"rating"`
		Review string `json:"review"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Rating is enrollment-gated
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	// Upsert: one rating per user per course
	var rating courseModels.CourseRating
	err := database.Database.Db.Where("course_id = ? AND user_id = ? AND is_deleted = ?", courseID, userID, false).First(&rating).Error
	if err == gorm.ErrRecordNotFound {
		rating = courseModels.CourseRating{
			CourseID: uint(courseID),
			UserID:   userID,
		}
	} else if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load rating!", nil)
	}

	rating.Rating = reqData.Rating
	rating.Review = reqData.Review

	if err := database.Database.Db.Save(&rating).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save rating!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course rated successfully!", rating)
}

// GetCourseRatings lists ratings for a course
func GetCourseRatings(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	type RatingWithUser struct {
		courseModels.CourseRating
		UserName string `json:"user_name"`
	}

	var ratings []courseModels.CourseRating
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("created_at desc").Find(&ratings)

	result := make([]RatingWithUser, len(ratings))
	for i, r := range ratings {
		var ratingUser models.User
		database.Database.Db.Where("id = ?", r.UserID).First(&ratingUser)
		result[i] = RatingWithUser{
			CourseRating: r,
			UserName:     ratingUser.Name,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Ratings fetched successfully!", fiber.Map{
		"ratings":      result,
		"rating":       course.Rating,
		"rating_count": course.RatingCount,
	})
}
