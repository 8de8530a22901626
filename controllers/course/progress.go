package controllers

import (
	"lms/database"
	"lms/middleware"
	"lms/models"
	courseModels "lms/models/course"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// legacyQuizPassThreshold is the fixed pass mark for the checklist quiz
// completion path. Distinct from Quiz.PassingScore, which only applies to
// full quiz submissions.
const legacyQuizPassThreshold = 70.0

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// courseProgressCounts walks the enrollment's course and counts completion
// units. A module with checklist items contributes one unit per item; a
// module without them falls back to a virtual two-unit model (one text unit
// if content_text is set, one video unit if video_url is set) tracked on the
// module-level progress row.
func courseProgressCounts(tx *gorm.DB, enrollment *courseModels.Enrollment) (int, int, error) {
	var modules []courseModels.Module
	if err := tx.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Order("order_sequence asc").Find(&modules).Error; err != nil {
		return 0, 0, err
	}

	completed := 0
	total := 0

	for _, mod := range modules {
		var items []courseModels.ChecklistItem
		if err := tx.Where("module_id = ? AND is_deleted = ?", mod.ID, false).
			Order("order_sequence asc").Find(&items).Error; err != nil {
			return 0, 0, err
		}

		if len(items) > 0 {
			total += len(items)
			for _, item := range items {
				var progress courseModels.ModuleProgress
				err := tx.Where("enrollment_id = ? AND checklist_item_id = ? AND is_completed = ? AND is_deleted = ?",
					enrollment.ID, item.ID, true, false).First(&progress).Error
				if err == nil {
					completed++
				}
			}
			continue
		}

		// Legacy module without checklist items: text/video flags live on the
		// module-level row (checklist_item_id is null).
		var progress courseModels.ModuleProgress
		hasRow := tx.Where("enrollment_id = ? AND module_id = ? AND checklist_item_id IS NULL AND is_deleted = ?",
			enrollment.ID, mod.ID, false).First(&progress).Error == nil

		if mod.ContentText != "" {
			total++
			if hasRow && progress.IsTextRead {
				completed++
			}
		}
		if mod.VideoURL != "" {
			total++
			if hasRow && progress.IsVideoWatched {
				completed++
			}
		}
	}

	return completed, total, nil
}

// applyEnrollmentProgress writes the percentage and derives the status.
// A zero percentage never reverts an existing status.
func applyEnrollmentProgress(tx *gorm.DB, enrollment *courseModels.Enrollment, percentage float64) error {
	enrollment.ProgressPercentage = percentage

	if percentage >= 100 && enrollment.Status != "COMPLETED" {
		enrollment.Status = "COMPLETED"
		now := time.Now()
		enrollment.CompletedAt = &now
	} else if percentage > 0 && percentage < 100 {
		enrollment.Status = "IN_PROGRESS"
	}

	return tx.Save(enrollment).Error
}

// recalcChecklistProgress recomputes the enrollment percentage from scratch.
// A course with no countable units yields 0 on this path.
func recalcChecklistProgress(tx *gorm.DB, enrollment *courseModels.Enrollment) error {
	completed, total, err := courseProgressCounts(tx, enrollment)
	if err != nil {
		return err
	}

	percentage := float64(0)
	if total > 0 {
		percentage = round2(float64(completed) / float64(total) * 100)
	}

	return applyEnrollmentProgress(tx, enrollment, percentage)
}

// recalcModuleLevelProgress is the whole-module trigger variant. It shares the
// same walk but treats a course with no countable units as fully complete,
// matching the historic behavior of the module-level mark operations.
func recalcModuleLevelProgress(tx *gorm.DB, enrollment *courseModels.Enrollment) error {
	completed, total, err := courseProgressCounts(tx, enrollment)
	if err != nil {
		return err
	}

	percentage := float64(100)
	if total > 0 {
		percentage = round2(float64(completed) / float64(total) * 100)
	}

	return applyEnrollmentProgress(tx, enrollment, percentage)
}

// getModuleLevelProgress fetches or initializes the module-level progress row
// for an enrollment (checklist_item_id null).
func getModuleLevelProgress(tx *gorm.DB, enrollmentID, moduleID uint) (courseModels.ModuleProgress, error) {
	var progress courseModels.ModuleProgress
	err := tx.Where("enrollment_id = ? AND module_id = ? AND checklist_item_id IS NULL AND is_deleted = ?",
		enrollmentID, moduleID, false).First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		progress = courseModels.ModuleProgress{
			EnrollmentID: enrollmentID,
			ModuleID:     moduleID,
		}
		return progress, nil
	}
	return progress, err
}

// getItemLevelProgress fetches or initializes the per-item progress row.
func getItemLevelProgress(tx *gorm.DB, enrollmentID, moduleID, itemID uint) (courseModels.ModuleProgress, error) {
	var progress courseModels.ModuleProgress
	err := tx.Where("enrollment_id = ? AND checklist_item_id = ? AND is_deleted = ?",
		enrollmentID, itemID, false).First(&progress).Error
	if err == gorm.ErrRecordNotFound {
		progress = courseModels.ModuleProgress{
			EnrollmentID:    enrollmentID,
			ModuleID:        moduleID,
			ChecklistItemID: &itemID,
		}
		return progress, nil
	}
	return progress, err
}

// markModuleLevelFlag handles MarkTextRead and MarkVideoWatched, which differ
// only in the flag they set.
func markModuleLevelFlag(c *fiber.Ctx, setFlag func(*courseModels.ModuleProgress)) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	// Check if course exists and is published
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "PUBLISHED").First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	// Check if module belongs to the course
	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	// Check if user is enrolled in the course
	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	tx := database.Database.Db.Begin()

	progress, err := getModuleLevelProgress(tx, enrollment.ID, module.ID)
	if err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress!", nil)
	}

	setFlag(&progress)

	// The module-level row is complete when every present unit is done.
	textDone := module.ContentText == "" || progress.IsTextRead
	videoDone := module.VideoURL == "" || progress.IsVideoWatched
	if textDone && videoDone && !progress.IsCompleted {
		progress.IsCompleted = true
		now := time.Now()
		progress.CompletedAt = &now
	}

	if err := tx.Save(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress: "+err.Error(), nil)
	}

	if err := recalcModuleLevelProgress(tx, &enrollment); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment progress: "+err.Error(), nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress updated successfully!", fiber.Map{
		"module_progress":     progress,
		"progress_percentage": enrollment.ProgressPercentage,
		"enrollment_status":   enrollment.Status,
	})
}

// MarkTextRead marks the module's text content as read for the current user
func MarkTextRead(c *fiber.Ctx) error {
	return markModuleLevelFlag(c, func(p *courseModels.ModuleProgress) {
		p.IsTextRead = true
	})
}

// MarkVideoWatched marks the module's video as watched for the current user
func MarkVideoWatched(c *fiber.Ctx) error {
	return markModuleLevelFlag(c, func(p *courseModels.ModuleProgress) {
		p.IsVideoWatched = true
	})
}

// MarkChecklistItemCompleted marks one checklist item as completed and
// recomputes the enrollment progress
func MarkChecklistItemCompleted(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	itemID := c.Locals("itemID").(int)

	var item courseModels.ChecklistItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Checklist item not found!", nil)
	}

	// The item's module must belong to the target course
	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", item.ModuleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	tx := database.Database.Db.Begin()

	progress, err := getItemLevelProgress(tx, enrollment.ID, module.ID, item.ID)
	if err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress!", nil)
	}

	// Re-marking an already completed item recomputes but never double counts.
	if !progress.IsCompleted {
		progress.IsCompleted = true
		now := time.Now()
		progress.CompletedAt = &now
	}

	if err := tx.Save(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress: "+err.Error(), nil)
	}

	if err := recalcChecklistProgress(tx, &enrollment); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment progress: "+err.Error(), nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checklist item marked as completed!", fiber.Map{
		"module_progress":     progress,
		"progress_percentage": enrollment.ProgressPercentage,
		"enrollment_status":   enrollment.Status,
	})
}

// MarkQuizPassedLegacy records an externally computed quiz score against a
// QUIZ checklist item. The pass mark is the fixed legacy threshold, not the
// quiz's own PassingScore.
func MarkQuizPassedLegacy(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)
	itemID := c.Locals("itemID").(int)

	reqData, ok := c.Locals("validatedLegacyQuizScore").(*struct {
		Score float64 `json:"score"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var item courseModels.ChecklistItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Checklist item not found!", nil)
	}

	if item.ItemType != "QUIZ" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Checklist item is not a quiz!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", item.ModuleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	tx := database.Database.Db.Begin()

	progress, err := getItemLevelProgress(tx, enrollment.ID, module.ID, item.ID)
	if err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load progress!", nil)
	}

	if reqData.Score > progress.HighestQuizScore {
		progress.HighestQuizScore = reqData.Score
	}

	passed := reqData.Score >= legacyQuizPassThreshold
	if passed {
		progress.IsQuizPassed = true
		if !progress.IsCompleted {
			progress.IsCompleted = true
			now := time.Now()
			progress.CompletedAt = &now
		}
	}

	if err := tx.Save(&progress).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save progress: "+err.Error(), nil)
	}

	if err := recalcChecklistProgress(tx, &enrollment); err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment progress: "+err.Error(), nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz score recorded!", fiber.Map{
		"is_passed":           passed,
		"highest_quiz_score":  progress.HighestQuizScore,
		"progress_percentage": enrollment.ProgressPercentage,
		"enrollment_status":   enrollment.Status,
	})
}

// GetUserProgress gets the user's progress in a course with a per-module breakdown
func GetUserProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	courseID := c.Locals("courseID").(int)

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("user_id = ? AND course_id = ? AND is_deleted = ?", userID, courseID, false).First(&enrollment).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_sequence asc").Find(&modules)

	type ModuleBreakdown struct {
		ModuleID       uint    `json:"module_id"`
		ModuleName     string  `json:"module_name"`
		TotalUnits     int     `json:"total_units"`
		CompletedUnits int     `json:"completed_units"`
		Progress       float64 `json:"progress"`
	}

	db := database.Database.Db
	breakdown := make([]ModuleBreakdown, len(modules))
	for i, mod := range modules {
		total := 0
		completed := 0

		var items []courseModels.ChecklistItem
		db.Where("module_id = ? AND is_deleted = ?", mod.ID, false).Order("order_sequence asc").Find(&items)

		if len(items) > 0 {
			total = len(items)
			var done int64
			db.Model(&courseModels.ModuleProgress{}).
				Joins("JOIN checklist_items ON module_progresses.checklist_item_id = checklist_items.id").
				Where("module_progresses.enrollment_id = ? AND checklist_items.module_id = ? AND module_progresses.is_completed = ? AND module_progresses.is_deleted = ?",
					enrollment.ID, mod.ID, true, false).
				Count(&done)
			completed = int(done)
		} else {
			var progress courseModels.ModuleProgress
			hasRow := db.Where("enrollment_id = ? AND module_id = ? AND checklist_item_id IS NULL AND is_deleted = ?",
				enrollment.ID, mod.ID, false).First(&progress).Error == nil
			if mod.ContentText != "" {
				total++
				if hasRow && progress.IsTextRead {
					completed++
				}
			}
			if mod.VideoURL != "" {
				total++
				if hasRow && progress.IsVideoWatched {
					completed++
				}
			}
		}

		pct := float64(0)
		if total > 0 {
			pct = round2(float64(completed) / float64(total) * 100)
		}

		breakdown[i] = ModuleBreakdown{
			ModuleID:       mod.ID,
			ModuleName:     mod.Title,
			TotalUnits:     total,
			CompletedUnits: completed,
			Progress:       pct,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":      enrollment,
		"module_progress": breakdown,
	})
}
