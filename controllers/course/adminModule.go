package controllers

import (
	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"
	"lms/utils"
	"log"

	"github.com/gofiber/fiber/v2"
)

// AdminCreateModule creates a new module in a course
func AdminCreateModule(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)

	// Check if course exists
	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title         string `json:"title"`
		VideoURL      string `json:"video_url"`
		DocURL        string `json:"doc_url"`
		ContentText   string `json:"content_text"`
		OrderSequence int    `json:"order_sequence"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Get the next order sequence if not provided
	orderSequence := reqData.OrderSequence
	if orderSequence == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Module{}).Where("course_id = ? AND is_deleted = ?", courseID, false).Select("COALESCE(MAX(order_sequence), 0)").Scan(&maxOrder)
		orderSequence = maxOrder + 1
	} else {
		// Order sequence is unique per course
		var clash courseModels.Module
		if err := database.Database.Db.Where("course_id = ? AND order_sequence = ? AND is_deleted = ?", courseID, orderSequence, false).First(&clash).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Order sequence already used in this course!", nil)
		}
	}

	module := courseModels.Module{
		CourseID:      uint(courseID),
		Title:         reqData.Title,
		VideoURL:      reqData.VideoURL,
		DocURL:        reqData.DocURL,
		ContentText:   reqData.ContentText,
		OrderSequence: orderSequence,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// AdminUpdateModule updates an existing module
func AdminUpdateModule(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedModuleUpdate").(*struct {
		Title         string `json:"title"`
		VideoURL      string `json:"video_url"`
		DocURL        string `json:"doc_url"`
		ContentText   string `json:"content_text"`
		OrderSequence int    `json:"order_sequence"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		module.Title = reqData.Title
	}
	if reqData.VideoURL != "" {
		module.VideoURL = reqData.VideoURL
	}
	if reqData.DocURL != "" {
		module.DocURL = reqData.DocURL
	}
	if reqData.ContentText != "" {
		module.ContentText = reqData.ContentText
	}
	if reqData.OrderSequence > 0 && reqData.OrderSequence != module.OrderSequence {
		var clash courseModels.Module
		if err := database.Database.Db.Where("course_id = ? AND order_sequence = ? AND is_deleted = ?", courseID, reqData.OrderSequence, false).First(&clash).Error; err == nil {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Order sequence already used in this course!", nil)
		}
		module.OrderSequence = reqData.OrderSequence
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// AdminDeleteModule soft deletes a module and its checklist items
func AdminDeleteModule(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	tx := database.Database.Db.Begin()

	module.IsDeleted = true
	if err := tx.Save(&module).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	// Soft delete all checklist items in this module
	if err := tx.Model(&courseModels.ChecklistItem{}).Where("module_id = ?", moduleID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete checklist items!", nil)
	}

	tx.Commit()

	// Best-effort revoke of the hosted video, never blocks the delete
	if module.VideoURL != "" && utils.VideoClient != nil {
		go func(url string) {
			if err := utils.VideoClient.Revoke(url); err != nil {
				log.Printf("Error revoking video %s: %v", url, err)
			}
		}(module.VideoURL)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// AdminListModules lists all modules in a course with checklist item counts
func AdminListModules(c *fiber.Ctx) error {
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

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).Order("order_sequence asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	type ModuleWithCount struct {
		courseModels.Module
		ChecklistItemCount int64 `json:"checklist_item_count"`
	}

	modulesWithCount := make([]ModuleWithCount, len(modules))
	for i, mod := range modules {
		var count int64
		database.Database.Db.Model(&courseModels.ChecklistItem{}).Where("module_id = ? AND is_deleted = ?", mod.ID, false).Count(&count)
		modulesWithCount[i] = ModuleWithCount{
			Module:             mod,
			ChecklistItemCount: count,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules": modulesWithCount,
	})
}

// AdminCreateChecklistItem adds a checklist item to a module
func AdminCreateChecklistItem(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", moduleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedChecklistItem").(*struct {
		Title         string `json:"title"`
		ItemType      string `json:"item_type"`
		OrderSequence int    `json:"order_sequence"`
		XPReward      int    `json:"xp_reward"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	orderSequence := reqData.OrderSequence
	if orderSequence == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.ChecklistItem{}).
			Where("module_id = ? AND is_deleted = ?", moduleID, false).
			Select("COALESCE(MAX(order_sequence), 0)").Scan(&maxOrder)
		orderSequence = maxOrder + 1
	}

	item := courseModels.ChecklistItem{
		ModuleID:      uint(moduleID),
		Title:         reqData.Title,
		ItemType:      reqData.ItemType,
		OrderSequence: orderSequence,
		XPReward:      reqData.XPReward,
	}

	if err := database.Database.Db.Create(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create checklist item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Checklist item created successfully!", item)
}

// AdminUpdateChecklistItem updates a checklist item's title, type and rewards
func AdminUpdateChecklistItem(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	itemID := c.Locals("itemID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	var item courseModels.ChecklistItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Checklist item not found!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", item.ModuleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedChecklistItemUpdate").(*struct {
		Title         string `json:"title"`
		ItemType      string `json:"item_type"`
		OrderSequence int    `json:"order_sequence"`
		XPReward      int    `json:"xp_reward"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	item.Title = reqData.Title
	if reqData.ItemType != "" {
		item.ItemType = reqData.ItemType
	}
	if reqData.OrderSequence > 0 {
		item.OrderSequence = reqData.OrderSequence
	}
	item.XPReward = reqData.XPReward

	if err := database.Database.Db.Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update checklist item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checklist item updated successfully!", item)
}

// AdminDeleteChecklistItem soft deletes a checklist item
func AdminDeleteChecklistItem(c *fiber.Ctx) error {
	user, err := requireCourseManager(c)
	if err != nil {
		return err
	}

	courseID := c.Locals("courseID").(int)
	itemID := c.Locals("itemID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if !canManageCourse(user, &course) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! Not your course.", nil)
	}

	var item courseModels.ChecklistItem
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", itemID, false).First(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Checklist item not found!", nil)
	}

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ? AND is_deleted = ?", item.ModuleID, courseID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	item.IsDeleted = true
	if err := database.Database.Db.Save(&item).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete checklist item!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Checklist item deleted successfully!", nil)
}
