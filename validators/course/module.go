package courseValidator

import (
	"lms/middleware"

	"github.com/gofiber/fiber/v2"
)

var checklistItemTypes = map[string]bool{
	"VIDEO":    true,
	"TEXT":     true,
	"QUIZ":     true,
	"TASK":     true,
	"EXERCISE": true,
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string `json:"title"`
			VideoURL      string `json:"video_url"`
			DocURL        string `json:"doc_url"`
			ContentText   string `json:"content_text"`
			OrderSequence int    `json:"order_sequence"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		// Validate OrderSequence
		if reqData.OrderSequence < 0 {
			errors["order_sequence"] = "Order sequence must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string `json:"title"`
			VideoURL      string `json:"video_url"`
			DocURL        string `json:"doc_url"`
			ContentText   string `json:"content_text"`
			OrderSequence int    `json:"order_sequence"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Title is optional on update, but must be valid when present
		if reqData.Title != "" && len(reqData.Title) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if reqData.OrderSequence < 0 {
			errors["order_sequence"] = "Order sequence must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModuleUpdate", reqData)
		return c.Next()
	}
}

func CreateChecklistItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string `json:"title"`
			ItemType      string `json:"item_type"`
			OrderSequence int    `json:"order_sequence"`
			XPReward      int    `json:"xp_reward"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if len(reqData.Title) < 2 {
			errors["title"] = "Title must be at least 2 characters long!"
		}

		// Validate ItemType
		if reqData.ItemType != "" && !checklistItemTypes[reqData.ItemType] {
			errors["item_type"] = "Item type must be one of VIDEO, TEXT, QUIZ, TASK or EXERCISE!"
		}

		if reqData.OrderSequence < 0 {
			errors["order_sequence"] = "Order sequence must not be negative!"
		}

		if reqData.XPReward < 0 {
			errors["xp_reward"] = "XP reward must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChecklistItem", reqData)
		return c.Next()
	}
}

func UpdateChecklistItem() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title         string `json:"title"`
			ItemType      string `json:"item_type"`
			OrderSequence int    `json:"order_sequence"`
			XPReward      int    `json:"xp_reward"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Title
		if len(reqData.Title) < 2 {
			errors["title"] = "Title must be at least 2 characters long!"
		}

		// Validate ItemType
		if reqData.ItemType != "" && !checklistItemTypes[reqData.ItemType] {
			errors["item_type"] = "Item type must be one of VIDEO, TEXT, QUIZ, TASK or EXERCISE!"
		}

		if reqData.OrderSequence < 0 {
			errors["order_sequence"] = "Order sequence must not be negative!"
		}

		if reqData.XPReward < 0 {
			errors["xp_reward"] = "XP reward must not be negative!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedChecklistItemUpdate", reqData)
		return c.Next()
	}
}
