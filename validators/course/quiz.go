package courseValidator

import (
	"lms/middleware"
	"strings"

	courseController "lms/controllers/course"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// validationErrors flattens validator.ValidationErrors into the
// field->message map used by ValidationErrorResponse
func validationErrors(err error) map[string]string {
	errors := make(map[string]string)

	fieldErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors["body"] = "Invalid request body!"
		return errors
	}

	for _, fe := range fieldErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			errors[field] = "This field is required!"
		case "min":
			errors[field] = "Value is below the minimum of " + fe.Param() + "!"
		case "max":
			errors[field] = "Value is above the maximum of " + fe.Param() + "!"
		case "gt", "gte":
			errors[field] = "Value must be at least " + fe.Param() + "!"
		case "lte":
			errors[field] = "Value must be at most " + fe.Param() + "!"
		default:
			errors[field] = "Invalid value!"
		}
	}
	return errors
}

func QuizID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		quizID, ok := paramID(c, "quizId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Quiz ID!", nil)
		}

		c.Locals("quizID", quizID)
		return c.Next()
	}
}

func AttemptID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		attemptID, ok := paramID(c, "attemptId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Attempt ID!", nil)
		}

		c.Locals("attemptID", attemptID)
		return c.Next()
	}
}

func QuestionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		questionID, ok := paramID(c, "questionId")
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Question ID!", nil)
		}

		c.Locals("questionID", questionID)
		return c.Next()
	}
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Answers []courseController.SubmittedAnswer `json:"answers" validate:"required,min=1,dive"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedQuizSubmission", reqData)
		return c.Next()
	}
}

func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseController.QuizPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedQuiz", reqData)
		return c.Next()
	}
}

func QuestionBody() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(courseController.QuestionPayload)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, validationErrors(err))
		}

		c.Locals("validatedQuestion", reqData)
		return c.Next()
	}
}
