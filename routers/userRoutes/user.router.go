package userRoutes

import (
	authControllers "lms/controllers/auth"
	courseControllers "lms/controllers/course"
	"lms/middleware"
	courseValidators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/profile", middleware.JWTMiddleware, authControllers.GetProfile)
	userGroup.Get("/enrollments", courseValidators.GetUserEnrollments(), middleware.JWTMiddleware, courseControllers.GetEnrollments)
	userGroup.Get("/certificates", middleware.JWTMiddleware, courseControllers.GetUserCertificates)
}
