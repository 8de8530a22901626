package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up all trainer/admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	manage := middleware.CheckPermissionMiddleware("course:manage")

	adminGroup := app.Group("/admin/course")

	// Course CRUD
	adminGroup.Post("/create", middleware.JWTMiddleware, manage, validators.CreateCourse(), controllers.AdminCreateCourse)
	adminGroup.Get("/list", middleware.JWTMiddleware, manage, controllers.AdminGetAllCourses)
	adminGroup.Put("/:id", middleware.JWTMiddleware, manage, validators.CourseID(), validators.UpdateCourse(), controllers.AdminUpdateCourse)
	adminGroup.Delete("/:id", middleware.JWTMiddleware, manage, validators.CourseID(), controllers.AdminDeleteCourse)
	adminGroup.Patch("/:id/status", middleware.JWTMiddleware, manage, validators.CourseID(), validators.CourseStatus(), controllers.AdminPublishCourse)

	// Module management
	adminGroup.Post("/:id/module", middleware.JWTMiddleware, manage, validators.CourseID(), validators.CreateModule(), controllers.AdminCreateModule)
	adminGroup.Get("/:id/modules", middleware.JWTMiddleware, manage, validators.CourseID(), controllers.AdminListModules)
	adminGroup.Put("/:id/module/:moduleId", middleware.JWTMiddleware, manage, validators.CourseModule(), validators.UpdateModule(), controllers.AdminUpdateModule)
	adminGroup.Delete("/:id/module/:moduleId", middleware.JWTMiddleware, manage, validators.CourseModule(), controllers.AdminDeleteModule)

	// Checklist items
	adminGroup.Post("/:id/module/:moduleId/item", middleware.JWTMiddleware, manage, validators.CourseModule(), validators.CreateChecklistItem(), controllers.AdminCreateChecklistItem)
	adminGroup.Put("/:id/item/:itemId", middleware.JWTMiddleware, manage, validators.CourseItem(), validators.UpdateChecklistItem(), controllers.AdminUpdateChecklistItem)
	adminGroup.Delete("/:id/item/:itemId", middleware.JWTMiddleware, manage, validators.CourseItem(), controllers.AdminDeleteChecklistItem)

	// Quiz management
	adminGroup.Post("/:id/quiz", middleware.JWTMiddleware, manage, validators.CourseID(), validators.CreateQuiz(), controllers.AdminCreateQuiz)

	quizGroup := app.Group("/admin/quiz")
	quizGroup.Get("/:quizId", middleware.JWTMiddleware, manage, validators.QuizID(), controllers.AdminGetQuiz)
	quizGroup.Delete("/:quizId", middleware.JWTMiddleware, manage, validators.QuizID(), controllers.AdminDeleteQuiz)
	quizGroup.Post("/:quizId/question", middleware.JWTMiddleware, manage, validators.QuizID(), validators.QuestionBody(), controllers.AdminCreateQuestion)

	questionGroup := app.Group("/admin/question")
	questionGroup.Put("/:questionId", middleware.JWTMiddleware, manage, validators.QuestionID(), validators.QuestionBody(), controllers.AdminUpdateQuestion)
	questionGroup.Delete("/:questionId", middleware.JWTMiddleware, manage, validators.QuestionID(), controllers.AdminDeleteQuestion)

	// Certificate approvals
	certGroup := app.Group("/admin/certificate")
	approve := middleware.CheckPermissionMiddleware("certificate:approve")
	certGroup.Post("/:requestId/approve", middleware.JWTMiddleware, approve, validators.RequestID(), controllers.AdminApproveCertificate)
	certGroup.Post("/:requestId/reject", middleware.JWTMiddleware, approve, validators.RequestID(), validators.RejectRequest(), controllers.AdminRejectCertificate)

	// Dashboard
	dashGroup := app.Group("/admin/dashboard")
	dashGroup.Get("/stats", middleware.JWTMiddleware, manage, controllers.AdminGetDashboard)
}
