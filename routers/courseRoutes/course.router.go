package courseRoutes

import (
	controllers "lms/controllers/course"
	"lms/middleware"
	validators "lms/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all learner-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Course listing and details (published courses only)
	courseGroup.Get("/list", middleware.JWTMiddleware, validators.CourseList(), controllers.GetAllCourses)

	// Quiz taking. Registered before /:id so the static segment wins.
	courseGroup.Get("/quiz/:quizId/questions", middleware.JWTMiddleware, validators.QuizID(), controllers.GetQuizQuestions)
	courseGroup.Post("/quiz/:quizId/submit", middleware.JWTMiddleware, validators.QuizID(), validators.SubmitQuiz(), controllers.SubmitQuiz)
	courseGroup.Get("/quiz/:quizId/attempts", middleware.JWTMiddleware, validators.QuizID(), controllers.GetQuizAttempts)
	courseGroup.Get("/quiz/attempt/:attemptId", middleware.JWTMiddleware, validators.AttemptID(), controllers.GetAttemptResult)

	courseGroup.Get("/:id", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseDetails)

	// Enrollment
	courseGroup.Post("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.EnrollInCourse)
	courseGroup.Delete("/:id/enroll", middleware.JWTMiddleware, validators.EnrollCourse(), controllers.UnenrollFromCourse)

	// Module-level progress marks
	courseGroup.Post("/:id/module/:moduleId/text-read", middleware.JWTMiddleware, validators.CourseModule(), controllers.MarkTextRead)
	courseGroup.Post("/:id/module/:moduleId/video-watched", middleware.JWTMiddleware, validators.CourseModule(), controllers.MarkVideoWatched)

	// Checklist-item progress marks
	courseGroup.Post("/:id/item/:itemId/complete", middleware.JWTMiddleware, validators.CourseItem(), controllers.MarkChecklistItemCompleted)
	courseGroup.Post("/:id/item/:itemId/quiz-score", middleware.JWTMiddleware, validators.CourseItem(), validators.LegacyQuizScore(), controllers.MarkQuizPassedLegacy)

	// Progress tracking
	courseGroup.Get("/:id/progress", middleware.JWTMiddleware, validators.CourseID(), controllers.GetUserProgress)

	// Ratings
	courseGroup.Post("/:id/rating", middleware.JWTMiddleware, validators.CourseID(), validators.RateCourse(), controllers.RateCourse)
	courseGroup.Get("/:id/ratings", middleware.JWTMiddleware, validators.CourseID(), controllers.GetCourseRatings)

	// Certificate request
	courseGroup.Post("/:id/certificate/request", middleware.JWTMiddleware, validators.CourseID(), controllers.RequestCertificate)
}
