package courseRoutes

import (
	controllers "quizgate/controllers/course"
	"quizgate/middleware"
	"quizgate/services/quiz"
	validators "quizgate/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminCourseRoutes sets up admin enrollment management routes
func SetupAdminCourseRoutes(app *fiber.App, svc *quiz.Service) {
	h := controllers.New(svc)
	adminGroup := app.Group("/admin/course")

	adminGroup.Post("/:course_id/enroll/:user_id", middleware.JWTMiddleware, middleware.LoadUser, middleware.AdminOnly, validators.GrantEnrollment(), h.GrantEnrollment)
}
