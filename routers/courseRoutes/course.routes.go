package courseRoutes

import (
	controllers "quizgate/controllers/course"
	"quizgate/middleware"
	"quizgate/services/quiz"
	validators "quizgate/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App, svc *quiz.Service) {
	h := controllers.New(svc)
	courseGroup := app.Group("/course")

	courseGroup.Post("/:course_id/enroll", middleware.JWTMiddleware, middleware.LoadUser, validators.EnrollCourse(), h.EnrollInCourse)
	courseGroup.Post("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, middleware.LoadUser, validators.LessonCompletion(), h.MarkLessonComplete)
	courseGroup.Delete("/:course_id/lesson/:lesson_id/complete", middleware.JWTMiddleware, middleware.LoadUser, validators.LessonCompletion(), h.UnmarkLessonComplete)
	courseGroup.Get("/:course_id/progress", middleware.JWTMiddleware, middleware.LoadUser, validators.GetCourseProgress(), h.GetCourseProgress)
}
