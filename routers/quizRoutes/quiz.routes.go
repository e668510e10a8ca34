package quizRoutes

import (
	"time"

	quizControllers "quizgate/controllers/quiz"
	"quizgate/middleware"
	"quizgate/services/quiz"
	"quizgate/validators"
	quizValidators "quizgate/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// SetupQuizRoutes registers the quiz endpoints. rateLimit caps submissions and
// violation reports per user per minute.
func SetupQuizRoutes(app *fiber.App, svc *quiz.Service, rateLimit int) {
	h := quizControllers.New(svc)
	courseParam := validators.IDParams("course_id")
	auth := []fiber.Handler{middleware.JWTMiddleware, middleware.LoadUser}
	limited := middleware.RateLimit(rateLimit, time.Minute)

	quizGroup := app.Group("/quiz")

	// Learner
	quizGroup.Get("/course/:course_id", courseParam, h.GetQuiz)
	quizGroup.Get("/course/:course_id/eligibility", append(auth, courseParam, h.CheckEligibility)...)
	quizGroup.Post("/course/:course_id/submit", append(auth, limited, courseParam, quizValidators.SubmitQuiz(), h.SubmitQuiz)...)
	quizGroup.Post("/course/:course_id/violation", append(auth, limited, courseParam, h.ReportViolation)...)
	quizGroup.Get("/course/:course_id/attempt", append(auth, courseParam, h.GetMyAttempt)...)

	// Admin
	quizGroup.Post("/create", append(auth, middleware.AdminOnly, quizValidators.CreateQuiz(), h.CreateQuiz)...)
	quizGroup.Get("/course/:course_id/with-answers", append(auth, middleware.AdminOnly, courseParam, h.GetQuizWithAnswers)...)
	quizGroup.Put("/course/:course_id", append(auth, middleware.AdminOnly, courseParam, quizValidators.UpdateQuiz(), h.UpdateQuiz)...)
	quizGroup.Delete("/course/:course_id", append(auth, middleware.AdminOnly, courseParam, h.DeleteQuiz)...)
	quizGroup.Get("/course/:course_id/attempts", append(auth, middleware.AdminOnly, courseParam, h.ListAttempts)...)
}
