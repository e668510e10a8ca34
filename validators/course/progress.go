package courseValidator

import (
	"quizgate/validators"

	"github.com/gofiber/fiber/v2"
)

func LessonCompletion() fiber.Handler {
	return validators.IDParams("course_id", "lesson_id")
}

func GetCourseProgress() fiber.Handler {
	return validators.IDParams("course_id")
}
