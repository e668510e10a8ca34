package courseValidator

import (
	"quizgate/validators"

	"github.com/gofiber/fiber/v2"
)

// EnrollCourse validates the course of a self-enrollment.
func EnrollCourse() fiber.Handler {
	return validators.IDParams("course_id")
}

// GrantEnrollment validates an admin enrollment grant for another user.
func GrantEnrollment() fiber.Handler {
	return validators.IDParams("course_id", "user_id")
}
