package controllers

import (
	"errors"
	"log"

	"quizgate/middleware"
	"quizgate/services/quiz"

	"github.com/gofiber/fiber/v2"
)

// Handler serves enrollment and lesson progress endpoints.
type Handler struct {
	Svc *quiz.Service
}

func New(svc *quiz.Service) *Handler {
	return &Handler{Svc: svc}
}

func enrollError(c *fiber.Ctx, userID, courseID uint, err error) error {
	switch {
	case errors.Is(err, quiz.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, quiz.ErrPaymentRequired):
		return middleware.JsonResponse(c, fiber.StatusPaymentRequired, false, "This course requires payment!", nil)
	case errors.Is(err, quiz.ErrAlreadyEnrolled):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "User already enrolled in this course!", nil)
	}
	log.Printf("[QUIZ] enroll user %d course %d: %v", userID, courseID, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
}

// EnrollInCourse enrolls the caller. Learners may only self-enroll in free
// courses; admins may enroll in any course.
func (h *Handler) EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	isAdmin, _ := c.Locals("isAdmin").(bool)
	courseID := c.Locals("course_id").(uint)

	enrollment, err := h.Svc.Enroll(c.UserContext(), userID, courseID, isAdmin)
	if err != nil {
		return enrollError(c, userID, courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled in course successfully!", enrollment)
}

// GrantEnrollment enrolls another user, paid course or not.
func (h *Handler) GrantEnrollment(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)
	userID := c.Locals("user_id").(uint)

	enrollment, err := h.Svc.Enroll(c.UserContext(), userID, courseID, true)
	if err != nil {
		return enrollError(c, userID, courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment granted successfully!", enrollment)
}
