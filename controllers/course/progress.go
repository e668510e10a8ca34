package controllers

import (
	"errors"
	"log"

	"quizgate/middleware"
	"quizgate/services/quiz"

	"github.com/gofiber/fiber/v2"
)

func progressError(c *fiber.Ctx, userID, courseID uint, err error) error {
	switch {
	case errors.Is(err, quiz.ErrNotEnrolled):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "User not enrolled in this course!", nil)
	case errors.Is(err, quiz.ErrLessonNotInCourse):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found in this course!", nil)
	}
	log.Printf("[QUIZ] progress of user %d course %d: %v", userID, courseID, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update progress!", nil)
}

func (h *Handler) MarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)
	lessonID := c.Locals("lesson_id").(uint)

	progress, err := h.Svc.MarkLessonComplete(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		return progressError(c, userID, courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as complete!", progress)
}

func (h *Handler) UnmarkLessonComplete(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)
	lessonID := c.Locals("lesson_id").(uint)

	progress, err := h.Svc.UnmarkLessonComplete(c.UserContext(), userID, courseID, lessonID)
	if err != nil {
		return progressError(c, userID, courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked as incomplete!", progress)
}

func (h *Handler) GetCourseProgress(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)

	progress, err := h.Svc.GetProgress(c.UserContext(), userID, courseID)
	if err != nil {
		return progressError(c, userID, courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", progress)
}
