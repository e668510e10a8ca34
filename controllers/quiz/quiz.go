package quizController

import (
	"errors"
	"log"
	"time"

	"quizgate/middleware"
	"quizgate/models"
	"quizgate/services/metrics"
	"quizgate/services/quiz"
	quizValidator "quizgate/validators/quiz"

	"github.com/gofiber/fiber/v2"
)

// Handler serves the quiz endpoints.
type Handler struct {
	Svc *quiz.Service
}

func New(svc *quiz.Service) *Handler {
	return &Handler{Svc: svc}
}

// AttemptView is an attempt record tagged with its kind for listings.
type AttemptView struct {
	models.QuizAttempt
	Kind models.AttemptKind `json:"kind"`
	User *AttemptUser       `json:"user,omitempty"`
}

// AttemptUser identifies the learner in admin listings.
type AttemptUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func newAttemptView(a models.QuizAttempt) AttemptView {
	view := AttemptView{QuizAttempt: a, Kind: a.Kind()}
	if a.User != nil {
		view.User = &AttemptUser{ID: a.User.ID, Name: a.User.Name, Email: a.User.Email}
	}
	return view
}

func caller(c *fiber.Ctx) (uint, bool, bool) {
	userID, ok := c.Locals("userId").(uint)
	isAdmin, _ := c.Locals("isAdmin").(bool)
	return userID, isAdmin, ok
}

// gateStatus maps a failed eligibility reason to the HTTP status of a rejected
// submission.
func gateStatus(reason quiz.Reason) int {
	switch reason {
	case quiz.ReasonNoQuiz:
		return fiber.StatusNotFound
	case quiz.ReasonAlreadyAttempted:
		return fiber.StatusConflict
	default:
		return fiber.StatusForbidden
	}
}

func gateMessage(reason quiz.Reason) string {
	switch reason {
	case quiz.ReasonBlocked:
		return "You are temporarily blocked from this quiz!"
	case quiz.ReasonNotEnrolled:
		return "User not enrolled in this course!"
	case quiz.ReasonInsufficientCompletion:
		return "Complete more of the course before taking the quiz!"
	case quiz.ReasonNoQuiz:
		return "Quiz not found!"
	case quiz.ReasonAlreadyAttempted:
		return "Quiz already attempted!"
	}
	return "Not eligible for this quiz!"
}

func (h *Handler) GetQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)

	public, err := h.Svc.GetQuiz(c.UserContext(), courseID)
	if errors.Is(err, quiz.ErrQuizNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if err != nil {
		log.Printf("[QUIZ] get quiz of course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", public)
}

func (h *Handler) GetQuizWithAnswers(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)

	q, err := h.Svc.GetQuizWithAnswers(c.UserContext(), courseID)
	if errors.Is(err, quiz.ErrQuizNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	}
	if err != nil {
		log.Printf("[QUIZ] get quiz with answers of course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz fetched successfully!", q)
}

func (h *Handler) CheckEligibility(c *fiber.Ctx) error {
	userID, isAdmin, ok := caller(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)

	result, err := h.Svc.CheckEligibility(c.UserContext(), userID, courseID, isAdmin)
	if err != nil {
		log.Printf("[QUIZ] eligibility of user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check eligibility!", nil)
	}
	metrics.EligibilityChecks.WithLabelValues(string(result.Reason)).Inc()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Eligibility checked successfully!", result)
}

func (h *Handler) writeQuizError(c *fiber.Ctx, action string, courseID uint, err error) error {
	var verr *quiz.ValidationError
	switch {
	case errors.As(err, &verr):
		return middleware.ValidationErrorResponse(c, verr.Fields)
	case errors.Is(err, quiz.ErrCourseNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	case errors.Is(err, quiz.ErrQuizNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	case errors.Is(err, quiz.ErrQuizExists):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Quiz already exists for this course!", nil)
	}
	log.Printf("[QUIZ] %s quiz of course %d: %v", action, courseID, err)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to "+action+" quiz!", nil)
}

func (h *Handler) CreateQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)
	in := c.Locals("validatedQuiz").(quiz.QuizInput)

	q, err := h.Svc.CreateQuiz(c.UserContext(), courseID, in)
	if err != nil {
		return h.writeQuizError(c, "create", courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Quiz created successfully!", q)
}

func (h *Handler) UpdateQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)
	in := c.Locals("validatedQuiz").(quiz.QuizInput)

	q, err := h.Svc.UpdateQuiz(c.UserContext(), courseID, in)
	if err != nil {
		return h.writeQuizError(c, "update", courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz updated successfully!", q)
}

func (h *Handler) DeleteQuiz(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)

	if err := h.Svc.DeleteQuiz(c.UserContext(), courseID); err != nil {
		return h.writeQuizError(c, "delete", courseID, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz and attempts deleted successfully!", nil)
}

func (h *Handler) SubmitQuiz(c *fiber.Ctx) error {
	started := time.Now()
	userID, isAdmin, ok := caller(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)
	reqData := c.Locals("validatedSubmission").(*quizValidator.SubmitRequest)

	result, err := h.Svc.SubmitAttempt(c.UserContext(), quiz.Submission{
		UserID:    userID,
		CourseID:  courseID,
		Answers:   reqData.Answers,
		TimeTaken: reqData.TimeTaken,
		IsAdmin:   isAdmin,
	})

	var gateErr *quiz.GateError
	switch {
	case err == nil:
	case errors.As(err, &gateErr):
		reason := gateErr.Eligibility.Reason
		metrics.ObserveSubmission("rejected_"+string(reason), started)
		return middleware.JsonResponse(c, gateStatus(reason), false, gateMessage(reason), gateErr.Eligibility)
	case errors.Is(err, quiz.ErrAlreadyAttempted):
		metrics.ObserveSubmission("rejected_"+string(quiz.ReasonAlreadyAttempted), started)
		return middleware.JsonResponse(c, fiber.StatusConflict, false, gateMessage(quiz.ReasonAlreadyAttempted), nil)
	case errors.Is(err, quiz.ErrQuizNotFound):
		metrics.ObserveSubmission("rejected_"+string(quiz.ReasonNoQuiz), started)
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz not found!", nil)
	default:
		metrics.ObserveSubmission("error", started)
		log.Printf("[QUIZ] submit of user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	outcome := "failed"
	if result.Passed {
		outcome = "passed"
	}
	metrics.ObserveSubmission(outcome, started)
	if result.CertificateEligible {
		metrics.CertificatesIssued.Inc()
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", result)
}

func (h *Handler) ReportViolation(c *fiber.Ctx) error {
	userID, isAdmin, ok := caller(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)

	result, err := h.Svc.BlockForViolation(c.UserContext(), userID, courseID, isAdmin)
	if err != nil {
		metrics.Violations.WithLabelValues("error").Inc()
		log.Printf("[QUIZ] violation of user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record violation!", nil)
	}

	if !result.Blocked {
		metrics.Violations.WithLabelValues("ignored_admin").Inc()
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Violation ignored for administrator!", result)
	}
	metrics.Violations.WithLabelValues("blocked").Inc()
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Violation recorded, quiz blocked!", result)
}

func (h *Handler) GetMyAttempt(c *fiber.Ctx) error {
	userID, _, ok := caller(c)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	courseID := c.Locals("course_id").(uint)

	attempt, err := h.Svc.GetAttempt(c.UserContext(), userID, courseID)
	if errors.Is(err, quiz.ErrAttemptNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz attempt not found!", nil)
	}
	if err != nil {
		log.Printf("[QUIZ] attempt of user %d course %d: %v", userID, courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempt!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempt fetched successfully!", newAttemptView(*attempt))
}

func (h *Handler) ListAttempts(c *fiber.Ctx) error {
	courseID := c.Locals("course_id").(uint)

	attempts, err := h.Svc.ListAttempts(c.UserContext(), courseID)
	if err != nil {
		log.Printf("[QUIZ] attempts of course %d: %v", courseID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch attempts!", nil)
	}

	views := make([]AttemptView, len(attempts))
	for i, a := range attempts {
		views[i] = newAttemptView(a)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz attempts fetched successfully!", views)
}
