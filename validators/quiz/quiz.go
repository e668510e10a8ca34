package quizValidator

import (
	"errors"

	"quizgate/middleware"
	"quizgate/models"
	"quizgate/services/quiz"
	"quizgate/validators"

	"github.com/gofiber/fiber/v2"
)

type questionRequest struct {
	Question      string   `json:"question" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectAnswer *int     `json:"correct_answer" validate:"required,min=0"`
	Explanation   string   `json:"explanation"`
}

type quizRequest struct {
	CourseID     uint              `json:"course_id"`
	Title        *string           `json:"title"`
	Description  *string           `json:"description"`
	PassingScore *int              `json:"passing_score" validate:"omitempty,min=0,max=100"`
	TimeLimit    *int              `json:"time_limit" validate:"omitempty,min=0"`
	Questions    []questionRequest `json:"questions" validate:"omitempty,dive"`
	IsActive     *bool             `json:"is_active"`
}

func (r quizRequest) input() quiz.QuizInput {
	in := quiz.QuizInput{
		Title:        r.Title,
		Description:  r.Description,
		PassingScore: r.PassingScore,
		TimeLimit:    r.TimeLimit,
		IsActive:     r.IsActive,
	}
	if r.Questions != nil {
		in.Questions = make([]models.QuizQuestion, len(r.Questions))
		for i, q := range r.Questions {
			in.Questions[i] = models.QuizQuestion{
				Question:      q.Question,
				Options:       q.Options,
				CorrectAnswer: *q.CorrectAnswer,
				Explanation:   q.Explanation,
			}
		}
	}
	return in
}

// checkQuiz runs tag validation, then the structural question rules.
func checkQuiz(c *fiber.Ctx, req *quizRequest, requireQuestions bool) (quiz.QuizInput, bool, error) {
	errs := validators.Struct(req)
	if requireQuestions && len(req.Questions) == 0 {
		if errs == nil {
			errs = map[string]string{}
		}
		errs["questions"] = "At least one question is required!"
	}
	if len(errs) > 0 {
		return quiz.QuizInput{}, false, middleware.ValidationErrorResponse(c, errs)
	}

	in := req.input()
	if in.Questions != nil {
		var verr *quiz.ValidationError
		if err := quiz.ValidateQuestions(in.Questions); errors.As(err, &verr) {
			return quiz.QuizInput{}, false, middleware.ValidationErrorResponse(c, verr.Fields)
		}
	}
	return in, true, nil
}

// CreateQuiz validates a full quiz definition. course_id comes from the body.
func CreateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.CourseID == 0 {
			return middleware.ValidationErrorResponse(c, map[string]string{"course_id": "course_id is required!"})
		}

		in, ok, err := checkQuiz(c, reqData, true)
		if !ok {
			return err
		}

		c.Locals("course_id", reqData.CourseID)
		c.Locals("validatedQuiz", in)
		return c.Next()
	}
}

// UpdateQuiz validates a partial quiz definition. Run after IDParams("course_id").
func UpdateQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(quizRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		in, ok, err := checkQuiz(c, reqData, false)
		if !ok {
			return err
		}

		c.Locals("validatedQuiz", in)
		return c.Next()
	}
}

// SubmitRequest is a learner's answer sheet. A null entry leaves that
// question unanswered.
type SubmitRequest struct {
	Answers   []*int `json:"answers" validate:"required"`
	TimeTaken int    `json:"time_taken" validate:"min=0"`
}

func SubmitQuiz() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(SubmitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if errs := validators.Struct(reqData); len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedSubmission", reqData)
		return c.Next()
	}
}
