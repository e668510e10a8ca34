package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"quizgate/database"
	"quizgate/models"

	"gorm.io/gorm"
)

const (
	defaultQuizTitle       = "Course Quiz"
	defaultQuizDescription = "Test your knowledge of the course material"
)

// QuizInput carries a full or partial quiz definition. Nil fields are left
// unchanged on update and defaulted on create.
type QuizInput struct {
	Title        *string
	Description  *string
	PassingScore *int
	TimeLimit    *int
	Questions    []models.QuizQuestion
	IsActive     *bool
}

// ValidateQuestions checks the structural rules every stored quiz obeys.
func ValidateQuestions(questions []models.QuizQuestion) error {
	verr := &ValidationError{}
	validateQuestions(verr, questions)
	return verr.orNil()
}

func validateQuestions(verr *ValidationError, questions []models.QuizQuestion) {
	if len(questions) == 0 {
		verr.add("questions", "At least one question is required!")
		return
	}
	for i, q := range questions {
		field := fmt.Sprintf("questions[%d]", i)
		if strings.TrimSpace(q.Question) == "" {
			verr.add(field+".question", fmt.Sprintf("Question %d must have question text!", i+1))
		}
		if len(q.Options) < 2 {
			verr.add(field+".options", fmt.Sprintf("Question %d must have at least 2 options!", i+1))
		}
		for j, opt := range q.Options {
			if strings.TrimSpace(opt) == "" {
				verr.add(fmt.Sprintf("%s.options[%d]", field, j), fmt.Sprintf("Question %d option %d is empty!", i+1, j+1))
			}
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			verr.add(field+".correct_answer", fmt.Sprintf("Question %d correct answer must be a valid option index!", i+1))
		}
	}
}

func validateSettings(verr *ValidationError, in QuizInput) {
	if in.PassingScore != nil && (*in.PassingScore < 0 || *in.PassingScore > 100) {
		verr.add("passing_score", "Passing score must be between 0 and 100!")
	}
	if in.TimeLimit != nil && *in.TimeLimit < 0 {
		verr.add("time_limit", "Time limit cannot be negative!")
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		verr.add("title", "Title cannot be empty!")
	}
}

// CreateQuiz stores the quiz of courseID. A course has at most one quiz.
func (s *Service) CreateQuiz(ctx context.Context, courseID uint, in QuizInput) (*models.Quiz, error) {
	verr := &ValidationError{}
	validateSettings(verr, in)
	validateQuestions(verr, in.Questions)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	var course models.Course
	if err := s.DB.WithContext(ctx).Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	quiz := models.Quiz{
		CourseID:     courseID,
		Title:        defaultQuizTitle,
		Description:  defaultQuizDescription,
		PassingScore: s.Policy.DefaultPassingScore,
		TimeLimit:    0,
		Questions:    in.Questions,
		IsActive:     true,
	}
	applyInput(&quiz, in)

	if err := s.DB.WithContext(ctx).Create(&quiz).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrQuizExists
		}
		return nil, err
	}
	log.Printf("[QUIZ] created quiz %d for course %d with %d questions", quiz.ID, courseID, len(quiz.Questions))
	return &quiz, nil
}

// UpdateQuiz replaces the given fields of courseID's quiz and re-validates.
func (s *Service) UpdateQuiz(ctx context.Context, courseID uint, in QuizInput) (*models.Quiz, error) {
	verr := &ValidationError{}
	validateSettings(verr, in)
	if in.Questions != nil {
		validateQuestions(verr, in.Questions)
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	quiz, err := s.findQuiz(ctx, courseID)
	if err != nil {
		return nil, err
	}
	applyInput(quiz, in)

	if err := s.DB.WithContext(ctx).Save(quiz).Error; err != nil {
		return nil, err
	}
	return quiz, nil
}

func applyInput(quiz *models.Quiz, in QuizInput) {
	if in.Title != nil {
		quiz.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		quiz.Description = strings.TrimSpace(*in.Description)
	}
	if in.PassingScore != nil {
		quiz.PassingScore = *in.PassingScore
	}
	if in.TimeLimit != nil {
		quiz.TimeLimit = *in.TimeLimit
	}
	if in.Questions != nil {
		quiz.Questions = in.Questions
	}
	if in.IsActive != nil {
		quiz.IsActive = *in.IsActive
	}
}

// DeleteQuiz removes courseID's quiz together with every attempt record of the
// course.
func (s *Service) DeleteQuiz(ctx context.Context, courseID uint) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Unscoped().Where("course_id = ?", courseID).Delete(&models.Quiz{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrQuizNotFound
		}
		attempts := tx.Unscoped().Where("course_id = ?", courseID).Delete(&models.QuizAttempt{})
		if attempts.Error != nil {
			return attempts.Error
		}
		log.Printf("[QUIZ] deleted quiz of course %d and %d attempt records", courseID, attempts.RowsAffected)
		return nil
	})
}

// GetQuiz returns the active quiz of courseID without correct answers.
func (s *Service) GetQuiz(ctx context.Context, courseID uint) (*models.PublicQuiz, error) {
	quiz, err := s.findActiveQuiz(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if quiz == nil {
		return nil, ErrQuizNotFound
	}
	public := quiz.Public()
	return &public, nil
}

// GetQuizWithAnswers returns courseID's quiz, active or not.
func (s *Service) GetQuizWithAnswers(ctx context.Context, courseID uint) (*models.Quiz, error) {
	return s.findQuiz(ctx, courseID)
}

func (s *Service) findQuiz(ctx context.Context, courseID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.DB.WithContext(ctx).Where("course_id = ?", courseID).First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
