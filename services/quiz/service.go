package quiz

import (
	"context"
	"errors"
	"time"

	"quizgate/models"

	"gorm.io/gorm"
)

// Service implements the quiz eligibility and completion gate. It keeps no
// mutable state between calls; every cross-request guarantee comes from the
// store's unique indexes.
type Service struct {
	DB       *gorm.DB
	Policy   Policy
	Lessons  LessonCatalog
	Admins   AdminDirectory
	Notifier Notifier
	Now      func() time.Time
}

// NewService wires a service backed by db for every collaborator. Callers may
// replace Lessons, Admins or Notifier afterwards.
func NewService(db *gorm.DB, policy Policy) *Service {
	return &Service{
		DB:       db,
		Policy:   policy,
		Lessons:  DBLessonCatalog{DB: db},
		Admins:   DBAdminDirectory{DB: db},
		Notifier: nopNotifier{},
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) findEnrollment(ctx context.Context, userID, courseID uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.DB.WithContext(ctx).
		Preload("CompletedLessons").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// findAttempt returns the record in the (user, course) slot, scored or block-only.
func (s *Service) findAttempt(ctx context.Context, userID, courseID uint) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (s *Service) findActiveQuiz(ctx context.Context, courseID uint) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.DB.WithContext(ctx).
		Where("course_id = ? AND is_active = ?", courseID, true).
		First(&quiz).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}
