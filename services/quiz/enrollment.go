package quiz

import (
	"context"
	"errors"
	"slices"

	"quizgate/database"
	"quizgate/models"

	"gorm.io/gorm"
)

// Enroll creates the enrollment of userID in courseID. Paid courses need
// granted=true, which stands for a completed payment or an admin grant.
func (s *Service) Enroll(ctx context.Context, userID, courseID uint, granted bool) (*models.Enrollment, error) {
	var course models.Course
	if err := s.DB.WithContext(ctx).Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if !course.IsFree && !granted {
		return nil, ErrPaymentRequired
	}

	enrollment := models.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: s.now(),
	}
	if err := s.DB.WithContext(ctx).Create(&enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}
	return &enrollment, nil
}

// MarkLessonComplete adds lessonID to the learner's completed set and returns
// the recomputed progress. Marking twice is a no-op.
func (s *Service) MarkLessonComplete(ctx context.Context, userID, courseID, lessonID uint) (Progress, error) {
	enrollment, err := s.findEnrollment(ctx, userID, courseID)
	if err != nil {
		return Progress{}, err
	}
	if enrollment == nil {
		return Progress{}, ErrNotEnrolled
	}

	current, err := s.Lessons.CurrentLessonIDs(ctx, courseID)
	if err != nil {
		return Progress{}, err
	}
	if !slices.Contains(current, lessonID) {
		return Progress{}, ErrLessonNotInCourse
	}

	if !slices.Contains(enrollment.LessonIDs(), lessonID) {
		completion := models.LessonCompletion{EnrollmentID: enrollment.ID, LessonID: lessonID}
		if err := s.DB.WithContext(ctx).Create(&completion).Error; err != nil && !database.IsUniqueViolation(err) {
			return Progress{}, err
		}
		enrollment.CompletedLessons = append(enrollment.CompletedLessons, completion)
	}
	return s.progressFor(ctx, enrollment)
}

// UnmarkLessonComplete removes lessonID from the completed set and returns the
// recomputed progress.
func (s *Service) UnmarkLessonComplete(ctx context.Context, userID, courseID, lessonID uint) (Progress, error) {
	enrollment, err := s.findEnrollment(ctx, userID, courseID)
	if err != nil {
		return Progress{}, err
	}
	if enrollment == nil {
		return Progress{}, ErrNotEnrolled
	}

	err = s.DB.WithContext(ctx).
		Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lessonID).
		Delete(&models.LessonCompletion{}).Error
	if err != nil {
		return Progress{}, err
	}

	kept := enrollment.CompletedLessons[:0]
	for _, lc := range enrollment.CompletedLessons {
		if lc.LessonID != lessonID {
			kept = append(kept, lc)
		}
	}
	enrollment.CompletedLessons = kept
	return s.progressFor(ctx, enrollment)
}
