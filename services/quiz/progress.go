package quiz

import (
	"context"
	"log"

	"quizgate/models"
)

// Progress is the Progress Ledger output for one enrollment.
type Progress struct {
	CompletedCount int    `json:"completed_count"`
	TotalLessons   int    `json:"total_lessons"`
	Percentage     int    `json:"percentage"`
	IsCompleted    bool   `json:"is_completed"`
	CompletedIDs   []uint `json:"completed_lesson_ids"`
}

// ComputeProgress derives completion from the completed lesson IDs and the
// course's current lesson set. IDs of lessons no longer in the course are
// dropped before counting.
func ComputeProgress(completed, current []uint) Progress {
	live := make(map[uint]bool, len(current))
	for _, id := range current {
		live[id] = true
	}

	counted := make(map[uint]bool, len(completed))
	filtered := make([]uint, 0, len(completed))
	for _, id := range completed {
		if !live[id] || counted[id] {
			continue
		}
		counted[id] = true
		filtered = append(filtered, id)
	}

	p := Progress{
		CompletedCount: len(filtered),
		TotalLessons:   len(live),
		CompletedIDs:   filtered,
	}
	p.Percentage = roundPercent(p.CompletedCount, p.TotalLessons)
	p.IsCompleted = p.Percentage == 100
	return p
}

// roundPercent returns round-half-up(100*part/whole), 0 when whole is 0 and
// exactly 100 once part reaches whole.
func roundPercent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	if part >= whole {
		return 100
	}
	return (200*part + whole) / (2 * whole)
}

// progressFor computes the enrollment's progress and keeps its IsCompleted
// flag in line with the result, setting or clearing it as needed.
func (s *Service) progressFor(ctx context.Context, enrollment *models.Enrollment) (Progress, error) {
	current, err := s.Lessons.CurrentLessonIDs(ctx, enrollment.CourseID)
	if err != nil {
		return Progress{}, err
	}

	p := ComputeProgress(enrollment.LessonIDs(), current)
	if enrollment.IsCompleted != p.IsCompleted {
		err := s.DB.WithContext(ctx).
			Model(&models.Enrollment{}).
			Where("id = ?", enrollment.ID).
			Update("is_completed", p.IsCompleted).Error
		if err != nil {
			return Progress{}, err
		}
		log.Printf("[QUIZ] enrollment %d is_completed %t -> %t", enrollment.ID, enrollment.IsCompleted, p.IsCompleted)
		enrollment.IsCompleted = p.IsCompleted
	}
	return p, nil
}

// GetProgress returns the ledger output for (userID, courseID).
func (s *Service) GetProgress(ctx context.Context, userID, courseID uint) (Progress, error) {
	enrollment, err := s.findEnrollment(ctx, userID, courseID)
	if err != nil {
		return Progress{}, err
	}
	if enrollment == nil {
		return Progress{}, ErrNotEnrolled
	}
	return s.progressFor(ctx, enrollment)
}
