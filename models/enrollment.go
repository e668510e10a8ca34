package models

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment links a learner to a course. One per (user, course).
type Enrollment struct {
	gorm.Model
	UserID           uint               `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID         uint               `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	IsCompleted      bool               `json:"is_completed" gorm:"default:false"`
	EnrolledAt       time.Time          `json:"enrolled_at"`
	CompletedLessons []LessonCompletion `json:"completed_lessons,omitempty" gorm:"foreignKey:EnrollmentID;constraint:OnDelete:CASCADE"`
}

// LessonCompletion is one entry of an enrollment's completed-lesson set.
type LessonCompletion struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_completion_enrollment_lesson"`
	LessonID     uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_completion_enrollment_lesson"`
	CreatedAt    time.Time `json:"created_at"`
}

// LessonIDs returns the completed lesson IDs without duplicates.
func (e Enrollment) LessonIDs() []uint {
	seen := make(map[uint]bool, len(e.CompletedLessons))
	ids := make([]uint, 0, len(e.CompletedLessons))
	for _, lc := range e.CompletedLessons {
		if seen[lc.LessonID] {
			continue
		}
		seen[lc.LessonID] = true
		ids = append(ids, lc.LessonID)
	}
	return ids
}
