package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UnansweredAnswer marks a question the learner left blank.
const UnansweredAnswer = -1

type AttemptKind string

const (
	AttemptScored AttemptKind = "scored"
	AttemptBlock  AttemptKind = "block"
)

type AnswerDetail struct {
	QuestionIndex  int  `json:"question_index"`
	SelectedAnswer int  `json:"selected_answer"`
	IsCorrect      bool `json:"is_correct"`
}

// QuizAttempt occupies the single (user, course) slot. It is either a scored
// attempt (QuizID set) or a block-only record (QuizID nil, scoring fields zero).
// Either kind may carry BlockedUntil.
type QuizAttempt struct {
	gorm.Model
	UserID              uint                              `json:"user_id" gorm:"not null;uniqueIndex:idx_attempt_user_course"`
	CourseID            uint                              `json:"course_id" gorm:"not null;uniqueIndex:idx_attempt_user_course"`
	QuizID              *uint                             `json:"quiz_id" gorm:"index"`
	Score               int                               `json:"score" gorm:"not null;default:0"`
	TotalQuestions      int                               `json:"total_questions" gorm:"not null;default:0"`
	Percentage          int                               `json:"percentage" gorm:"not null;default:0"`
	Passed              bool                              `json:"passed" gorm:"not null;default:false"`
	Answers             datatypes.JSONSlice[AnswerDetail] `json:"answers"`
	TimeTaken           int                               `json:"time_taken" gorm:"not null;default:0"` // seconds, client reported
	CompletedAt         *time.Time                        `json:"completed_at"`
	CertificateEligible bool                              `json:"certificate_eligible" gorm:"not null;default:false"`
	CertificateNumber   *string                           `json:"certificate_number,omitempty" gorm:"uniqueIndex"`
	BlockedUntil        *time.Time                        `json:"blocked_until" gorm:"index"`

	User *User `json:"-" gorm:"foreignKey:UserID"`
}

func (a QuizAttempt) IsScored() bool {
	return a.QuizID != nil
}

func (a QuizAttempt) Kind() AttemptKind {
	if a.IsScored() {
		return AttemptScored
	}
	return AttemptBlock
}

// IsBlockedAt reports whether the slot bars the learner at time t.
func (a QuizAttempt) IsBlockedAt(t time.Time) bool {
	return a.BlockedUntil != nil && a.BlockedUntil.After(t)
}
