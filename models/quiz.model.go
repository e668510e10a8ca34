package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizQuestion is a single-answer multiple choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"` // 0-based index into Options
	Explanation   string   `json:"explanation"`
}

// Quiz is the certification quiz of a course. At most one per course.
type Quiz struct {
	gorm.Model
	CourseID     uint                              `json:"course_id" gorm:"not null;uniqueIndex"`
	Title        string                            `json:"title" gorm:"not null"`
	Description  string                            `json:"description"`
	PassingScore int                               `json:"passing_score" gorm:"not null"`
	TimeLimit    int                               `json:"time_limit" gorm:"not null"` // minutes, 0 = unlimited
	Questions    datatypes.JSONSlice[QuizQuestion] `json:"questions" gorm:"not null"`
	IsActive     bool                              `json:"is_active" gorm:"not null"`
}

// PublicQuestion is a question as shown to a learner: no correct answer.
type PublicQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
}

// PublicQuiz is the learner-facing view of a quiz. Question order is the
// canonical server-side order.
type PublicQuiz struct {
	ID           uint             `json:"id"`
	CourseID     uint             `json:"course_id"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	PassingScore int              `json:"passing_score"`
	TimeLimit    int              `json:"time_limit"`
	Questions    []PublicQuestion `json:"questions"`
}

func (q Quiz) Public() PublicQuiz {
	questions := make([]PublicQuestion, len(q.Questions))
	for i, qq := range q.Questions {
		options := make([]string, len(qq.Options))
		copy(options, qq.Options)
		questions[i] = PublicQuestion{
			Question:    qq.Question,
			Options:     options,
			Explanation: qq.Explanation,
		}
	}
	return PublicQuiz{
		ID:           q.ID,
		CourseID:     q.CourseID,
		Title:        q.Title,
		Description:  q.Description,
		PassingScore: q.PassingScore,
		TimeLimit:    q.TimeLimit,
		Questions:    questions,
	}
}
