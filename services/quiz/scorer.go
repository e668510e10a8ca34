package quiz

import (
	"context"
	"log"
	"strings"
	"time"

	"quizgate/database"
	"quizgate/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Submission is a learner's answer sheet. Answers[i] is the selected option
// of question i in canonical order; nil or negative means unanswered.
type Submission struct {
	UserID    uint
	CourseID  uint
	Answers   []*int
	TimeTaken int // seconds, client reported
	IsAdmin   bool
}

// Result is what the learner sees after submitting. Correct answers are not
// part of it.
type Result struct {
	Score               int     `json:"score"`
	TotalQuestions      int     `json:"total_questions"`
	Percentage          int     `json:"percentage"`
	Passed              bool    `json:"passed"`
	CertificateEligible bool    `json:"certificate_eligible"`
	CertificateNumber   *string `json:"certificate_number,omitempty"`
	PassingScore        int     `json:"passing_score"`
	CourseCompletion    int     `json:"course_completion"`
}

// ScoreAnswers grades answers against the quiz questions. The detail slice has
// one entry per question, in question order.
func ScoreAnswers(questions []models.QuizQuestion, answers []*int) (int, []models.AnswerDetail) {
	score := 0
	details := make([]models.AnswerDetail, len(questions))
	for i, q := range questions {
		selected := models.UnansweredAnswer
		if i < len(answers) && answers[i] != nil && *answers[i] >= 0 {
			selected = *answers[i]
		}
		correct := selected == q.CorrectAnswer
		if correct {
			score++
		}
		details[i] = models.AnswerDetail{
			QuestionIndex:  i,
			SelectedAnswer: selected,
			IsCorrect:      correct,
		}
	}
	return score, details
}

// SubmitAttempt re-checks every gate, scores the answers and stores exactly one
// scored attempt for the (user, course) pair. Nothing is written when a gate
// fails.
func (s *Service) SubmitAttempt(ctx context.Context, sub Submission) (*Result, error) {
	g, err := s.evaluate(ctx, sub.UserID, sub.CourseID, sub.IsAdmin)
	if err != nil {
		return nil, err
	}
	if !g.eligibility.Eligible {
		return nil, &GateError{Eligibility: g.eligibility}
	}

	quiz := g.quiz
	progress := g.progress
	if sub.IsAdmin {
		if quiz, err = s.findActiveQuiz(ctx, sub.CourseID); err != nil {
			return nil, err
		}
		if progress, err = s.adminProgress(ctx, sub.UserID, sub.CourseID); err != nil {
			return nil, err
		}
	}
	if quiz == nil || len(quiz.Questions) == 0 {
		return nil, ErrQuizNotFound
	}

	score, details := ScoreAnswers(quiz.Questions, sub.Answers)
	total := len(quiz.Questions)
	percentage := roundPercent(score, total)
	passed := percentage >= quiz.PassingScore
	certificateEligible := passed && progress.Percentage >= s.Policy.CompletionThreshold

	completedAt := s.now()
	quizID := quiz.ID
	attempt := models.QuizAttempt{
		UserID:              sub.UserID,
		CourseID:            sub.CourseID,
		QuizID:              &quizID,
		Score:               score,
		TotalQuestions:      total,
		Percentage:          percentage,
		Passed:              passed,
		Answers:             details,
		TimeTaken:           max(sub.TimeTaken, 0),
		CompletedAt:         &completedAt,
		CertificateEligible: certificateEligible,
	}
	if certificateEligible {
		number := newCertificateNumber()
		attempt.CertificateNumber = &number
	}

	if err := s.storeAttempt(ctx, &attempt); err != nil {
		return nil, err
	}

	log.Printf("[QUIZ] user %d course %d scored %d/%d (%d%%) passed=%t certificate=%t",
		sub.UserID, sub.CourseID, score, total, percentage, passed, certificateEligible)

	if certificateEligible {
		s.notifyCertificate(CertificateNotice{
			UserID:            sub.UserID,
			CourseID:          sub.CourseID,
			CertificateNumber: *attempt.CertificateNumber,
			Percentage:        percentage,
		})
	}

	return &Result{
		Score:               score,
		TotalQuestions:      total,
		Percentage:          percentage,
		Passed:              passed,
		CertificateEligible: certificateEligible,
		CertificateNumber:   attempt.CertificateNumber,
		PassingScore:        quiz.PassingScore,
		CourseCompletion:    progress.Percentage,
	}, nil
}

// adminProgress is the completion of an admin, who may not be enrolled.
func (s *Service) adminProgress(ctx context.Context, userID, courseID uint) (Progress, error) {
	enrollment, err := s.findEnrollment(ctx, userID, courseID)
	if err != nil || enrollment == nil {
		return Progress{}, err
	}
	return s.progressFor(ctx, enrollment)
}

// storeAttempt inserts the scored attempt. When the slot is already taken it
// may only be claimed if it holds an expired block-only record; any other
// occupant means the learner already has an attempt. If the slot empties
// between the insert and the claim (the sweeper purged the block), the insert
// is retried once.
func (s *Service) storeAttempt(ctx context.Context, attempt *models.QuizAttempt) error {
	for try := 0; try < 2; try++ {
		err := s.DB.WithContext(ctx).Create(attempt).Error
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return err
		}

		claimed, err := s.claimExpiredBlock(ctx, attempt)
		if err != nil || claimed {
			return err
		}

		// Lost a race: either a scored attempt landed first or a new block did.
		occupant, err := s.findAttempt(ctx, attempt.UserID, attempt.CourseID)
		if err != nil {
			return err
		}
		if occupant == nil {
			continue
		}
		if occupant.IsScored() {
			return &GateError{Eligibility: Eligibility{Reason: ReasonAlreadyAttempted, Attempt: occupant}}
		}
		if occupant.IsBlockedAt(s.now()) {
			return &GateError{Eligibility: blocked(*occupant.BlockedUntil)}
		}
	}
	return ErrAlreadyAttempted
}

// claimExpiredBlock turns an expired block-only record into the scored attempt.
func (s *Service) claimExpiredBlock(ctx context.Context, attempt *models.QuizAttempt) (bool, error) {
	res := s.DB.WithContext(ctx).
		Model(&models.QuizAttempt{}).
		Where("user_id = ? AND course_id = ? AND quiz_id IS NULL", attempt.UserID, attempt.CourseID).
		Where("blocked_until IS NULL OR blocked_until <= ?", s.now()).
		Updates(map[string]interface{}{
			"quiz_id":              attempt.QuizID,
			"score":                attempt.Score,
			"total_questions":      attempt.TotalQuestions,
			"percentage":           attempt.Percentage,
			"passed":               attempt.Passed,
			"answers":              attempt.Answers,
			"time_taken":           attempt.TimeTaken,
			"completed_at":         attempt.CompletedAt,
			"certificate_eligible": attempt.CertificateEligible,
			"certificate_number":   attempt.CertificateNumber,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (s *Service) notifyCertificate(notice CertificateNotice) {
	if s.Notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Notifier.CertificateEarned(ctx, notice); err != nil {
			log.Printf("[QUIZ] certificate notice for user %d course %d failed: %v", notice.UserID, notice.CourseID, err)
		}
	}()
}

func newCertificateNumber() string {
	return "CERT-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// GetAttempt returns the record in the caller's slot for courseID.
func (s *Service) GetAttempt(ctx context.Context, userID, courseID uint) (*models.QuizAttempt, error) {
	attempt, err := s.findAttempt(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrAttemptNotFound
	}
	return attempt, nil
}

// ListAttempts returns every record for courseID, newest first, with the
// learner's name and email loaded.
func (s *Service) ListAttempts(ctx context.Context, courseID uint) ([]models.QuizAttempt, error) {
	var attempts []models.QuizAttempt
	err := s.DB.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Where("course_id = ?", courseID).
		Order("created_at desc, id desc").
		Find(&attempts).Error
	return attempts, err
}
