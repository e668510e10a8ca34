package quiz

import (
	"context"
	"time"

	"quizgate/models"
)

// Reason names the outcome of an eligibility check. Exactly one applies.
type Reason string

const (
	ReasonEligible               Reason = "eligible"
	ReasonAdmin                  Reason = "admin"
	ReasonBlocked                Reason = "blocked"
	ReasonNotEnrolled            Reason = "not_enrolled"
	ReasonInsufficientCompletion Reason = "insufficient_completion"
	ReasonNoQuiz                 Reason = "no_quiz"
	ReasonAlreadyAttempted       Reason = "already_attempted"
)

// Eligibility is the result of CheckEligibility. Which optional fields are set
// depends on Reason:
//
//	eligible                 CompletionPercentage
//	blocked                  BlockedUntil
//	insufficient_completion  CompletionPercentage
//	already_attempted        Attempt, CompletionPercentage
type Eligibility struct {
	Eligible             bool                `json:"eligible"`
	Reason               Reason              `json:"reason"`
	CompletionPercentage *int                `json:"completion_percentage,omitempty"`
	BlockedUntil         *time.Time          `json:"blocked_until,omitempty"`
	Attempt              *models.QuizAttempt `json:"attempt,omitempty"`
}

func adminBypass() Eligibility {
	return Eligibility{Eligible: true, Reason: ReasonAdmin}
}

func blocked(until time.Time) Eligibility {
	return Eligibility{Reason: ReasonBlocked, BlockedUntil: &until}
}

func notEnrolled() Eligibility {
	return Eligibility{Reason: ReasonNotEnrolled}
}

func insufficientCompletion(pct int) Eligibility {
	return Eligibility{Reason: ReasonInsufficientCompletion, CompletionPercentage: &pct}
}

func noQuiz() Eligibility {
	return Eligibility{Reason: ReasonNoQuiz}
}

func alreadyAttempted(attempt *models.QuizAttempt, pct int) Eligibility {
	return Eligibility{Reason: ReasonAlreadyAttempted, Attempt: attempt, CompletionPercentage: &pct}
}

func eligible(pct int) Eligibility {
	return Eligibility{Eligible: true, Reason: ReasonEligible, CompletionPercentage: &pct}
}

// gate is everything an evaluation learned, so submission can reuse the
// loaded quiz and progress of the same call.
type gate struct {
	eligibility Eligibility
	quiz        *models.Quiz
	progress    Progress
}

// CheckEligibility decides whether userID may begin the quiz of courseID.
// Checks run in order and stop at the first failure: admin bypass, block,
// enrollment, completion threshold, active quiz, prior scored attempt.
func (s *Service) CheckEligibility(ctx context.Context, userID, courseID uint, isAdmin bool) (Eligibility, error) {
	g, err := s.evaluate(ctx, userID, courseID, isAdmin)
	if err != nil {
		return Eligibility{}, err
	}
	return g.eligibility, nil
}

func (s *Service) evaluate(ctx context.Context, userID, courseID uint, isAdmin bool) (gate, error) {
	if isAdmin {
		return gate{eligibility: adminBypass()}, nil
	}

	attempt, err := s.findAttempt(ctx, userID, courseID)
	if err != nil {
		return gate{}, err
	}
	if attempt != nil && attempt.IsBlockedAt(s.now()) {
		return gate{eligibility: blocked(*attempt.BlockedUntil)}, nil
	}

	enrollment, err := s.findEnrollment(ctx, userID, courseID)
	if err != nil {
		return gate{}, err
	}
	if enrollment == nil {
		return gate{eligibility: notEnrolled()}, nil
	}

	progress, err := s.progressFor(ctx, enrollment)
	if err != nil {
		return gate{}, err
	}
	if progress.Percentage < s.Policy.CompletionThreshold {
		return gate{eligibility: insufficientCompletion(progress.Percentage), progress: progress}, nil
	}

	quiz, err := s.findActiveQuiz(ctx, courseID)
	if err != nil {
		return gate{}, err
	}
	if quiz == nil {
		return gate{eligibility: noQuiz(), progress: progress}, nil
	}

	if attempt != nil && attempt.IsScored() {
		return gate{eligibility: alreadyAttempted(attempt, progress.Percentage), quiz: quiz, progress: progress}, nil
	}

	return gate{eligibility: eligible(progress.Percentage), quiz: quiz, progress: progress}, nil
}
