package quiz

import (
	"context"
	"log"
	"time"

	"quizgate/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BlockResult acknowledges a violation report.
type BlockResult struct {
	Blocked      bool       `json:"blocked"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}

// BlockForViolation bars userID from the quiz of courseID for the policy's
// block duration. Reports come from the browser (focus/visibility loss, leaving
// fullscreen) and are taken at face value; this is a deterrent, not a security
// boundary. Administrators are never blocked.
func (s *Service) BlockForViolation(ctx context.Context, userID, courseID uint, triggeringIsAdmin bool) (BlockResult, error) {
	if triggeringIsAdmin {
		return BlockResult{}, nil
	}
	if s.Admins != nil {
		isAdmin, err := s.Admins.IsAdmin(ctx, userID)
		if err != nil {
			return BlockResult{}, err
		}
		if isAdmin {
			return BlockResult{}, nil
		}
	}

	until := s.now().Add(s.Policy.BlockDuration)
	record := models.QuizAttempt{
		UserID:       userID,
		CourseID:     courseID,
		Answers:      datatypes.JSONSlice[models.AnswerDetail]{},
		BlockedUntil: &until,
	}

	// Create the block-only record, or extend whatever already occupies the
	// slot. Both happen in one statement so concurrent reports cannot collide.
	// A report never shortens a block that already runs longer.
	err := s.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "blocked_until"}, Value: gorm.Expr(
					"CASE WHEN quiz_attempts.blocked_until IS NULL OR quiz_attempts.blocked_until < excluded.blocked_until " +
						"THEN excluded.blocked_until ELSE quiz_attempts.blocked_until END")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("excluded.updated_at")},
			},
		}).
		Create(&record).Error
	if err != nil {
		return BlockResult{}, err
	}

	var stored models.QuizAttempt
	err = s.DB.WithContext(ctx).
		Select("blocked_until").
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Take(&stored).Error
	if err != nil {
		return BlockResult{}, err
	}
	if stored.BlockedUntil != nil {
		until = stored.BlockedUntil.UTC()
	}

	log.Printf("[QUIZ] user %d blocked from course %d quiz until %s", userID, courseID, until.Format(time.RFC3339))
	return BlockResult{Blocked: true, BlockedUntil: &until}, nil
}
