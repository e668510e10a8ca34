package utils

import (
	"log"
	"time"

	"quizgate/models"
	"quizgate/services/metrics"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeBlockSweeper schedules SweepExpiredBlocks on the given cron schedule
// and starts the scheduler.
func InitializeBlockSweeper(db *gorm.DB, schedule string) (*cron.Cron, error) {
	log.Println("[BLOCK-SWEEPER] Initializing block sweeper...")

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		removed, err := SweepExpiredBlocks(db, time.Now().UTC())
		if err != nil {
			log.Printf("[BLOCK-SWEEPER] Error sweeping expired blocks: %v", err)
			return
		}
		log.Printf("[BLOCK-SWEEPER] Removed %d expired block records", removed)
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	log.Printf("[BLOCK-SWEEPER] Block sweeper started with schedule %q", schedule)
	return c, nil
}

// SweepExpiredBlocks deletes block-only records whose block ended before now.
// Scored attempts are never touched, even when they carry an expired block.
func SweepExpiredBlocks(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Unscoped().
		Where("quiz_id IS NULL AND blocked_until IS NOT NULL AND blocked_until < ?", now).
		Delete(&models.QuizAttempt{})
	if result.Error != nil {
		return 0, result.Error
	}
	metrics.BlocksSwept.Add(float64(result.RowsAffected))
	return result.RowsAffected, nil
}
