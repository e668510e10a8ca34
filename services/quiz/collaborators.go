package quiz

import (
	"context"
	"errors"

	"quizgate/models"

	"gorm.io/gorm"
)

// LessonCatalog lists the lessons that currently exist in a course.
type LessonCatalog interface {
	CurrentLessonIDs(ctx context.Context, courseID uint) ([]uint, error)
}

// AdminDirectory answers whether a user is an administrator.
type AdminDirectory interface {
	IsAdmin(ctx context.Context, userID uint) (bool, error)
}

// CertificateNotice is sent when a submission is certificate eligible.
type CertificateNotice struct {
	UserID            uint
	CourseID          uint
	CertificateNumber string
	Percentage        int
}

// Notifier delivers certificate notices. Delivery is best effort.
type Notifier interface {
	CertificateEarned(ctx context.Context, notice CertificateNotice) error
}

// DBLessonCatalog reads the local lessons table.
type DBLessonCatalog struct {
	DB *gorm.DB
}

func (c DBLessonCatalog) CurrentLessonIDs(ctx context.Context, courseID uint) ([]uint, error) {
	var ids []uint
	err := c.DB.WithContext(ctx).
		Model(&models.Lesson{}).
		Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc, id asc").
		Pluck("id", &ids).Error
	return ids, err
}

// DBAdminDirectory reads roles from the local users table.
type DBAdminDirectory struct {
	DB *gorm.DB
}

func (d DBAdminDirectory) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	var user models.User
	err := d.DB.WithContext(ctx).Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsAdmin(), nil
}

type nopNotifier struct{}

func (nopNotifier) CertificateEarned(context.Context, CertificateNotice) error { return nil }
