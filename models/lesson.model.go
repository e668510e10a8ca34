package models

import "gorm.io/gorm"

// Lesson belongs to exactly one course. A deleted lesson (IsDeleted or soft
// deleted) is no longer part of the course's current lesson set.
type Lesson struct {
	gorm.Model
	CourseID   uint   `json:"course_id" gorm:"index;not null"`
	Title      string `json:"title"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsFree     bool   `json:"is_free" gorm:"default:false"`
	IsDeleted  bool   `json:"-" gorm:"default:false"`
}
