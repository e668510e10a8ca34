package models

import "gorm.io/gorm"

// Course is owned by the course-management side; the quiz gate only reads it.
type Course struct {
	gorm.Model
	Title       string `json:"title"`
	Description string `json:"description"`
	IsFree      bool   `json:"is_free" gorm:"default:false"`
	IsDeleted   bool   `json:"-" gorm:"default:false"`
}
