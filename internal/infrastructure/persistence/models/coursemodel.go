package models

import (
	"time"

	"gorm.io/datatypes"
)

// CourseModel represents the database persistence model for courses.
// Keywords holds a JSON array of lowercase match terms for the fuzzy
// resolver fallback.
type CourseModel struct {
	ID         uint           `gorm:"primarykey"`
	CourseCode string         `gorm:"size:8;uniqueIndex;not null"`
	CourseName string         `gorm:"size:255;not null"`
	Keywords   datatypes.JSON `gorm:"type:json"`
	CreatedAt  time.Time
}

// TableName specifies the table name for GORM
func (CourseModel) TableName() string {
	return "courses"
}

// SemesterModel is one semester row per (course, number) pair; its id feeds
// the current_sem_db profile field.
type SemesterModel struct {
	ID             uint `gorm:"primarykey"`
	CourseID       uint `gorm:"not null;uniqueIndex:idx_course_semester"`
	SemesterNumber int  `gorm:"not null;uniqueIndex:idx_course_semester"`
	CreatedAt      time.Time
}

// TableName specifies the table name for GORM
func (SemesterModel) TableName() string {
	return "semesters"
}
