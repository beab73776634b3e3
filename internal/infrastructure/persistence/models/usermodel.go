package models

import "time"

// UserModel represents the database persistence model for users. Shadow
// users are never persisted and have no model.
type UserModel struct {
	ID              uint   `gorm:"primarykey"`
	CollegeID       string `gorm:"size:32;uniqueIndex;not null"`
	CourseID        *uint  `gorm:"index"`
	CurrentSemester int    `gorm:"not null;default:1"`
	IsAdmin         bool   `gorm:"not null;default:false"`
	CreatedAt       time.Time
	LastLoginAt     time.Time
}

// TableName specifies the table name for GORM
func (UserModel) TableName() string {
	return "users"
}
