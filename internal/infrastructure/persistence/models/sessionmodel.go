package models

import "time"

// SessionModel represents the database persistence model for sessions.
// The composite unique index on (user_id, device_id) is what makes the
// upsert atomic: at most one live session per user per device.
type SessionModel struct {
	ID            uint      `gorm:"primarykey"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_device"`
	DeviceID      string    `gorm:"size:64;not null;uniqueIndex:idx_user_device"`
	AccessToken   string    `gorm:"type:text"`
	RefreshToken  string    `gorm:"type:text"`
	ExpiresAt     time.Time `gorm:"not null;index"`
	LastRefreshed time.Time `gorm:"not null"`
	CreatedAt     time.Time
}

// TableName specifies the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}
