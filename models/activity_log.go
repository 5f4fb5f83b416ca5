package models

import "time"

// ActivityLog records panel and API actions (login, logout, check-ins) for
// the audit trail. Best-effort: writing it must never fail a request.
type ActivityLog struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;index"`
	Action    string    `gorm:"type:varchar(50);not null"`
	TableName string    `gorm:"type:varchar(50);not null"`
	RecordID  uint      `gorm:"not null"`
	IPAddress string    `gorm:"type:varchar(45)"`
	CreatedAt time.Time `gorm:"not null"`
}
