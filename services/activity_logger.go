package services

import (
	"github.com/tapptrak/admin-panel/models"
	"github.com/tapptrak/admin-panel/utils"
	"gorm.io/gorm"
)

// LogActivity appends an audit-trail entry. Failures are logged and swallowed
// so a broken audit table never takes down the request that triggered it.
func LogActivity(db *gorm.DB, userID uint, action, tableName string, recordID uint, ip string) {
	entry := models.ActivityLog{
		UserID:    userID,
		Action:    action,
		TableName: tableName,
		RecordID:  recordID,
		IPAddress: ip,
	}
	if err := db.Create(&entry).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to record activity %q for user %d: %v", action, userID, err)
	}
}
