package handlers

import (
	"time"

	"gorm.io/gorm"

	"talktracker/internal/models"
)

// recordAudit writes an audit entry best-effort; audit failures never block
// the request that triggered them.
func recordAudit(db *gorm.DB, userID uint, action string, meta map[string]any) {
	var uid *uint
	if userID != 0 {
		uid = &userID
	}
	_ = db.Create(&models.AuditLog{
		UserID:    uid,
		Action:    action,
		Metadata:  models.Meta(meta),
		CreatedAt: time.Now(),
	}).Error
}
