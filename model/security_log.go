package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityLog is one audited event. Rows are append-only; nothing in the API
// updates or exposes them.
type SecurityLog struct {
	gorm.Model
	EventType string `json:"eventType" gorm:"column:event_type;type:varchar(64);index"`
	UserID    string `json:"userId" gorm:"column:user_id;type:varchar(64);index"`
	Email     string `json:"email" gorm:"column:email;type:varchar(191)"`
	IP        string `json:"ip" gorm:"column:ip;type:varchar(45)"`
	Location  string `json:"location" gorm:"column:location;type:varchar(255)"`
	UserAgent string `json:"userAgent" gorm:"column:user_agent;type:varchar(512)"`
	Method    string `json:"method,omitempty" gorm:"column:method;type:varchar(8)"`
	Path      string `json:"path" gorm:"column:path;type:varchar(255)"`
	// Status is the HTTP response code for endpoint calls, 0 otherwise.
	Status  int            `json:"status,omitempty" gorm:"column:status"`
	Message string         `json:"message" gorm:"column:message;type:text"`
	Details datatypes.JSON `json:"details" gorm:"column:details;type:json"`
}

// PurgeSecurityLogs hard-deletes events created before cutoff and returns
// how many rows went.
func PurgeSecurityLogs(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Unscoped().Where("created_at < ?", cutoff).Delete(&SecurityLog{})
	return res.RowsAffected, res.Error
}
