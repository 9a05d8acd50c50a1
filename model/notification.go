package model

import (
	"time"

	"gorm.io/gorm"
)

type NotificationType string

const (
	NotificationAppointment NotificationType = "appointment"
	NotificationReminder    NotificationType = "reminder"
	NotificationAlert       NotificationType = "alert"
	NotificationInfo        NotificationType = "info"
)

const MaxNotificationTitleLength = 255

type Notification struct {
	ID        string           `json:"id" gorm:"type:char(36);primaryKey"`
	Title     string           `json:"title" gorm:"type:varchar(255);not null"`
	Message   string           `json:"message" gorm:"type:text;not null"`
	Type      NotificationType `json:"type" gorm:"type:varchar(16);not null;default:info"`
	Read      bool             `json:"read" gorm:"column:is_read;not null;default:false;index"`
	DoctorID  *string          `json:"doctorId" gorm:"type:char(36);index"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = newID()
	}
	return nil
}
