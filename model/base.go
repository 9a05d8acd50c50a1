package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every tenant-owned row.
type Base struct {
	ID        string    `json:"id" gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// IsValidID reports whether s looks like an identifier issued by this service.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// All returns every persisted model in dependency order, for migrations.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Session{},
		&Patient{},
		&Appointment{},
		&MedicalRecord{},
		&MedicalRecordFile{},
		&Notification{},
		&SecurityLog{},
	}
}
