package model

import "time"

type Provider string

const (
	ProviderEmail    Provider = "email"
	ProviderGoogle   Provider = "google"
	ProviderFacebook Provider = "facebook"
)

type Role string

const (
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

// User is a doctor account. Every tenant-owned row points back at one via
// its doctor_id column.
type User struct {
	Base
	Name            string     `json:"name" gorm:"type:varchar(255);not null"`
	Email           string     `json:"email" gorm:"type:varchar(191);uniqueIndex;not null"`
	Password        *string    `json:"-" gorm:"type:varchar(255)"`
	Phone           string     `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Specialization  string     `json:"specialization,omitempty" gorm:"type:varchar(255)"`
	LicenseNumber   string     `json:"licenseNumber,omitempty" gorm:"type:varchar(100)"`
	ProfilePhoto    string     `json:"profilePhoto,omitempty" gorm:"type:text"`
	GoogleID        *string    `json:"-" gorm:"type:varchar(191);uniqueIndex"`
	FacebookID      *string    `json:"-" gorm:"type:varchar(191);uniqueIndex"`
	Provider        Provider   `json:"provider" gorm:"type:varchar(16);not null;default:email"`
	Role            Role       `json:"role" gorm:"type:varchar(16);not null;default:doctor"`
	IsActive        bool       `json:"isActive" gorm:"not null"`
	IsEmailVerified bool       `json:"isEmailVerified" gorm:"not null;default:false"`
	FailedAttempts  int        `json:"-" gorm:"not null;default:0"`
	LockedUntil     *time.Time `json:"-"`
}

func (u *User) HasPassword() bool {
	return u.Password != nil && *u.Password != ""
}

func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}

// Session is one issued login token. The row outlives a Redis flush, so the
// token check can fall back to it.
type Session struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"type:char(36);index;not null"`
	TokenID   string    `json:"-" gorm:"type:char(36);uniqueIndex;not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index;not null"`
	ClientIP  string    `json:"clientIp" gorm:"type:varchar(45)"`
	Browser   string    `json:"browser" gorm:"type:varchar(512)"`
	CreatedAt time.Time `json:"createdAt"`
}
