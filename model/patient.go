package model

type Patient struct {
	Base
	Name           string          `json:"name" gorm:"type:varchar(255);not null"`
	Email          string          `json:"email" gorm:"type:varchar(191);uniqueIndex;not null"`
	Phone          string          `json:"phone" gorm:"type:varchar(50);not null"`
	DateOfBirth    *Date           `json:"dateOfBirth" gorm:"type:date"`
	Address        string          `json:"address" gorm:"type:text"`
	Notes          string          `json:"notes" gorm:"type:text"`
	DoctorID       string          `json:"doctorId" gorm:"type:char(36);index;not null"`
	Appointments   []Appointment   `json:"appointments,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	MedicalRecords []MedicalRecord `json:"medicalRecords,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}
