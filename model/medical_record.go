package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MaxDiagnosisLength = 500

type MedicalRecord struct {
	Base
	PatientID   string                      `json:"patientId" gorm:"type:char(36);index;not null"`
	DoctorID    string                      `json:"doctorId" gorm:"type:char(36);index;not null"`
	Date        Date                        `json:"date" gorm:"type:date;index;not null"`
	Diagnosis   string                      `json:"diagnosis" gorm:"type:varchar(500);not null"`
	Treatment   string                      `json:"treatment" gorm:"type:text;not null"`
	Notes       string                      `json:"notes" gorm:"type:text"`
	Attachments datatypes.JSONSlice[string] `json:"attachments"`
	Patient     *Patient                    `json:"patient,omitempty"`
	Files       []MedicalRecordFile         `json:"files,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// MedicalRecordFile holds an uploaded attachment. The content is kept as
// base64 text in the row and never serialized with the metadata.
type MedicalRecordFile struct {
	ID              string    `json:"id" gorm:"type:char(36);primaryKey"`
	MedicalRecordID string    `json:"medicalRecordId" gorm:"type:char(36);index;not null"`
	OriginalName    string    `json:"originalName" gorm:"type:varchar(255);not null"`
	MimeType        string    `json:"mimeType" gorm:"type:varchar(100);not null"`
	FileSize        int64     `json:"fileSize" gorm:"not null"`
	FileData        string    `json:"-" gorm:"size:20000000;not null"`
	UploadedAt      time.Time `json:"uploadedAt" gorm:"autoCreateTime;index"`
}

func (f *MedicalRecordFile) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = newID()
	}
	return nil
}

// FileMetadataColumns lists every file column except the content.
var FileMetadataColumns = []string{"id", "medical_record_id", "original_name", "mime_type", "file_size", "uploaded_at"}
