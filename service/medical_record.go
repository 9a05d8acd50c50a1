package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MedicalRecordInput struct {
	Date        model.Date
	Diagnosis   string
	Treatment   string
	Notes       string
	Attachments []string
}

type MedicalRecordUpdate struct {
	Date        *model.Date
	Diagnosis   *string
	Treatment   *string
	Notes       *string
	Attachments *[]string
}

type MedicalRecordService struct {
	db *gorm.DB
}

func NewMedicalRecordService(db *gorm.DB) *MedicalRecordService {
	return &MedicalRecordService{db: db}
}

func attachments(in []string) datatypes.JSONSlice[string] {
	if in == nil {
		return datatypes.JSONSlice[string]{}
	}
	return datatypes.JSONSlice[string](in)
}

func checkDiagnosis(d string) error {
	if utf8.RuneCountInString(d) > model.MaxDiagnosisLength {
		return validationf("diagnosis must be at most %d characters", model.MaxDiagnosisLength)
	}
	return nil
}

// Create adds a record for one of the doctor's patients.
func (s *MedicalRecordService) Create(ctx context.Context, doctorID, patientID string, in MedicalRecordInput) (*model.MedicalRecord, error) {
	if err := checkDiagnosis(in.Diagnosis); err != nil {
		return nil, err
	}
	if err := scope.Verify(ctx, s.db, scope.Patients, patientID, doctorID); err != nil {
		return nil, err
	}
	r := model.MedicalRecord{
		PatientID:   patientID,
		DoctorID:    doctorID,
		Date:        in.Date,
		Diagnosis:   in.Diagnosis,
		Treatment:   in.Treatment,
		Notes:       in.Notes,
		Attachments: attachments(in.Attachments),
	}
	if err := s.db.WithContext(ctx).Create(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// ListByPatient returns the patient's records newest first, each with its
// file metadata.
func (s *MedicalRecordService) ListByPatient(ctx context.Context, doctorID, patientID string) ([]model.MedicalRecord, error) {
	if err := scope.Verify(ctx, s.db, scope.Patients, patientID, doctorID); err != nil {
		return nil, err
	}
	out := []model.MedicalRecord{}
	err := scope.Tenant(s.db.WithContext(ctx), scope.MedicalRecords, doctorID).
		Where("medical_records.patient_id = ?", patientID).
		Preload("Files", fileMetadata).
		Order("medical_records.date DESC").
		Find(&out).Error
	return out, err
}

func (s *MedicalRecordService) Get(ctx context.Context, doctorID, id string) (*model.MedicalRecord, error) {
	return scope.Find[model.MedicalRecord](ctx, s.db, scope.MedicalRecords, id, doctorID, func(q *gorm.DB) *gorm.DB {
		return q.Preload("Patient").Preload("Files", fileMetadata)
	})
}

func (s *MedicalRecordService) Update(ctx context.Context, doctorID, id string, upd MedicalRecordUpdate) (*model.MedicalRecord, error) {
	r, err := scope.Find[model.MedicalRecord](ctx, s.db, scope.MedicalRecords, id, doctorID)
	if err != nil {
		return nil, err
	}
	if upd.Diagnosis != nil {
		if err := checkDiagnosis(*upd.Diagnosis); err != nil {
			return nil, err
		}
		r.Diagnosis = *upd.Diagnosis
	}
	if upd.Date != nil {
		r.Date = *upd.Date
	}
	if upd.Treatment != nil {
		r.Treatment = *upd.Treatment
	}
	if upd.Notes != nil {
		r.Notes = *upd.Notes
	}
	if upd.Attachments != nil {
		r.Attachments = attachments(*upd.Attachments)
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(r).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, doctorID, id)
}

// Delete removes the record and its files.
func (s *MedicalRecordService) Delete(ctx context.Context, doctorID, id string) error {
	if err := scope.Verify(ctx, s.db, scope.MedicalRecords, id, doctorID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medical_record_id = ?", id).Delete(&model.MedicalRecordFile{}).Error; err != nil {
			return fmt.Errorf("delete record files: %w", err)
		}
		return tx.Where("id = ? AND doctor_id = ?", id, doctorID).Delete(&model.MedicalRecord{}).Error
	})
}
