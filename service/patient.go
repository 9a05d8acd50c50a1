package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/ariebrainware/docflow-schedule/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const patientEmailTaken = "Patient with this email already exists"

type PatientInput struct {
	Name        string
	Email       string
	Phone       string
	DateOfBirth *model.Date
	Address     string
	Notes       string
}

// PatientUpdate holds the fields to change; nil leaves a field as is.
type PatientUpdate struct {
	Name        *string
	Email       *string
	Phone       *string
	DateOfBirth *model.Date
	Address     *string
	Notes       *string
}

type PatientQuery struct {
	Search string
	scope.PageRequest
}

type PatientService struct {
	db *gorm.DB
}

func NewPatientService(db *gorm.DB) *PatientService {
	return &PatientService{db: db}
}

func (s *PatientService) Create(ctx context.Context, doctorID string, in PatientInput) (*model.Patient, error) {
	email := util.NormalizeEmail(in.Email)
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	p := model.Patient{
		Name:        util.NormalizeName(in.Name),
		Email:       email,
		Phone:       strings.TrimSpace(in.Phone),
		DateOfBirth: in.DateOfBirth,
		Address:     in.Address,
		Notes:       in.Notes,
		DoctorID:    doctorID,
	}
	if err := s.db.WithContext(ctx).Create(&p).Error; err != nil {
		return nil, uniqueViolation(err, patientEmailTaken)
	}
	return &p, nil
}

// List returns the doctor's patients newest first. Search matches name,
// email or phone case-insensitively.
func (s *PatientService) List(ctx context.Context, doctorID string, q PatientQuery) (scope.Page[model.Patient], error) {
	query := scope.Tenant(s.db, scope.Patients, doctorID)
	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		query = query.Where("(LOWER(patients.name) LIKE ? OR LOWER(patients.email) LIKE ? OR LOWER(patients.phone) LIKE ?)", like, like, like)
	}
	return scope.Paginate[model.Patient](ctx, query, q.PageRequest, "patients.created_at DESC")
}

// Get loads a patient with their appointments and their medical records,
// including file metadata.
func (s *PatientService) Get(ctx context.Context, doctorID, id string) (*model.Patient, error) {
	return scope.Find[model.Patient](ctx, s.db, scope.Patients, id, doctorID, func(q *gorm.DB) *gorm.DB {
		return q.
			Preload("Appointments", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("appointments.date ASC, appointments.time_of_day ASC")
			}).
			Preload("MedicalRecords", func(tx *gorm.DB) *gorm.DB {
				return tx.Order("medical_records.date DESC")
			}).
			Preload("MedicalRecords.Files", fileMetadata)
	})
}

func (s *PatientService) Update(ctx context.Context, doctorID, id string, upd PatientUpdate) (*model.Patient, error) {
	p, err := scope.Find[model.Patient](ctx, s.db, scope.Patients, id, doctorID)
	if err != nil {
		return nil, err
	}
	if upd.Email != nil {
		email := util.NormalizeEmail(*upd.Email)
		if email != p.Email {
			if err := s.ensureEmailFree(ctx, email, p.ID); err != nil {
				return nil, err
			}
			p.Email = email
		}
	}
	if upd.Name != nil {
		p.Name = util.NormalizeName(*upd.Name)
	}
	if upd.Phone != nil {
		p.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.DateOfBirth != nil {
		p.DateOfBirth = upd.DateOfBirth
	}
	if upd.Address != nil {
		p.Address = *upd.Address
	}
	if upd.Notes != nil {
		p.Notes = *upd.Notes
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return nil, uniqueViolation(err, patientEmailTaken)
	}
	return p, nil
}

// Delete removes the patient together with their appointments, medical
// records and those records' files.
func (s *PatientService) Delete(ctx context.Context, doctorID, id string) error {
	if err := scope.Verify(ctx, s.db, scope.Patients, id, doctorID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		records := tx.Model(&model.MedicalRecord{}).Select("id").Where("patient_id = ?", id)
		if err := tx.Where("medical_record_id IN (?)", records).Delete(&model.MedicalRecordFile{}).Error; err != nil {
			return fmt.Errorf("delete patient files: %w", err)
		}
		if err := tx.Where("patient_id = ?", id).Delete(&model.MedicalRecord{}).Error; err != nil {
			return fmt.Errorf("delete patient records: %w", err)
		}
		if err := tx.Where("patient_id = ?", id).Delete(&model.Appointment{}).Error; err != nil {
			return fmt.Errorf("delete patient appointments: %w", err)
		}
		return tx.Where("id = ? AND doctor_id = ?", id, doctorID).Delete(&model.Patient{}).Error
	})
}

// ensureEmailFree checks the email against every patient in the system, not
// only the caller's, since the column is unique across tenants.
func (s *PatientService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	var existing struct{ ID string }
	err := s.db.WithContext(ctx).Table("patients").Select("id").Where("email = ?", email).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == exceptID {
		return nil
	}
	return conflictf(patientEmailTaken)
}

func fileMetadata(tx *gorm.DB) *gorm.DB {
	return tx.Select(model.FileMetadataColumns).Order("uploaded_at DESC")
}
