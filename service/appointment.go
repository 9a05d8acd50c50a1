package service

import (
	"context"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const appointmentOrder = "appointments.date ASC, appointments.time_of_day ASC"

// AppointmentInput is a validated create request. Time is "HH:MM".
type AppointmentInput struct {
	PatientID string
	Date      model.Date
	Time      string
	Duration  int
	Type      model.AppointmentType
	Status    model.AppointmentStatus
	Notes     string
}

type AppointmentUpdate struct {
	PatientID *string
	Date      *model.Date
	Time      *string
	Duration  *int
	Type      *model.AppointmentType
	Status    *model.AppointmentStatus
	Notes     *string
}

// AppointmentQuery filters a listing. Each bound of the date range applies
// on its own.
type AppointmentQuery struct {
	Date      *model.Date
	StartDate *model.Date
	EndDate   *model.Date
	PatientID string
	Status    model.AppointmentStatus
	scope.PageRequest
}

type AppointmentService struct {
	db *gorm.DB
}

func NewAppointmentService(db *gorm.DB) *AppointmentService {
	return &AppointmentService{db: db}
}

func withPatient(q *gorm.DB) *gorm.DB {
	return q.Preload("Patient")
}

func fillPatientNames(list []model.Appointment) {
	for i := range list {
		list[i].FillPatientName()
	}
}

func (s *AppointmentService) Create(ctx context.Context, doctorID string, in AppointmentInput) (*model.Appointment, error) {
	if err := scope.Verify(ctx, s.db, scope.Patients, in.PatientID, doctorID); err != nil {
		return nil, err
	}
	a := model.Appointment{
		PatientID: in.PatientID,
		DoctorID:  doctorID,
		Date:      in.Date,
		Time:      in.Time,
		Duration:  in.Duration,
		Type:      in.Type,
		Status:    in.Status,
		Notes:     in.Notes,
	}
	if a.Duration == 0 {
		a.Duration = model.DefaultAppointmentDuration
	}
	if a.Type == "" {
		a.Type = model.AppointmentCheckup
	}
	if a.Status == "" {
		a.Status = model.StatusScheduled
	}
	if err := s.db.WithContext(ctx).Create(&a).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, doctorID, a.ID)
}

func (s *AppointmentService) List(ctx context.Context, doctorID string, q AppointmentQuery) (scope.Page[model.Appointment], error) {
	query := scope.Apply(scope.Tenant(s.db, scope.Appointments, doctorID),
		scope.When(q.Date != nil, "appointments.date = ?", q.Date),
		scope.When(q.StartDate != nil, "appointments.date >= ?", q.StartDate),
		scope.When(q.EndDate != nil, "appointments.date <= ?", q.EndDate),
		scope.When(q.PatientID != "", "appointments.patient_id = ?", q.PatientID),
		scope.When(q.Status != "", "appointments.status = ?", q.Status),
	)
	page, err := scope.Paginate[model.Appointment](ctx, query, q.PageRequest, appointmentOrder, withPatient)
	if err != nil {
		return page, err
	}
	fillPatientNames(page.Data)
	return page, nil
}

// ListByPatient returns every appointment of one of the doctor's patients.
func (s *AppointmentService) ListByPatient(ctx context.Context, doctorID, patientID string) ([]model.Appointment, error) {
	if err := scope.Verify(ctx, s.db, scope.Patients, patientID, doctorID); err != nil {
		return nil, err
	}
	var out []model.Appointment
	err := scope.Tenant(s.db.WithContext(ctx), scope.Appointments, doctorID).
		Where("appointments.patient_id = ?", patientID).
		Preload("Patient").
		Order(appointmentOrder).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	fillPatientNames(out)
	return out, nil
}

// ListByDate returns the doctor's appointments on one calendar day.
func (s *AppointmentService) ListByDate(ctx context.Context, doctorID string, date model.Date) ([]model.Appointment, error) {
	var out []model.Appointment
	err := scope.Tenant(s.db.WithContext(ctx), scope.Appointments, doctorID).
		Where("appointments.date = ?", date).
		Preload("Patient").
		Order("appointments.time_of_day ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	fillPatientNames(out)
	return out, nil
}

func (s *AppointmentService) Get(ctx context.Context, doctorID, id string) (*model.Appointment, error) {
	a, err := scope.Find[model.Appointment](ctx, s.db, scope.Appointments, id, doctorID, withPatient)
	if err != nil {
		return nil, err
	}
	a.FillPatientName()
	return a, nil
}

// Update applies upd. Moving the appointment to another patient requires
// that patient to belong to the caller as well.
func (s *AppointmentService) Update(ctx context.Context, doctorID, id string, upd AppointmentUpdate) (*model.Appointment, error) {
	a, err := scope.Find[model.Appointment](ctx, s.db, scope.Appointments, id, doctorID)
	if err != nil {
		return nil, err
	}
	if upd.PatientID != nil && *upd.PatientID != a.PatientID {
		if err := scope.Verify(ctx, s.db, scope.Patients, *upd.PatientID, doctorID); err != nil {
			return nil, err
		}
		a.PatientID = *upd.PatientID
	}
	if upd.Date != nil {
		a.Date = *upd.Date
	}
	if upd.Time != nil {
		a.Time = *upd.Time
	}
	if upd.Duration != nil {
		a.Duration = *upd.Duration
	}
	if upd.Type != nil {
		a.Type = *upd.Type
	}
	if upd.Status != nil {
		a.Status = *upd.Status
	}
	if upd.Notes != nil {
		a.Notes = *upd.Notes
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(a).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, doctorID, id)
}

func (s *AppointmentService) Delete(ctx context.Context, doctorID, id string) error {
	if err := scope.Verify(ctx, s.db, scope.Appointments, id, doctorID); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id = ? AND doctor_id = ?", id, doctorID).Delete(&model.Appointment{}).Error
}
