package model

type AppointmentType string

const (
	AppointmentCheckup      AppointmentType = "checkup"
	AppointmentCleaning     AppointmentType = "cleaning"
	AppointmentProcedure    AppointmentType = "procedure"
	AppointmentConsultation AppointmentType = "consultation"
	AppointmentEmergency    AppointmentType = "emergency"
	AppointmentFollowUp     AppointmentType = "follow-up"
)

var AppointmentTypes = []AppointmentType{
	AppointmentCheckup, AppointmentCleaning, AppointmentProcedure,
	AppointmentConsultation, AppointmentEmergency, AppointmentFollowUp,
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no-show"
)

// Duration bounds in minutes.
const (
	MinAppointmentDuration     = 15
	MaxAppointmentDuration     = 180
	DefaultAppointmentDuration = 30
)

type Appointment struct {
	Base
	PatientID string            `json:"patientId" gorm:"type:char(36);index;not null"`
	DoctorID  string            `json:"doctorId" gorm:"type:char(36);index;not null"`
	Date      Date              `json:"date" gorm:"type:date;index;not null"`
	Time      string            `json:"time" gorm:"column:time_of_day;type:varchar(8);not null"`
	Duration  int               `json:"duration" gorm:"not null;default:30"`
	Type      AppointmentType   `json:"type" gorm:"type:varchar(32);not null;default:checkup"`
	Status    AppointmentStatus `json:"status" gorm:"type:varchar(32);not null;default:scheduled"`
	Notes     string            `json:"notes" gorm:"type:text"`
	Patient   *Patient          `json:"patient,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	// PatientName is filled in from Patient after loading.
	PatientName string `json:"patientName,omitempty" gorm:"-"`
}

// FillPatientName copies the loaded patient's name onto the appointment.
func (a *Appointment) FillPatientName() {
	if a.Patient != nil {
		a.PatientName = a.Patient.Name
	}
}
