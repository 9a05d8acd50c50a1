package model

import (
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedPatient struct {
	name, email, phone, dob, address, notes string
}

var demoDoctors = []User{
	{Name: "Dr. Sarah Johnson", Email: "sarah.johnson@docflow.com", Phone: "+1-555-0101", Specialization: "General Dentistry", LicenseNumber: "DEN-2020-1234", Role: RoleAdmin},
	{Name: "Dr. Michael Chen", Email: "michael.chen@docflow.com", Phone: "+1-555-0102", Specialization: "Orthodontics", LicenseNumber: "ORTH-2019-5678", Role: RoleDoctor},
	{Name: "Dr. Emily Rodriguez", Email: "emily.rodriguez@docflow.com", Phone: "+1-555-0103", Specialization: "Pediatric Dentistry", LicenseNumber: "PED-2021-9012", Role: RoleDoctor},
	{Name: "Dr. James Wilson", Email: "james.wilson@docflow.com", Phone: "+1-555-0104", Specialization: "Oral Surgery", LicenseNumber: "OS-2018-3456", Role: RoleDoctor},
}

var demoPatients = []seedPatient{
	{"John Doe", "john.doe@example.com", "+1-555-0201", "1985-05-15", "123 Main St, New York, NY 10001", "Regular patient, prefers morning appointments"},
	{"Jane Smith", "jane.smith@example.com", "+1-555-0202", "1990-08-22", "456 Oak Ave, Los Angeles, CA 90001", "Allergic to penicillin"},
	{"Robert Johnson", "robert.johnson@example.com", "+1-555-0203", "1978-12-10", "789 Pine Rd, Chicago, IL 60601", "High blood pressure, monitor regularly"},
	{"Emily Davis", "emily.davis@example.com", "+1-555-0204", "1995-03-18", "321 Elm St, Houston, TX 77001", "New patient, first visit scheduled"},
	{"Michael Brown", "michael.brown@example.com", "+1-555-0205", "1982-07-25", "654 Maple Dr, Phoenix, AZ 85001", "Prefers afternoon appointments"},
	{"Sarah Wilson", "sarah.wilson@example.com", "+1-555-0206", "1988-11-30", "987 Cedar Ln, Philadelphia, PA 19101", "Follow-up required after last visit"},
	{"David Martinez", "david.martinez@example.com", "+1-555-0207", "1992-02-14", "147 Birch Way, San Antonio, TX 78201", "Regular checkups every 6 months"},
	{"Lisa Anderson", "lisa.anderson@example.com", "+1-555-0208", "1987-09-05", "258 Spruce Ct, San Diego, CA 92101", "Insurance: Blue Cross Blue Shield"},
}

// SeedDemoData fills an empty database with demo doctors and a practice's
// worth of patients, appointments, records and notifications spread across
// them. passwordHash is stored for every doctor. It reports false without
// writing anything when users already exist.
func SeedDemoData(db *gorm.DB, passwordHash string, today Date) (bool, error) {
	var count int64
	if err := db.Model(&User{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		doctors := make([]User, len(demoDoctors))
		for i, d := range demoDoctors {
			d.Password = &passwordHash
			d.Provider = ProviderEmail
			d.IsActive = true
			d.IsEmailVerified = true
			if err := tx.Create(&d).Error; err != nil {
				return fmt.Errorf("seed user %s: %w", d.Email, err)
			}
			doctors[i] = d
		}

		for i, sp := range demoPatients {
			doctor := doctors[i%len(doctors)]
			dob := MustParseDate(sp.dob)
			p := Patient{Name: sp.name, Email: sp.email, Phone: sp.phone, DateOfBirth: &dob, Address: sp.address, Notes: sp.notes, DoctorID: doctor.ID}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("seed patient %s: %w", sp.email, err)
			}
			if err := seedPatientHistory(tx, p, today, i); err != nil {
				return err
			}
		}

		for _, d := range doctors {
			if err := seedNotifications(tx, d.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

var demoTypes = []AppointmentType{AppointmentCheckup, AppointmentCleaning, AppointmentProcedure, AppointmentConsultation, AppointmentFollowUp, AppointmentEmergency}

func seedPatientHistory(tx *gorm.DB, p Patient, today Date, i int) error {
	appointments := []Appointment{
		{PatientID: p.ID, DoctorID: p.DoctorID, Date: today.AddDays(i % 3), Time: fmt.Sprintf("%02d:%02d", 9+i%8, (i%2)*30), Duration: 30 + 15*(i%3), Type: demoTypes[i%len(demoTypes)], Status: StatusScheduled, Notes: "Upcoming visit"},
		{PatientID: p.ID, DoctorID: p.DoctorID, Date: today.AddDays(-14 - i), Time: "10:00", Duration: DefaultAppointmentDuration, Type: AppointmentCheckup, Status: StatusCompleted, Notes: "Routine checkup completed"},
	}
	if err := tx.Create(&appointments).Error; err != nil {
		return fmt.Errorf("seed appointments for %s: %w", p.Email, err)
	}

	record := MedicalRecord{
		PatientID:   p.ID,
		DoctorID:    p.DoctorID,
		Date:        today.AddDays(-14 - i),
		Diagnosis:   "Routine examination",
		Treatment:   "Cleaning and fluoride treatment",
		Notes:       "No issues found",
		Attachments: datatypes.JSONSlice[string]{},
	}
	if err := tx.Create(&record).Error; err != nil {
		return fmt.Errorf("seed medical record for %s: %w", p.Email, err)
	}
	return nil
}

func seedNotifications(tx *gorm.DB, doctorID string) error {
	now := time.Now()
	notifications := []Notification{
		{Title: "Appointment Reminder", Message: "You have appointments scheduled for today.", Type: NotificationReminder, DoctorID: &doctorID, CreatedAt: now.Add(-2 * time.Hour)},
		{Title: "Follow-up Required", Message: "A patient is due for a follow-up visit this week.", Type: NotificationAppointment, DoctorID: &doctorID, CreatedAt: now.Add(-time.Hour)},
		{Title: "Records Updated", Message: "Medical records were synchronized successfully.", Type: NotificationInfo, Read: true, DoctorID: &doctorID, CreatedAt: now},
	}
	if err := tx.Create(&notifications).Error; err != nil {
		return fmt.Errorf("seed notifications: %w", err)
	}
	return nil
}
