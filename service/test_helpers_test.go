package service

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	util.SetPasswordParams(util.PasswordParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	util.SetJWTSecret("service-test-secret")
	os.Exit(m.Run())
}

// setupTestDB opens a uniquely named in-memory SQLite database with the full
// schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_service_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func mustCreateDoctor(t *testing.T, db *gorm.DB, email string) model.User {
	t.Helper()
	u := model.User{Name: "Dr. " + email, Email: email, Role: model.RoleDoctor, Provider: model.ProviderEmail, IsActive: true}
	require.NoError(t, db.Create(&u).Error)
	return u
}

func mustCreatePatient(t *testing.T, db *gorm.DB, doctorID, email string) model.Patient {
	t.Helper()
	p := model.Patient{Name: "Patient " + email, Email: email, Phone: "+1-555-0100", DoctorID: doctorID}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func mustCreateAppointment(t *testing.T, db *gorm.DB, p model.Patient, date, at string, status model.AppointmentStatus) model.Appointment {
	t.Helper()
	a := model.Appointment{PatientID: p.ID, DoctorID: p.DoctorID, Date: model.MustParseDate(date), Time: at, Duration: 30, Type: model.AppointmentCheckup, Status: status}
	require.NoError(t, db.Create(&a).Error)
	return a
}

func mustCreateRecord(t *testing.T, db *gorm.DB, p model.Patient, date string) model.MedicalRecord {
	t.Helper()
	r := model.MedicalRecord{PatientID: p.ID, DoctorID: p.DoctorID, Date: model.MustParseDate(date), Diagnosis: "Caries", Treatment: "Filling"}
	require.NoError(t, db.Create(&r).Error)
	return r
}

func strPtr(s string) *string { return &s }
