package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientService_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	ctx := context.Background()
	doc := mustCreateDoctor(t, db, "a@docflow.com")

	dob := model.MustParseDate("1990-08-22")
	p, err := svc.Create(ctx, doc.ID, PatientInput{Name: "  Jane   Smith ", Email: "Jane@Example.com", Phone: "555", DateOfBirth: &dob})
	require.NoError(t, err)
	assert.Equal(t, "Jane Smith", p.Name)
	assert.Equal(t, "jane@example.com", p.Email)
	assert.Equal(t, doc.ID, p.DoctorID)

	mustCreateAppointment(t, db, *p, "2024-05-02", "10:00", model.StatusScheduled)
	mustCreateAppointment(t, db, *p, "2024-05-01", "09:00", model.StatusScheduled)
	r := mustCreateRecord(t, db, *p, "2024-04-01")
	require.NoError(t, db.Create(&model.MedicalRecordFile{MedicalRecordID: r.ID, OriginalName: "x.txt", MimeType: "text/plain", FileSize: 1, FileData: "eA=="}).Error)

	got, err := svc.Get(ctx, doc.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Appointments, 2)
	assert.Equal(t, "2024-05-01", got.Appointments[0].Date.String())
	require.Len(t, got.MedicalRecords, 1)
	require.Len(t, got.MedicalRecords[0].Files, 1)
	assert.Empty(t, got.MedicalRecords[0].Files[0].FileData)
	assert.Equal(t, "1990-08-22", got.DateOfBirth.String())
}

func TestPatientService_EmailIsGloballyUnique(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")

	_, err := svc.Create(ctx, a.ID, PatientInput{Name: "John", Email: "john@example.com", Phone: "1"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, b.ID, PatientInput{Name: "John", Email: "JOHN@example.com", Phone: "1"})
	assert.ErrorIs(t, err, ErrConflict)
	assert.EqualError(t, err, "Patient with this email already exists")
}

func TestPatientService_ListScopesSearchesAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		p := model.Patient{Name: fmt.Sprintf("Patient %02d", i), Email: fmt.Sprintf("p%d@example.com", i), Phone: fmt.Sprintf("555-%04d", i), DoctorID: a.ID}
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&p).Error)
	}
	mustCreatePatient(t, db, b.ID, "foreign@example.com")

	page, err := svc.List(ctx, a.ID, PatientQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	assert.Len(t, page.Data, 10)
	assert.Equal(t, "Patient 11", page.Data[0].Name)

	page, err = svc.List(ctx, a.ID, PatientQuery{PageRequest: scope.PageRequest{Page: 2, Limit: 10}})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)

	page, err = svc.List(ctx, a.ID, PatientQuery{Search: "PATIENT 0"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), page.Total)

	page, err = svc.List(ctx, a.ID, PatientQuery{Search: "555-0011"})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Patient 11", page.Data[0].Name)

	page, err = svc.List(ctx, a.ID, PatientQuery{Search: "foreign"})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestPatientService_CrossTenantLooksMissing(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	p := mustCreatePatient(t, db, a.ID, "john@example.com")

	_, err := svc.Get(ctx, b.ID, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, b.ID, p.ID, PatientUpdate{Name: strPtr("Hijacked")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, b.ID, p.ID), ErrNotFound)

	got, err := svc.Get(ctx, a.ID, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Name, got.Name)
}

func TestPatientService_Update(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	p := mustCreatePatient(t, db, a.ID, "john@example.com")
	mustCreatePatient(t, db, a.ID, "taken@example.com")

	got, err := svc.Update(ctx, a.ID, p.ID, PatientUpdate{Notes: strPtr("Allergic to latex"), Email: strPtr("john@example.com")})
	require.NoError(t, err)
	assert.Equal(t, "Allergic to latex", got.Notes)

	_, err = svc.Update(ctx, a.ID, p.ID, PatientUpdate{Email: strPtr("taken@example.com")})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestPatientService_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewPatientService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	p := mustCreatePatient(t, db, a.ID, "john@example.com")
	keep := mustCreatePatient(t, db, a.ID, "keep@example.com")

	mustCreateAppointment(t, db, p, "2024-05-01", "09:00", model.StatusScheduled)
	mustCreateAppointment(t, db, keep, "2024-05-01", "10:00", model.StatusScheduled)
	r := mustCreateRecord(t, db, p, "2024-04-01")
	require.NoError(t, db.Create(&model.MedicalRecordFile{MedicalRecordID: r.ID, OriginalName: "x.txt", MimeType: "text/plain", FileSize: 1, FileData: "eA=="}).Error)

	require.NoError(t, svc.Delete(ctx, a.ID, p.ID))

	var patients, appointments, records, files int64
	db.Model(&model.Patient{}).Count(&patients)
	db.Model(&model.Appointment{}).Count(&appointments)
	db.Model(&model.MedicalRecord{}).Count(&records)
	db.Model(&model.MedicalRecordFile{}).Count(&files)
	assert.Equal(t, int64(1), patients)
	assert.Equal(t, int64(1), appointments)
	assert.Zero(t, records)
	assert.Zero(t, files)

	assert.ErrorIs(t, svc.Delete(ctx, a.ID, p.ID), ErrNotFound)
}
