package service

import (
	"context"
	"testing"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentService_CreateAppliesDefaults(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db)
	ctx := context.Background()
	doc := mustCreateDoctor(t, db, "a@docflow.com")
	p := mustCreatePatient(t, db, doc.ID, "john@example.com")

	a, err := svc.Create(ctx, doc.ID, AppointmentInput{PatientID: p.ID, Date: model.MustParseDate("2024-05-01"), Time: "09:30"})
	require.NoError(t, err)
	assert.Equal(t, doc.ID, a.DoctorID)
	assert.Equal(t, model.DefaultAppointmentDuration, a.Duration)
	assert.Equal(t, model.AppointmentCheckup, a.Type)
	assert.Equal(t, model.StatusScheduled, a.Status)
	assert.Equal(t, p.Name, a.PatientName)
	assert.Equal(t, "2024-05-01", a.Date.String())
	assert.Equal(t, "09:30", a.Time)
}

func TestAppointmentService_ForeignPatientIsRejected(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	foreign := mustCreatePatient(t, db, b.ID, "other@example.com")

	_, err := svc.Create(ctx, a.ID, AppointmentInput{PatientID: foreign.ID, Date: model.MustParseDate("2024-05-01"), Time: "09:00"})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Patient with ID "+foreign.ID+" not found")

	var count int64
	db.Model(&model.Appointment{}).Count(&count)
	assert.Zero(t, count)
}

func TestAppointmentService_UpdateReverifiesPatient(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	own := mustCreatePatient(t, db, a.ID, "mine@example.com")
	second := mustCreatePatient(t, db, a.ID, "second@example.com")
	foreign := mustCreatePatient(t, db, b.ID, "other@example.com")
	appt := mustCreateAppointment(t, db, own, "2024-05-01", "09:00", model.StatusScheduled)

	_, err := svc.Update(ctx, a.ID, appt.ID, AppointmentUpdate{PatientID: &foreign.ID})
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := svc.Get(ctx, a.ID, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, own.ID, stored.PatientID)

	status := model.StatusConfirmed
	got, err := svc.Update(ctx, a.ID, appt.ID, AppointmentUpdate{PatientID: &second.ID, Status: &status})
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.PatientID)
	assert.Equal(t, second.Name, got.PatientName)
	assert.Equal(t, model.StatusConfirmed, got.Status)
}

func TestAppointmentService_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	p1 := mustCreatePatient(t, db, a.ID, "one@example.com")
	p2 := mustCreatePatient(t, db, a.ID, "two@example.com")
	foreign := mustCreatePatient(t, db, b.ID, "other@example.com")

	mustCreateAppointment(t, db, p1, "2024-05-01", "11:00", model.StatusScheduled)
	mustCreateAppointment(t, db, p1, "2024-05-01", "09:00", model.StatusCompleted)
	mustCreateAppointment(t, db, p2, "2024-05-03", "10:00", model.StatusScheduled)
	mustCreateAppointment(t, db, p2, "2024-05-10", "10:00", model.StatusCancelled)
	mustCreateAppointment(t, db, foreign, "2024-05-01", "08:00", model.StatusScheduled)

	page, err := svc.List(ctx, a.ID, AppointmentQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	require.Len(t, page.Data, 4)
	assert.Equal(t, "09:00", page.Data[0].Time)
	assert.Equal(t, "11:00", page.Data[1].Time)
	assert.Equal(t, p1.Name, page.Data[0].PatientName)

	day := model.MustParseDate("2024-05-01")
	page, err = svc.List(ctx, a.ID, AppointmentQuery{Date: &day})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	start := model.MustParseDate("2024-05-02")
	page, err = svc.List(ctx, a.ID, AppointmentQuery{StartDate: &start})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	end := model.MustParseDate("2024-05-03")
	page, err = svc.List(ctx, a.ID, AppointmentQuery{EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)

	page, err = svc.List(ctx, a.ID, AppointmentQuery{PatientID: p2.ID, Status: model.StatusScheduled})
	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "2024-05-03", page.Data[0].Date.String())

	page, err = svc.List(ctx, a.ID, AppointmentQuery{PatientID: foreign.ID})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestAppointmentService_ListByPatientAndDate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	p := mustCreatePatient(t, db, a.ID, "one@example.com")
	foreign := mustCreatePatient(t, db, b.ID, "other@example.com")
	mustCreateAppointment(t, db, p, "2024-05-02", "10:00", model.StatusScheduled)
	mustCreateAppointment(t, db, p, "2024-05-01", "10:00", model.StatusScheduled)
	mustCreateAppointment(t, db, foreign, "2024-05-01", "07:00", model.StatusScheduled)

	list, err := svc.ListByPatient(ctx, a.ID, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-05-01", list[0].Date.String())

	_, err = svc.ListByPatient(ctx, a.ID, foreign.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = svc.ListByDate(ctx, a.ID, model.MustParseDate("2024-05-01"))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, p.ID, list[0].PatientID)

	list, err = svc.ListByDate(ctx, a.ID, model.MustParseDate("2024-06-01"))
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestAppointmentService_DeleteScoped(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAppointmentService(db)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	p := mustCreatePatient(t, db, a.ID, "one@example.com")
	appt := mustCreateAppointment(t, db, p, "2024-05-01", "10:00", model.StatusScheduled)

	assert.ErrorIs(t, svc.Delete(ctx, b.ID, appt.ID), ErrNotFound)
	_, err := svc.Get(ctx, a.ID, appt.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, a.ID, appt.ID))
	_, err = svc.Get(ctx, a.ID, appt.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
