package service

import (
	"context"
	"testing"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWindow(t *testing.T) {
	// Wednesday.
	now := time.Date(2024, time.May, 15, 23, 59, 0, 0, time.Local)

	w := NewWindow(now, time.Sunday)
	assert.Equal(t, "2024-05-15", w.Today.String())
	assert.Equal(t, "2024-05-12", w.WeekStart.String())
	assert.Equal(t, "2024-05-18", w.WeekEnd.String())

	w = NewWindow(now, time.Monday)
	assert.Equal(t, "2024-05-13", w.WeekStart.String())
	assert.Equal(t, "2024-05-19", w.WeekEnd.String())

	sunday := time.Date(2024, time.May, 12, 0, 0, 0, 0, time.Local)
	w = NewWindow(sunday, time.Sunday)
	assert.Equal(t, "2024-05-12", w.WeekStart.String())
}

func TestDashboardService_Stats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	p := mustCreatePatient(t, db, a.ID, "one@example.com")
	mustCreatePatient(t, db, a.ID, "two@example.com")
	foreign := mustCreatePatient(t, db, b.ID, "other@example.com")

	mustCreateAppointment(t, db, p, "2024-05-15", "23:59", model.StatusScheduled)
	mustCreateAppointment(t, db, p, "2024-05-12", "08:00", model.StatusCompleted)
	mustCreateAppointment(t, db, p, "2024-05-18", "23:59", model.StatusConfirmed)
	mustCreateAppointment(t, db, p, "2024-05-19", "09:00", model.StatusScheduled)
	mustCreateAppointment(t, db, p, "2024-05-11", "09:00", model.StatusScheduled)
	mustCreateAppointment(t, db, p, "2024-05-16", "09:00", model.StatusCancelled)
	mustCreateAppointment(t, db, foreign, "2024-05-15", "10:00", model.StatusScheduled)

	clock := func() time.Time { return time.Date(2024, time.May, 15, 8, 0, 0, 0, time.Local) }
	stats, err := NewDashboardService(db).WithClock(clock).Stats(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{
		TodayAppointments: 1,
		WeekAppointments:  4,
		TotalPatients:     2,
		PendingFollowUps:  3,
	}, stats)

	stats, err = NewDashboardService(db).WithClock(clock).Stats(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, DashboardStats{TodayAppointments: 1, WeekAppointments: 1, TotalPatients: 1, PendingFollowUps: 1}, stats)
}

func TestDashboardService_EndOfDayInNonUTCZone(t *testing.T) {
	db := setupTestDB(t)
	doc := mustCreateDoctor(t, db, "tokyo@docflow.com")
	p := mustCreatePatient(t, db, doc.ID, "early@example.com")
	mustCreateAppointment(t, db, p, "2024-05-15", "00:05", model.StatusScheduled)
	mustCreateAppointment(t, db, p, "2024-05-16", "00:05", model.StatusScheduled)

	// 23:59:59 in Tokyo is still the morning of the same day in UTC and the
	// previous afternoon in Los Angeles; only the clock's own calendar day counts.
	tokyo := time.FixedZone("JST", 9*60*60)
	clock := func() time.Time { return time.Date(2024, time.May, 15, 23, 59, 59, 0, tokyo) }

	stats, err := NewDashboardService(db).WithClock(clock).Stats(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TodayAppointments)
	assert.Equal(t, int64(2), stats.WeekAppointments)
	assert.Equal(t, int64(2), stats.PendingFollowUps)
}
