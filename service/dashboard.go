package service

import (
	"context"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"gorm.io/gorm"
)

// followUpHorizon is the far end of the pending follow-up window.
var followUpHorizon = model.Date{Year: 2099, Month: time.December, Day: 31}

type DashboardStats struct {
	TodayAppointments int64 `json:"todayAppointments"`
	WeekAppointments  int64 `json:"weekAppointments"`
	TotalPatients     int64 `json:"totalPatients"`
	PendingFollowUps  int64 `json:"pendingFollowUps"`
}

// Window is the set of calendar days the dashboard counts over.
type Window struct {
	Today     model.Date
	WeekStart model.Date
	WeekEnd   model.Date
}

// NewWindow computes the day of now and the week containing it, starting on
// firstDay. All boundaries are whole days, so an appointment at 23:59 on
// the last day still counts.
func NewWindow(now time.Time, firstDay time.Weekday) Window {
	today := model.DateOf(now)
	back := (int(today.Weekday()) - int(firstDay) + 7) % 7
	start := today.AddDays(-back)
	return Window{Today: today, WeekStart: start, WeekEnd: start.AddDays(6)}
}

type DashboardService struct {
	db       *gorm.DB
	now      func() time.Time
	firstDay time.Weekday
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now, firstDay: time.Sunday}
}

// WithClock replaces the clock used to find today, for tests.
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Stats counts the doctor's appointments today and this week, their
// patients, and upcoming appointments still scheduled or confirmed.
func (s *DashboardService) Stats(ctx context.Context, doctorID string) (DashboardStats, error) {
	w := NewWindow(s.now(), s.firstDay)
	db := s.db.WithContext(ctx)
	var stats DashboardStats

	appointments := func() *gorm.DB {
		return scope.Tenant(db.Model(&model.Appointment{}), scope.Appointments, doctorID)
	}
	if err := appointments().Where("appointments.date BETWEEN ? AND ?", w.Today, w.Today).Count(&stats.TodayAppointments).Error; err != nil {
		return stats, err
	}
	if err := appointments().Where("appointments.date BETWEEN ? AND ?", w.WeekStart, w.WeekEnd).Count(&stats.WeekAppointments).Error; err != nil {
		return stats, err
	}
	if err := scope.Tenant(db.Model(&model.Patient{}), scope.Patients, doctorID).Count(&stats.TotalPatients).Error; err != nil {
		return stats, err
	}
	err := appointments().
		Where("appointments.status IN ?", []model.AppointmentStatus{model.StatusScheduled, model.StatusConfirmed}).
		Where("appointments.date BETWEEN ? AND ?", w.Today, followUpHorizon).
		Count(&stats.PendingFollowUps).Error
	return stats, err
}
