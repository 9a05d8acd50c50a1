package endpoint

import (
	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

type createAppointmentRequest struct {
	PatientID string                  `json:"patientId" binding:"required,uuid" example:"3f1c2a4e-1b2c-4d5e-8f90-1234567890ab"`
	Date      string                  `json:"date" binding:"required" example:"2025-01-15"`
	Time      string                  `json:"time" binding:"required" example:"09:30"`
	Duration  int                     `json:"duration" binding:"omitempty,min=15,max=180" example:"30"`
	Type      model.AppointmentType   `json:"type" binding:"omitempty,oneof=checkup cleaning procedure consultation emergency follow-up" example:"checkup"`
	Status    model.AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled no-show" example:"scheduled"`
	Notes     string                  `json:"notes"`
}

type updateAppointmentRequest struct {
	PatientID *string                  `json:"patientId" binding:"omitempty,uuid"`
	Date      *string                  `json:"date"`
	Time      *string                  `json:"time"`
	Duration  *int                     `json:"duration" binding:"omitempty,min=15,max=180"`
	Type      *model.AppointmentType   `json:"type" binding:"omitempty,oneof=checkup cleaning procedure consultation emergency follow-up"`
	Status    *model.AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled no-show"`
	Notes     *string                  `json:"notes"`
}

type appointmentListQuery struct {
	Date      string                  `form:"date"`
	StartDate string                  `form:"startDate"`
	EndDate   string                  `form:"endDate"`
	PatientID string                  `form:"patientId"`
	Status    model.AppointmentStatus `form:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled no-show"`
	scope.PageRequest
}

// ListAppointments godoc
// @Summary      List appointments
// @Description  Paginated, ordered by date then time. Filters combine with AND.
// @Tags         Appointment
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "Exact date (YYYY-MM-DD)"
// @Param        startDate query string false "Earliest date (YYYY-MM-DD)"
// @Param        endDate query string false "Latest date (YYYY-MM-DD)"
// @Param        patientId query string false "Patient ID"
// @Param        status query string false "Status"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} util.APIResponse{data=scope.Page[model.Appointment]}
// @Router       /appointments [get]
func ListAppointments(c *gin.Context) {
	var q appointmentListQuery
	if !bindQueryOrRespond(c, &q) {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	date, ok := parseOptionalDate(c, &q.Date, "date")
	if !ok {
		return
	}
	start, ok := parseOptionalDate(c, &q.StartDate, "startDate")
	if !ok {
		return
	}
	end, ok := parseOptionalDate(c, &q.EndDate, "endDate")
	if !ok {
		return
	}
	page, err := service.NewAppointmentService(db).List(c.Request.Context(), doctorID, service.AppointmentQuery{
		Date:        date,
		StartDate:   start,
		EndDate:     end,
		PatientID:   q.PatientID,
		Status:      q.Status,
		PageRequest: q.PageRequest,
	})
	if err != nil {
		respondError(c, err, "Failed to retrieve appointments")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: page})
}

// CreateAppointment godoc
// @Summary      Create an appointment
// @Description  The patient must belong to the caller
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createAppointmentRequest true "Appointment details"
// @Success      201 {object} util.APIResponse{data=model.Appointment}
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /appointments [post]
func CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	date, ok := parseDateOrRespond(c, req.Date, "date")
	if !ok {
		return
	}
	at, ok := parseTimeOrRespond(c, req.Time)
	if !ok {
		return
	}
	a, err := service.NewAppointmentService(db).Create(c.Request.Context(), doctorID, service.AppointmentInput{
		PatientID: req.PatientID,
		Date:      date,
		Time:      at,
		Duration:  req.Duration,
		Type:      req.Type,
		Status:    req.Status,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to create appointment")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Appointment created", Data: a})
}

// ListPatientAppointments godoc
// @Summary      Appointments of a patient
// @Tags         Appointment
// @Produce      json
// @Security     BearerAuth
// @Param        patientId path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=[]model.Appointment}
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /appointments/patient/{patientId} [get]
func ListPatientAppointments(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	list, err := service.NewAppointmentService(db).ListByPatient(c.Request.Context(), doctorID, c.Param("patientId"))
	if err != nil {
		respondError(c, err, "Failed to retrieve appointments")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: list})
}

// ListAppointmentsByDate godoc
// @Summary      Appointments on a day
// @Tags         Appointment
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Date (YYYY-MM-DD)"
// @Success      200 {object} util.APIResponse{data=[]model.Appointment}
// @Failure      400 {object} util.APIResponse "Invalid date"
// @Router       /appointments/date/{date} [get]
func ListAppointmentsByDate(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	date, ok := parseDateOrRespond(c, c.Param("date"), "date")
	if !ok {
		return
	}
	list, err := service.NewAppointmentService(db).ListByDate(c.Request.Context(), doctorID, date)
	if err != nil {
		respondError(c, err, "Failed to retrieve appointments")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointments retrieved", Data: list})
}

// GetAppointment godoc
// @Summary      Get an appointment
// @Tags         Appointment
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment ID"
// @Success      200 {object} util.APIResponse{data=model.Appointment}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /appointments/{id} [get]
func GetAppointment(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	a, err := service.NewAppointmentService(db).Get(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve appointment")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment retrieved", Data: a})
}

// UpdateAppointment godoc
// @Summary      Update an appointment
// @Description  A new patientId must also belong to the caller
// @Tags         Appointment
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment ID"
// @Param        request body updateAppointmentRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.Appointment}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /appointments/{id} [patch]
func UpdateAppointment(c *gin.Context) {
	var req updateAppointmentRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	upd := service.AppointmentUpdate{
		PatientID: req.PatientID,
		Duration:  req.Duration,
		Type:      req.Type,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if req.Date != nil {
		d, ok := parseDateOrRespond(c, *req.Date, "date")
		if !ok {
			return
		}
		upd.Date = &d
	}
	if req.Time != nil {
		at, ok := parseTimeOrRespond(c, *req.Time)
		if !ok {
			return
		}
		upd.Time = &at
	}
	a, err := service.NewAppointmentService(db).Update(c.Request.Context(), doctorID, c.Param("id"), upd)
	if err != nil {
		respondError(c, err, "Failed to update appointment")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Appointment updated", Data: a})
}

// DeleteAppointment godoc
// @Summary      Delete an appointment
// @Tags         Appointment
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment ID"
// @Success      200 {object} util.APIResponse
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /appointments/{id} [delete]
func DeleteAppointment(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	if err := service.NewAppointmentService(db).Delete(c.Request.Context(), doctorID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete appointment")
		return
	}
	deleted(c, "Appointment deleted")
}
