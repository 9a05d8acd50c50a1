package endpoint

import (
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

type createPatientRequest struct {
	Name        string  `json:"name" binding:"required,max=255" example:"John Smith"`
	Email       string  `json:"email" binding:"required,email" example:"john.smith@example.com"`
	Phone       string  `json:"phone" binding:"required,max=32" example:"+1-555-1001"`
	DateOfBirth *string `json:"dateOfBirth" example:"1985-03-15"`
	Address     string  `json:"address" example:"123 Main St"`
	Notes       string  `json:"notes" example:"Allergic to penicillin"`
}

type updatePatientRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Email       *string `json:"email" binding:"omitempty,email"`
	Phone       *string `json:"phone" binding:"omitempty,min=1,max=32"`
	DateOfBirth *string `json:"dateOfBirth"`
	Address     *string `json:"address"`
	Notes       *string `json:"notes"`
}

type patientListQuery struct {
	Search string `form:"search"`
	scope.PageRequest
}

// ListPatients godoc
// @Summary      List patients
// @Description  Paginated list of the caller's patients, newest first
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        search query string false "Search name, email or phone"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} util.APIResponse{data=scope.Page[model.Patient]} "Patients retrieved"
// @Failure      401 {object} util.APIResponse "Unauthorized"
// @Router       /patients [get]
func ListPatients(c *gin.Context) {
	var q patientListQuery
	if !bindQueryOrRespond(c, &q) {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	page, err := service.NewPatientService(db).List(c.Request.Context(), doctorID, service.PatientQuery{Search: q.Search, PageRequest: q.PageRequest})
	if err != nil {
		respondError(c, err, "Failed to retrieve patients")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patients retrieved", Data: page})
}

// CreatePatient godoc
// @Summary      Create a patient
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createPatientRequest true "Patient details"
// @Success      201 {object} util.APIResponse{data=model.Patient}
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      409 {object} util.APIResponse "Patient with this email already exists"
// @Router       /patients [post]
func CreatePatient(c *gin.Context) {
	var req createPatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	dob, ok := parseOptionalDate(c, req.DateOfBirth, "dateOfBirth")
	if !ok {
		return
	}
	p, err := service.NewPatientService(db).Create(c.Request.Context(), doctorID, service.PatientInput{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Address:     req.Address,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to create patient")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Patient created", Data: p})
}

// GetPatient godoc
// @Summary      Get a patient
// @Description  Includes appointments and medical records with file metadata
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=model.Patient}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /patients/{id} [get]
func GetPatient(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	p, err := service.NewPatientService(db).Get(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve patient")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient retrieved", Data: p})
}

// UpdatePatient godoc
// @Summary      Update a patient
// @Tags         Patient
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Param        request body updatePatientRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.Patient}
// @Failure      404 {object} util.APIResponse "Not found"
// @Failure      409 {object} util.APIResponse "Patient with this email already exists"
// @Router       /patients/{id} [patch]
func UpdatePatient(c *gin.Context) {
	var req updatePatientRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	dob, ok := parseOptionalDate(c, req.DateOfBirth, "dateOfBirth")
	if !ok {
		return
	}
	p, err := service.NewPatientService(db).Update(c.Request.Context(), doctorID, c.Param("id"), service.PatientUpdate{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		DateOfBirth: dob,
		Address:     req.Address,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, err, "Failed to update patient")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Patient updated", Data: p})
}

// DeletePatient godoc
// @Summary      Delete a patient
// @Description  Also deletes the patient's appointments, medical records and files
// @Tags         Patient
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Patient ID"
// @Success      200 {object} util.APIResponse
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /patients/{id} [delete]
func DeletePatient(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	if err := service.NewPatientService(db).Delete(c.Request.Context(), doctorID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete patient")
		return
	}
	deleted(c, "Patient deleted")
}
