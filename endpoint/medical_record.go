package endpoint

import (
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

type createMedicalRecordRequest struct {
	Date        string   `json:"date" binding:"required" example:"2025-01-15"`
	Diagnosis   string   `json:"diagnosis" binding:"required,max=500" example:"Seasonal allergies"`
	Treatment   string   `json:"treatment" binding:"required" example:"Antihistamines"`
	Notes       string   `json:"notes"`
	Attachments []string `json:"attachments"`
}

type updateMedicalRecordRequest struct {
	Date        *string   `json:"date"`
	Diagnosis   *string   `json:"diagnosis" binding:"omitempty,min=1,max=500"`
	Treatment   *string   `json:"treatment" binding:"omitempty,min=1"`
	Notes       *string   `json:"notes"`
	Attachments *[]string `json:"attachments"`
}

// ListPatientMedicalRecords godoc
// @Summary      Medical records of a patient
// @Description  Newest first, with file metadata
// @Tags         MedicalRecord
// @Produce      json
// @Security     BearerAuth
// @Param        patientId path string true "Patient ID"
// @Success      200 {object} util.APIResponse{data=[]model.MedicalRecord}
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /medical-records/patient/{patientId} [get]
func ListPatientMedicalRecords(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	list, err := service.NewMedicalRecordService(db).ListByPatient(c.Request.Context(), doctorID, c.Param("patientId"))
	if err != nil {
		respondError(c, err, "Failed to retrieve medical records")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Medical records retrieved", Data: list})
}

// CreateMedicalRecord godoc
// @Summary      Create a medical record
// @Tags         MedicalRecord
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        patientId path string true "Patient ID"
// @Param        request body createMedicalRecordRequest true "Record details"
// @Success      201 {object} util.APIResponse{data=model.MedicalRecord}
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Failure      404 {object} util.APIResponse "Patient not found"
// @Router       /medical-records/patient/{patientId} [post]
func CreateMedicalRecord(c *gin.Context) {
	var req createMedicalRecordRequest
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
	rec, err := service.NewMedicalRecordService(db).Create(c.Request.Context(), doctorID, c.Param("patientId"), service.MedicalRecordInput{
		Date:        date,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Notes:       req.Notes,
		Attachments: req.Attachments,
	})
	if err != nil {
		respondError(c, err, "Failed to create medical record")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Medical record created", Data: rec})
}

// GetMedicalRecord godoc
// @Summary      Get a medical record
// @Tags         MedicalRecord
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Success      200 {object} util.APIResponse{data=model.MedicalRecord}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /medical-records/{id} [get]
func GetMedicalRecord(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	rec, err := service.NewMedicalRecordService(db).Get(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve medical record")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Medical record retrieved", Data: rec})
}

// UpdateMedicalRecord godoc
// @Summary      Update a medical record
// @Tags         MedicalRecord
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Param        request body updateMedicalRecordRequest true "Fields to change"
// @Success      200 {object} util.APIResponse{data=model.MedicalRecord}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /medical-records/{id} [patch]
func UpdateMedicalRecord(c *gin.Context) {
	var req updateMedicalRecordRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	date, ok := parseOptionalDate(c, req.Date, "date")
	if !ok {
		return
	}
	rec, err := service.NewMedicalRecordService(db).Update(c.Request.Context(), doctorID, c.Param("id"), service.MedicalRecordUpdate{
		Date:        date,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Notes:       req.Notes,
		Attachments: req.Attachments,
	})
	if err != nil {
		respondError(c, err, "Failed to update medical record")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Medical record updated", Data: rec})
}

// DeleteMedicalRecord godoc
// @Summary      Delete a medical record
// @Description  Removes the record and its files
// @Tags         MedicalRecord
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Success      200 {object} util.APIResponse
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /medical-records/{id} [delete]
func DeleteMedicalRecord(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	if err := service.NewMedicalRecordService(db).Delete(c.Request.Context(), doctorID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete medical record")
		return
	}
	deleted(c, "Medical record deleted")
}
