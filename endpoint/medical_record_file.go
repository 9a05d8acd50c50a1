package endpoint

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// multipartOverhead is the room left for form boundaries and headers on
// top of the file content limit.
const multipartOverhead = 1 << 20

type renameFileRequest struct {
	NewName string `json:"newName" binding:"required,max=255" example:"xray-2025-01.png"`
}

func fileService(c *gin.Context, db *gorm.DB) *service.MedicalRecordFileService {
	cfg := appConfig(c)
	return service.NewMedicalRecordFileService(db, service.UploadLimits{
		MaxFileBytes: cfg.UploadMaxFileBytes,
		MaxFiles:     cfg.UploadMaxFiles,
	})
}

// limitBody caps the request body at files times the per-file limit.
func limitBody(c *gin.Context, files int) {
	if files <= 0 {
		files = service.DefaultMaxFiles
	}
	perFile := appConfig(c).UploadMaxFileBytes
	if perFile <= 0 {
		perFile = service.DefaultMaxFileBytes
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(files)*perFile+multipartOverhead)
}

func readUpload(fh *multipart.FileHeader) (service.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, err
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return service.Upload{}, err
	}
	return service.Upload{
		OriginalName: fh.Filename,
		MimeType:     fh.Header.Get("Content-Type"),
		Content:      content,
	}, nil
}

// UploadMedicalRecordFile godoc
// @Summary      Upload a file
// @Description  Attaches one file to a medical record. Allowed types are PDF, images, Word, Excel and text.
// @Tags         MedicalRecordFile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Param        file formData file true "File to upload"
// @Success      201 {object} util.APIResponse{data=model.MedicalRecordFile}
// @Failure      400 {object} util.APIResponse "Missing, empty, oversized or disallowed file"
// @Failure      404 {object} util.APIResponse "Medical record not found"
// @Router       /medical-records/{id}/files/upload [post]
func UploadMedicalRecordFile(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	limitBody(c, 1)
	fh, err := c.FormFile("file")
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "A file is required in the 'file' field", Err: err})
		return
	}
	up, err := readUpload(fh)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Failed to read uploaded file", Err: err})
		return
	}
	f, err := fileService(c, db).Upload(c.Request.Context(), doctorID, c.Param("id"), up)
	if err != nil {
		respondError(c, err, "Failed to upload file")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "File uploaded", Data: f})
}

// UploadMedicalRecordFiles godoc
// @Summary      Upload several files
// @Description  Either every file is stored or none is.
// @Tags         MedicalRecordFile
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Param        files formData file true "Files to upload"
// @Success      201 {object} util.APIResponse{data=[]model.MedicalRecordFile}
// @Failure      400 {object} util.APIResponse "Invalid files"
// @Failure      404 {object} util.APIResponse "Medical record not found"
// @Router       /medical-records/{id}/files/upload-multiple [post]
func UploadMedicalRecordFiles(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	svc := fileService(c, db)
	limitBody(c, appConfig(c).UploadMaxFiles)
	form, err := c.MultipartForm()
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid multipart form", Err: err})
		return
	}
	headers := form.File["files"]
	ups := make([]service.Upload, 0, len(headers))
	for _, fh := range headers {
		up, err := readUpload(fh)
		if err != nil {
			util.CallUserError(c, util.APIErrorParams{Msg: "Failed to read uploaded file", Err: err})
			return
		}
		ups = append(ups, up)
	}
	files, err := svc.UploadMany(c.Request.Context(), doctorID, c.Param("id"), ups)
	if err != nil {
		respondError(c, err, "Failed to upload files")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Files uploaded", Data: files})
}

// ListMedicalRecordFiles godoc
// @Summary      List files of a record
// @Description  Metadata only, newest upload first
// @Tags         MedicalRecordFile
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Success      200 {object} util.APIResponse{data=[]model.MedicalRecordFile}
// @Failure      404 {object} util.APIResponse "Medical record not found"
// @Router       /medical-records/{id}/files [get]
func ListMedicalRecordFiles(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	files, err := fileService(c, db).List(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve files")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Files retrieved", Data: files})
}

// DownloadMedicalRecordFile godoc
// @Summary      Download a file
// @Tags         MedicalRecordFile
// @Produce      octet-stream
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Param        fileId path string true "File ID"
// @Success      200 {file} binary
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /medical-records/{id}/files/file/{fileId} [get]
func DownloadMedicalRecordFile(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	f, content, err := fileService(c, db).Download(c.Request.Context(), doctorID, c.Param("id"), c.Param("fileId"))
	if err != nil {
		respondError(c, err, "Failed to download file")
		return
	}
	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.OriginalName})
	if disposition == "" {
		disposition = fmt.Sprintf("attachment; filename=%q", f.ID)
	}
	c.Header("Content-Disposition", disposition)
	c.Header("Content-Length", strconv.Itoa(len(content)))
	c.Data(http.StatusOK, f.MimeType, content)
}

// RenameMedicalRecordFile godoc
// @Summary      Rename a file
// @Tags         MedicalRecordFile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Param        fileId path string true "File ID"
// @Param        request body renameFileRequest true "New name"
// @Success      200 {object} util.APIResponse{data=model.MedicalRecordFile}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /medical-records/{id}/files/file/{fileId}/rename [patch]
func RenameMedicalRecordFile(c *gin.Context) {
	var req renameFileRequest
	if !bindJSONOrRespond(c, &req, "newName is required") {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	f, err := fileService(c, db).Rename(c.Request.Context(), doctorID, c.Param("id"), c.Param("fileId"), req.NewName)
	if err != nil {
		respondError(c, err, "Failed to rename file")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "File renamed", Data: f})
}

// DeleteMedicalRecordFile godoc
// @Summary      Delete a file
// @Tags         MedicalRecordFile
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Medical record ID"
// @Param        fileId path string true "File ID"
// @Success      200 {object} util.APIResponse
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /medical-records/{id}/files/file/{fileId} [delete]
func DeleteMedicalRecordFile(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	if err := fileService(c, db).Delete(c.Request.Context(), doctorID, c.Param("id"), c.Param("fileId")); err != nil {
		respondError(c, err, "Failed to delete file")
		return
	}
	deleted(c, "File deleted")
}
