package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gabriel-vasile/mimetype"
	"gorm.io/gorm"
)

// AllowedMimeTypes are the content types accepted for record attachments.
var AllowedMimeTypes = []string{
	"application/pdf",
	"image/jpeg",
	"image/jpg",
	"image/png",
	"image/gif",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"application/vnd.ms-excel",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"text/plain",
}

const (
	DefaultMaxFileBytes = 10 << 20
	DefaultMaxFiles     = 5
)

type UploadLimits struct {
	MaxFileBytes int64
	MaxFiles     int
}

// Upload is one file as received from the client.
type Upload struct {
	OriginalName string
	MimeType     string
	Content      []byte
}

type MedicalRecordFileService struct {
	db     *gorm.DB
	limits UploadLimits
}

func NewMedicalRecordFileService(db *gorm.DB, limits UploadLimits) *MedicalRecordFileService {
	if limits.MaxFileBytes <= 0 {
		limits.MaxFileBytes = DefaultMaxFileBytes
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = DefaultMaxFiles
	}
	return &MedicalRecordFileService{db: db, limits: limits}
}

// resolveMimeType trusts the declared type unless it is missing or generic,
// in which case the content is sniffed.
func resolveMimeType(declared string, content []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	detected := mimetype.Detect(content)
	for m := detected; m != nil; m = m.Parent() {
		for _, allowed := range AllowedMimeTypes {
			if m.Is(allowed) {
				return allowed
			}
		}
	}
	return strings.SplitN(detected.String(), ";", 2)[0]
}

func cleanFileName(name string) string {
	name = strings.TrimSpace(filepath.Base(strings.ReplaceAll(name, "\\", "/")))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

func (s *MedicalRecordFileService) prepare(recordID string, up Upload) (model.MedicalRecordFile, error) {
	name := cleanFileName(up.OriginalName)
	if name == "" {
		return model.MedicalRecordFile{}, validationf("file name is required")
	}
	if len(up.Content) == 0 {
		return model.MedicalRecordFile{}, validationf("file %s is empty", name)
	}
	if int64(len(up.Content)) > s.limits.MaxFileBytes {
		return model.MedicalRecordFile{}, validationf("file %s exceeds the %d byte limit", name, s.limits.MaxFileBytes)
	}
	mime := resolveMimeType(up.MimeType, up.Content)
	if !util.Contains(mime, AllowedMimeTypes) {
		return model.MedicalRecordFile{}, validationf("file type %s is not allowed", mime)
	}
	return model.MedicalRecordFile{
		MedicalRecordID: recordID,
		OriginalName:    name,
		MimeType:        mime,
		FileSize:        int64(len(up.Content)),
		FileData:        base64.StdEncoding.EncodeToString(up.Content),
	}, nil
}

// Upload stores one attachment on a record the doctor owns.
func (s *MedicalRecordFileService) Upload(ctx context.Context, doctorID, recordID string, up Upload) (*model.MedicalRecordFile, error) {
	files, err := s.UploadMany(ctx, doctorID, recordID, []Upload{up})
	if err != nil {
		return nil, err
	}
	return &files[0], nil
}

// UploadMany validates every file before storing any, then stores them in
// one transaction.
func (s *MedicalRecordFileService) UploadMany(ctx context.Context, doctorID, recordID string, ups []Upload) ([]model.MedicalRecordFile, error) {
	if len(ups) == 0 {
		return nil, validationf("no files uploaded")
	}
	if len(ups) > s.limits.MaxFiles {
		return nil, validationf("at most %d files can be uploaded at once", s.limits.MaxFiles)
	}
	if err := scope.Verify(ctx, s.db, scope.MedicalRecords, recordID, doctorID); err != nil {
		return nil, err
	}
	files := make([]model.MedicalRecordFile, 0, len(ups))
	for _, up := range ups {
		f, err := s.prepare(recordID, up)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := s.db.WithContext(ctx).Create(&files).Error; err != nil {
		return nil, fmt.Errorf("store files: %w", err)
	}
	for i := range files {
		files[i].FileData = ""
	}
	return files, nil
}

// List returns file metadata for a record, newest upload first.
func (s *MedicalRecordFileService) List(ctx context.Context, doctorID, recordID string) ([]model.MedicalRecordFile, error) {
	q, err := scope.Children(ctx, s.db, scope.MedicalRecordFiles, recordID, doctorID)
	if err != nil {
		return nil, err
	}
	out := []model.MedicalRecordFile{}
	err = q.Select(model.FileMetadataColumns).Order("uploaded_at DESC").Find(&out).Error
	return out, err
}

// Download returns a file's metadata and decoded content.
func (s *MedicalRecordFileService) Download(ctx context.Context, doctorID, recordID, fileID string) (*model.MedicalRecordFile, []byte, error) {
	f, err := scope.FindChild[model.MedicalRecordFile](ctx, s.db, scope.MedicalRecordFiles, recordID, fileID, doctorID)
	if err != nil {
		return nil, nil, err
	}
	content, err := base64.StdEncoding.DecodeString(f.FileData)
	if err != nil {
		return nil, nil, fmt.Errorf("decode file %s: %w", f.ID, err)
	}
	f.FileData = ""
	return f, content, nil
}

func (s *MedicalRecordFileService) Rename(ctx context.Context, doctorID, recordID, fileID, newName string) (*model.MedicalRecordFile, error) {
	name := cleanFileName(newName)
	if name == "" {
		return nil, validationf("new file name is required")
	}
	f, err := scope.FindChild[model.MedicalRecordFile](ctx, s.db, scope.MedicalRecordFiles, recordID, fileID, doctorID,
		func(q *gorm.DB) *gorm.DB { return q.Select(model.FileMetadataColumns) })
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(&model.MedicalRecordFile{}).
		Where("id = ? AND medical_record_id = ?", f.ID, recordID).
		Update("original_name", name).Error
	if err != nil {
		return nil, err
	}
	f.OriginalName = name
	return f, nil
}

func (s *MedicalRecordFileService) Delete(ctx context.Context, doctorID, recordID, fileID string) error {
	f, err := scope.FindChild[model.MedicalRecordFile](ctx, s.db, scope.MedicalRecordFiles, recordID, fileID, doctorID,
		func(q *gorm.DB) *gorm.DB { return q.Select("id") })
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("id = ? AND medical_record_id = ?", f.ID, recordID).Delete(&model.MedicalRecordFile{}).Error
}
