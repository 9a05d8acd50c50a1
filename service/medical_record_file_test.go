package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type fileFixture struct {
	svc    *MedicalRecordFileService
	owner  model.User
	other  model.User
	record model.MedicalRecord
}

func newFileFixture(t *testing.T, limits UploadLimits) fileFixture {
	t.Helper()
	db := setupTestDB(t)
	a := mustCreateDoctor(t, db, "a@docflow.com")
	b := mustCreateDoctor(t, db, "b@docflow.com")
	p := mustCreatePatient(t, db, a.ID, "one@example.com")
	r := mustCreateRecord(t, db, p, "2024-01-01")
	return fileFixture{svc: NewMedicalRecordFileService(db, limits), owner: a, other: b, record: r}
}

func TestResolveMimeType(t *testing.T) {
	assert.Equal(t, "application/pdf", resolveMimeType("Application/PDF", nil))
	assert.Equal(t, "text/plain", resolveMimeType("text/plain; charset=utf-8", nil))
	assert.Equal(t, "image/png", resolveMimeType("application/octet-stream", pngHeader))
	assert.Equal(t, "application/pdf", resolveMimeType("", []byte("%PDF-1.4\n%test")))
	assert.Equal(t, "text/plain", resolveMimeType("", []byte("plain notes")))
}

func TestCleanFileName(t *testing.T) {
	assert.Equal(t, "xray.png", cleanFileName("../../etc/xray.png"))
	assert.Equal(t, "scan.pdf", cleanFileName(`C:\Users\doc\scan.pdf`))
	assert.Equal(t, "", cleanFileName("  "))
}

func TestMedicalRecordFileService_UploadDownloadRenameDelete(t *testing.T) {
	f := newFileFixture(t, UploadLimits{})
	ctx := context.Background()

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{1}, 32)...)
	stored, err := f.svc.Upload(ctx, f.owner.ID, f.record.ID, Upload{OriginalName: "xray.png", MimeType: "application/octet-stream", Content: content})
	require.NoError(t, err)
	assert.Equal(t, "image/png", stored.MimeType)
	assert.Equal(t, int64(len(content)), stored.FileSize)
	assert.Empty(t, stored.FileData)

	list, err := f.svc.List(ctx, f.owner.ID, f.record.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].FileData)

	meta, data, err := f.svc.Download(ctx, f.owner.ID, f.record.ID, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, content, data)
	assert.Equal(t, "xray.png", meta.OriginalName)

	renamed, err := f.svc.Rename(ctx, f.owner.ID, f.record.ID, stored.ID, "panoramic.png")
	require.NoError(t, err)
	assert.Equal(t, "panoramic.png", renamed.OriginalName)

	_, err = f.svc.Rename(ctx, f.owner.ID, f.record.ID, stored.ID, " ")
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, f.svc.Delete(ctx, f.owner.ID, f.record.ID, stored.ID))
	_, _, err = f.svc.Download(ctx, f.owner.ID, f.record.ID, stored.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMedicalRecordFileService_ForeignRecord(t *testing.T) {
	f := newFileFixture(t, UploadLimits{})
	ctx := context.Background()
	stored, err := f.svc.Upload(ctx, f.owner.ID, f.record.ID, Upload{OriginalName: "notes.txt", MimeType: "text/plain", Content: []byte("hello")})
	require.NoError(t, err)

	_, err = f.svc.Upload(ctx, f.other.ID, f.record.ID, Upload{OriginalName: "notes.txt", MimeType: "text/plain", Content: []byte("hello")})
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.List(ctx, f.other.ID, f.record.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = f.svc.Download(ctx, f.other.ID, f.record.ID, stored.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.svc.Rename(ctx, f.other.ID, f.record.ID, stored.ID, "x.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, f.other.ID, f.record.ID, stored.ID), ErrNotFound)
}

func TestMedicalRecordFileService_Limits(t *testing.T) {
	f := newFileFixture(t, UploadLimits{MaxFileBytes: 8, MaxFiles: 2})
	ctx := context.Background()
	small := Upload{OriginalName: "a.txt", MimeType: "text/plain", Content: []byte("hi")}

	_, err := f.svc.Upload(ctx, f.owner.ID, f.record.ID, Upload{OriginalName: "big.txt", MimeType: "text/plain", Content: []byte("0123456789")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Upload(ctx, f.owner.ID, f.record.ID, Upload{OriginalName: "run.sh", MimeType: "application/x-sh", Content: []byte("ls")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Upload(ctx, f.owner.ID, f.record.ID, Upload{OriginalName: "empty.txt", MimeType: "text/plain"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.UploadMany(ctx, f.owner.ID, f.record.ID, []Upload{small, small, small})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.UploadMany(ctx, f.owner.ID, f.record.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	// One bad file rejects the whole batch.
	_, err = f.svc.UploadMany(ctx, f.owner.ID, f.record.ID, []Upload{small, {OriginalName: "x.exe", MimeType: "application/x-msdownload", Content: []byte("MZ")}})
	assert.ErrorIs(t, err, ErrValidation)
	list, err := f.svc.List(ctx, f.owner.ID, f.record.ID)
	require.NoError(t, err)
	assert.Empty(t, list)

	files, err := f.svc.UploadMany(ctx, f.owner.ID, f.record.ID, []Upload{small, small})
	require.NoError(t, err)
	assert.Len(t, files, 2)
}
