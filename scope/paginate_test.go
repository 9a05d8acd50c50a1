package scope

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRequest_Normalize(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, PageRequest{}.Normalize())
	assert.Equal(t, PageRequest{Page: 1, Limit: 10}, PageRequest{Page: -3, Limit: 0}.Normalize())
	assert.Equal(t, PageRequest{Page: 3, Limit: 5}, PageRequest{Page: 3, Limit: 5}.Normalize())
	assert.Equal(t, 10, PageRequest{Page: 3, Limit: 5}.Offset())
}

func TestPaginate_TotalIgnoresPaging(t *testing.T) {
	db := setupTestDB(t)
	doctor := "a0000000-0000-0000-0000-000000000001"
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		p := model.Patient{Name: fmt.Sprintf("Patient %d", i), Email: fmt.Sprintf("p%d@test.com", i), Phone: "555", DoctorID: doctor}
		p.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&p).Error)
	}
	foreign := model.Patient{Name: "Foreign", Email: "foreign@test.com", Phone: "555", DoctorID: "b0000000-0000-0000-0000-000000000002"}
	require.NoError(t, db.Create(&foreign).Error)

	page, err := Paginate[model.Patient](context.Background(), Tenant(db, Patients, doctor), PageRequest{Page: 2, Limit: 3}, "patients.created_at DESC")
	require.NoError(t, err)
	assert.Equal(t, int64(7), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.Limit)
	require.Len(t, page.Data, 3)
	assert.Equal(t, "Patient 3", page.Data[0].Name)

	last, err := Paginate[model.Patient](context.Background(), Tenant(db, Patients, doctor), PageRequest{Page: 3, Limit: 3}, "patients.created_at DESC")
	require.NoError(t, err)
	require.Len(t, last.Data, 1)
	assert.Equal(t, "Patient 0", last.Data[0].Name)
}

func TestPaginate_EmptyIsNotNil(t *testing.T) {
	db := setupTestDB(t)

	page, err := Paginate[model.Patient](context.Background(), Tenant(db, Patients, "nobody"), PageRequest{}, "")
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Zero(t, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
}
