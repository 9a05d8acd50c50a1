package endpoint_test

import (
	"net/http"
	"testing"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientCRUD(t *testing.T) {
	r, _ := SetupTestServer(t)
	s := registerDoctor(t, r, "doc@docflow.com")
	p := createPatient(t, r, s, "john@example.com")
	assert.Equal(t, s.userID, p.DoctorID)
	require.NotNil(t, p.DateOfBirth)
	assert.Equal(t, "1985-03-15", p.DateOfBirth.String())

	rr := doRequest(r, requestParams{method: http.MethodGet, path: "/api/patients/" + p.ID, token: s.token})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = doRequest(r, requestParams{method: http.MethodPatch, path: "/api/patients/" + p.ID, token: s.token, body: map[string]string{
		"name": "John Updated",
	}})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var updated model.Patient
	decode(t, rr, &updated)
	assert.Equal(t, "John Updated", updated.Name)
	assert.Equal(t, "john@example.com", updated.Email)

	rr = doRequest(r, requestParams{method: http.MethodDelete, path: "/api/patients/" + p.ID, token: s.token})
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode(t, rr, nil)
	assert.JSONEq(t, `{}`, string(resp.Data))

	rr = doRequest(r, requestParams{method: http.MethodGet, path: "/api/patients/" + p.ID, token: s.token})
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestPatientListSearchAndPaging(t *testing.T) {
	r, _ := SetupTestServer(t)
	s := registerDoctor(t, r, "doc@docflow.com")
	createPatient(t, r, s, "alice@example.com")
	createPatient(t, r, s, "bob@example.com")
	createPatient(t, r, s, "carol@example.com")

	rr := doRequest(r, requestParams{method: http.MethodGet, path: "/api/patients?page=1&limit=2", token: s.token})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var page scope.Page[model.Patient]
	decode(t, rr, &page)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Data, 2)

	rr = doRequest(r, requestParams{method: http.MethodGet, path: "/api/patients?search=bob", token: s.token})
	require.Equal(t, http.StatusOK, rr.Code)
	decode(t, rr, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "bob@example.com", page.Data[0].Email)
}

func TestPatientCrossTenantIsNotFound(t *testing.T) {
	r, _ := SetupTestServer(t)
	a := registerDoctor(t, r, "a@docflow.com")
	b := registerDoctor(t, r, "b@docflow.com")
	p := createPatient(t, r, a, "owned@example.com")

	rr := doRequest(r, requestParams{method: http.MethodGet, path: "/api/patients/" + p.ID, token: b.token})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doRequest(r, requestParams{method: http.MethodPatch, path: "/api/patients/" + p.ID, token: b.token, body: map[string]string{"name": "Stolen"}})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doRequest(r, requestParams{method: http.MethodDelete, path: "/api/patients/" + p.ID, token: b.token})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = doRequest(r, requestParams{method: http.MethodGet, path: "/api/patients", token: b.token})
	require.Equal(t, http.StatusOK, rr.Code)
	var page scope.Page[model.Patient]
	decode(t, rr, &page)
	assert.Empty(t, page.Data)

	rr = doRequest(r, requestParams{method: http.MethodGet, path: "/api/patients/" + p.ID, token: a.token})
	require.Equal(t, http.StatusOK, rr.Code)
	var still model.Patient
	decode(t, rr, &still)
	assert.Equal(t, "Patient owned@example.com", still.Name)
}

func TestCreatePatient_Validation(t *testing.T) {
	r, _ := SetupTestServer(t)
	s := registerDoctor(t, r, "doc@docflow.com")
	createPatient(t, r, s, "dup@example.com")

	rr := doRequest(r, requestParams{method: http.MethodPost, path: "/api/patients", token: s.token, body: map[string]string{
		"name": "No Email", "phone": "555",
	}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(r, requestParams{method: http.MethodPost, path: "/api/patients", token: s.token, body: map[string]string{
		"name": "Bad Date", "email": "bad@example.com", "phone": "555", "dateOfBirth": "15/03/1985",
	}})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doRequest(r, requestParams{method: http.MethodPost, path: "/api/patients", token: s.token, body: map[string]string{
		"name": "Dup", "email": "dup@example.com", "phone": "555",
	}})
	assert.Equal(t, http.StatusConflict, rr.Code)
}
