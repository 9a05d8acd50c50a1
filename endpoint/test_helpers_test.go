package endpoint_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/endpoint"
	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type apiResp struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

// requestParams groups HTTP request parameters to reduce function arguments
type requestParams struct {
	method  string
	path    string
	body    interface{}
	token   string
	headers map[string]string
}

func doRequest(r http.Handler, params requestParams) *httptest.ResponseRecorder {
	var body []byte
	switch v := params.body.(type) {
	case nil:
	case []byte:
		body = v
	default:
		body, _ = json.Marshal(v)
	}
	req := httptest.NewRequest(params.method, params.path, bytes.NewReader(body))
	req.RemoteAddr = "10.0.0.1:5555"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if params.token != "" {
		req.Header.Set("Authorization", "Bearer "+params.token)
	}
	for k, v := range params.headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals the envelope and, when dst is not nil, its data.
func decode(t *testing.T, rr *httptest.ResponseRecorder, dst interface{}) apiResp {
	t.Helper()
	var resp apiResp
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	if dst != nil {
		require.NoError(t, json.Unmarshal(resp.Data, dst))
	}
	return resp
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:testdb_endpoint_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		AppName:            "docflow-test",
		AppEnv:             "test",
		JWTExpiresIn:       time.Hour,
		CORSOrigins:        []string{"http://localhost:5173"},
		FrontendURL:        "http://frontend.test",
		UploadMaxFileBytes: 1 << 20,
		UploadMaxFiles:     3,
		AuthRateLimit:      100,
		AuthRateWindow:     time.Minute,
	}
}

// SetupTestServer returns the full router over a fresh database.
func SetupTestServer(t *testing.T) (*gin.Engine, *gorm.DB) {
	return setupServerWithConfig(t, testConfig())
}

func setupServerWithConfig(t *testing.T, cfg *config.Config) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	return endpoint.NewRouter(db, cfg, zerolog.Nop()), db
}

type session struct {
	token  string
	userID string
}

// registerDoctor signs up a doctor account and returns its session.
func registerDoctor(t *testing.T, r http.Handler, email string) session {
	t.Helper()
	rr := doRequest(r, requestParams{method: http.MethodPost, path: "/api/auth/register", body: map[string]string{
		"name":     "Dr. " + email,
		"email":    email,
		"password": "password123",
	}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var data struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	decode(t, rr, &data)
	require.NotEmpty(t, data.Token)
	return session{token: data.Token, userID: data.User.ID}
}

func createPatient(t *testing.T, r http.Handler, s session, email string) model.Patient {
	t.Helper()
	rr := doRequest(r, requestParams{method: http.MethodPost, path: "/api/patients", token: s.token, body: map[string]string{
		"name":        "Patient " + email,
		"email":       email,
		"phone":       "+1-555-0100",
		"dateOfBirth": "1985-03-15",
	}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var p model.Patient
	decode(t, rr, &p)
	return p
}

func createRecord(t *testing.T, r http.Handler, s session, patientID string) model.MedicalRecord {
	t.Helper()
	rr := doRequest(r, requestParams{method: http.MethodPost, path: "/api/medical-records/patient/" + patientID, token: s.token, body: map[string]string{
		"date":      "2025-01-15",
		"diagnosis": "Seasonal allergies",
		"treatment": "Antihistamines",
	}})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var rec model.MedicalRecord
	decode(t, rr, &rec)
	return rec
}
