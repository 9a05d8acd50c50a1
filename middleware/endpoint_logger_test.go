package middleware

import (
	"bytes"
	"log"
	"net/http"
	"strings"
	"testing"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

func captureSecurityLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := util.SetSecurityLoggerForTest(log.New(&buf, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix))
	t.Cleanup(func() { util.SetSecurityLoggerForTest(prev) })
	return &buf
}

func TestEndpointCallLogger_BasicRequest(t *testing.T) {
	buf := captureSecurityLog(t)
	setGinTestMode()
	r := gin.New()
	r.Use(DatabaseMiddleware(newInMemoryDB(t)))
	r.Use(EndpointCallLogger())
	r.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	w := serve(r, http.MethodGet, "/test?foo=bar", map[string]string{"User-Agent": "TestAgent/1.0"})
	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	out := buf.String()
	for _, want := range []string{"Event=ENDPOINT_CALL", "GET /test -> 200", "192.168.1.1", "TestAgent/1.0"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log to contain %q, got %q", want, out)
		}
	}
}

func TestEndpointCallLogger_WithUserContext(t *testing.T) {
	buf := captureSecurityLog(t)
	setGinTestMode()
	db := newInMemoryDB(t)
	u := model.User{Name: "Dr. Log", Email: "log@docflow.com", Role: model.RoleDoctor, IsActive: true}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	r := gin.New()
	r.Use(DatabaseMiddleware(db))
	r.Use(EndpointCallLogger())
	r.GET("/patients", func(c *gin.Context) {
		c.Set(UserIDKey, u.ID)
		c.Set(RoleKey, string(u.Role))
		c.Status(http.StatusOK)
	})

	serve(r, http.MethodGet, "/patients", nil)

	out := buf.String()
	if !strings.Contains(out, "UserID="+u.ID) {
		t.Errorf("expected log to contain user id, got %q", out)
	}
	if !strings.Contains(out, "Email=log@docflow.com") {
		t.Errorf("expected log to contain resolved email, got %q", out)
	}
}

func TestEndpointCallLogger_PersistsEvent(t *testing.T) {
	captureSecurityLog(t)
	setGinTestMode()
	db := newInMemoryDB(t)
	util.SetSecurityLoggerDB(db)
	t.Cleanup(func() { util.SetSecurityLoggerDB(nil) })

	r := gin.New()
	r.Use(EndpointCallLogger())
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	serve(r, http.MethodGet, "/missing", nil)

	var entry model.SecurityLog
	if err := db.Where("event_type = ?", string(util.EventEndpointCall)).Take(&entry).Error; err != nil {
		t.Fatalf("expected persisted endpoint event: %v", err)
	}
	if entry.Path != "/missing" {
		t.Errorf("expected path /missing, got %q", entry.Path)
	}
	if entry.Method != http.MethodGet || entry.Status != http.StatusNotFound {
		t.Errorf("expected GET 404, got %s %d", entry.Method, entry.Status)
	}
}

func TestEndpointCallLogger_SkipsPrefixes(t *testing.T) {
	buf := captureSecurityLog(t)
	setGinTestMode()
	r := gin.New()
	r.Use(EndpointCallLogger("/api/health"))
	r.GET("/api/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/patients", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(r, http.MethodGet, "/api/health", nil)
	if strings.Contains(buf.String(), "ENDPOINT_CALL") {
		t.Errorf("health check should not be audited, got %q", buf.String())
	}

	serve(r, http.MethodGet, "/api/patients", nil)
	if !strings.Contains(buf.String(), "GET /api/patients -> 200") {
		t.Errorf("expected patients call in log, got %q", buf.String())
	}
}
