package util

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/ariebrainware/docflow-schedule/model"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SecurityEventType represents different types of security events
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure       SecurityEventType = "LOGIN_FAILURE"
	EventSignupSuccess      SecurityEventType = "SIGNUP_SUCCESS"
	EventOAuthLogin         SecurityEventType = "OAUTH_LOGIN"
	EventLogout             SecurityEventType = "LOGOUT"
	EventAccountLocked      SecurityEventType = "ACCOUNT_LOCKED"
	EventAccountDeactivated SecurityEventType = "ACCOUNT_DEACTIVATED"
	EventPasswordChanged    SecurityEventType = "PASSWORD_CHANGED"
	EventUnauthorizedAccess SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded  SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventEndpointCall       SecurityEventType = "ENDPOINT_CALL"
)

// SecurityEvent represents a security event to be logged
type SecurityEvent struct {
	EventType SecurityEventType
	UserID    string
	Email     string
	IP        string
	UserAgent string
	Method    string
	Path      string
	Status    int
	Message   string
	Details   map[string]interface{}
}

var securityLogger = log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
var securityDB *gorm.DB

// SetSecurityLoggerDB sets the database security events are persisted to.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityDB = db
}

// InitSecurityLogger sends security lines to stdout and, when path is set,
// to a size-rotated file as well.
func InitSecurityLogger(path string) io.Closer {
	if path == "" {
		securityLogger = log.New(os.Stdout, "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
		return io.NopCloser(nil)
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     30,
		Compress:   true,
	}
	securityLogger = log.New(io.MultiWriter(os.Stdout, file), "[SECURITY] ", log.LstdFlags|log.Lmsgprefix)
	return file
}

const maxLogValueLen = 200

var logValueReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// sanitizeLogValue keeps one event per line and caps field length.
func sanitizeLogValue(value string) string {
	value = logValueReplacer.Replace(value)
	if len(value) > maxLogValueLen {
		value = value[:maxLogValueLen] + "..."
	}
	return value
}

// formatEvent renders event as space separated Key=value pairs. Empty fields
// are left out; Message always comes last.
func formatEvent(event SecurityEvent) string {
	var b strings.Builder
	b.WriteString("Event=" + sanitizeLogValue(string(event.EventType)))
	for _, kv := range [][2]string{
		{"UserID", event.UserID},
		{"Email", event.Email},
		{"IP", event.IP},
		{"Path", event.Path},
		{"UserAgent", event.UserAgent},
	} {
		if kv[1] != "" {
			b.WriteString(" " + kv[0] + "=" + sanitizeLogValue(kv[1]))
		}
	}
	if len(event.Details) > 0 {
		// Details are persisted, not printed.
		fmt.Fprintf(&b, " DetailsCount=%d", len(event.Details))
	}
	b.WriteString(" Message=" + sanitizeLogValue(event.Message))
	return b.String()
}

// LogSecurityEvent writes the event to the security log and, best-effort,
// to the security_logs table.
func LogSecurityEvent(event SecurityEvent) {
	securityLogger.Println(formatEvent(event))

	if securityDB == nil {
		return
	}
	var details datatypes.JSON
	if event.Details != nil {
		if b, err := json.Marshal(event.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}
	entry := model.SecurityLog{
		EventType: string(event.EventType),
		UserID:    sanitizeLogValue(event.UserID),
		Email:     sanitizeLogValue(event.Email),
		IP:        sanitizeLogValue(event.IP),
		Location:  sanitizeLogValue(LookupIP(event.IP).String()),
		UserAgent: sanitizeLogValue(event.UserAgent),
		Method:    event.Method,
		Path:      sanitizeLogValue(event.Path),
		Status:    event.Status,
		Message:   sanitizeLogValue(event.Message),
		Details:   details,
	}
	if err := securityDB.Create(&entry).Error; err != nil {
		securityLogger.Printf("Failed to persist security event: %v", err)
	}
}

// actorEvent is the common shape of authentication events: who did it and
// from where.
func actorEvent(kind SecurityEventType, userID, email, ip, userAgent, msg string) SecurityEvent {
	return SecurityEvent{
		EventType: kind,
		UserID:    userID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   msg,
	}
}

func LogLoginSuccess(userID, email, ip, userAgent string) {
	LogSecurityEvent(actorEvent(EventLoginSuccess, userID, email, ip, userAgent, "login succeeded"))
}

// LogLoginFailure records a rejected login. userID is unknown at this point,
// so the attempt is keyed by email.
func LogLoginFailure(email, ip, userAgent, reason string) {
	LogSecurityEvent(actorEvent(EventLoginFailure, "", email, ip, userAgent, "login failed: "+reason))
}

func LogSignup(userID, email, ip, userAgent string) {
	LogSecurityEvent(actorEvent(EventSignupSuccess, userID, email, ip, userAgent, "doctor registered"))
}

func LogOAuthLogin(userID, email, provider, ip, userAgent string) {
	ev := actorEvent(EventOAuthLogin, userID, email, ip, userAgent, "login via "+provider)
	ev.Details = map[string]interface{}{"provider": provider}
	LogSecurityEvent(ev)
}

func LogLogout(userID, email, ip, userAgent string) {
	LogSecurityEvent(actorEvent(EventLogout, userID, email, ip, userAgent, "session revoked by logout"))
}

func LogAccountLocked(userID, email, ip, reason string) {
	LogSecurityEvent(actorEvent(EventAccountLocked, userID, email, ip, "", "account locked: "+reason))
}

// LogPasswordChanged is emitted after every session of the user was revoked.
func LogPasswordChanged(userID, email string) {
	LogSecurityEvent(actorEvent(EventPasswordChanged, userID, email, "", "", "password changed, sessions revoked"))
}

func LogAccountDeactivated(userID, email, byUserID string) {
	ev := actorEvent(EventAccountDeactivated, userID, email, "", "", "account deactivated")
	ev.Details = map[string]interface{}{"by": byUserID}
	LogSecurityEvent(ev)
}

// LogUnauthorizedAccess records a request refused by authentication or role
// checks. resource is the request path.
func LogUnauthorizedAccess(userID, email, ip, resource, reason string) {
	ev := actorEvent(EventUnauthorizedAccess, userID, email, ip, "", fmt.Sprintf("access to %s refused: %s", resource, reason))
	ev.Path = resource
	LogSecurityEvent(ev)
}

func LogRateLimitExceeded(ip, route string) {
	ev := actorEvent(EventRateLimitExceeded, "", "", ip, "", "rate limit exceeded on "+route)
	ev.Path = route
	LogSecurityEvent(ev)
}

// SetSecurityLoggerForTest swaps the security logger and returns the
// previous one.
func SetSecurityLoggerForTest(logger *log.Logger) *log.Logger {
	prev := securityLogger
	securityLogger = logger
	return prev
}
