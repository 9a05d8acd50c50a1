package middleware

import (
	"fmt"
	"strings"
	"time"

	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

// EndpointCallLogger audits every request as an ENDPOINT_CALL security
// event, except paths under one of skip. The acting user's email comes from
// the user email cache, so it needs DatabaseMiddleware earlier in the chain.
func EndpointCallLogger(skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range skip {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		start := time.Now()
		c.Next()
		status := c.Writer.Status()

		event := util.SecurityEvent{
			EventType: util.EventEndpointCall,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			Method:    c.Request.Method,
			Path:      path,
			Status:    status,
			Message:   fmt.Sprintf("%s %s -> %d", c.Request.Method, path, status),
			Details: map[string]interface{}{
				"route":       c.FullPath(),
				"duration_ms": time.Since(start).Milliseconds(),
				"query":       c.Request.URL.RawQuery,
			},
		}
		if userID, ok := GetUserID(c); ok && userID != "" {
			event.UserID = userID
			event.Email = util.GetUserEmail(GetDB(c), userID)
			if role, ok := GetRole(c); ok {
				event.Details["role"] = role
			}
		}
		util.LogSecurityEvent(event)
	}
}
