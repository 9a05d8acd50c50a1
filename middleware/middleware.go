package middleware

import (
	"net/http"

	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DBKey      = "db"
	UserIDKey  = "user_id"
	RoleKey    = "role"
	TokenIDKey = "token_id"
	EmailKey   = "email"
)

func setCorsHeaders(c *gin.Context, allowed []string) {
	origin := c.GetHeader("Origin")
	if origin != "" && util.Contains(origin, allowed) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Add("Vary", "Origin")
	}
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, DELETE, PATCH, PUT")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "X-Requested-With, Content-Type, Authorization")
	c.Writer.Header().Set("Access-Control-Max-Age", "86400")
}

// CORSMiddleware echoes the request origin back only when it is in allowed.
// Preflight requests are answered with 204.
func CORSMiddleware(allowed []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		setCorsHeaders(c, allowed)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// DatabaseMiddleware puts db on the request context for handlers.
func DatabaseMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(DBKey, db)
		c.Next()
	}
}

func GetDB(c *gin.Context) *gorm.DB {
	v, ok := c.Get(DBKey)
	if !ok {
		return nil
	}
	db, _ := v.(*gorm.DB)
	return db
}

// GetUserID returns the authenticated doctor's ID set by ValidateLoginToken.
func GetUserID(c *gin.Context) (string, bool) {
	id := c.GetString(UserIDKey)
	return id, id != ""
}

func GetRole(c *gin.Context) (string, bool) {
	role := c.GetString(RoleKey)
	return role, role != ""
}

func GetTokenID(c *gin.Context) (string, bool) {
	id := c.GetString(TokenIDKey)
	return id, id != ""
}
