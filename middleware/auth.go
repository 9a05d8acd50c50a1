package middleware

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) string {
	h := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(h) < 7 || !strings.EqualFold(h[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(h[7:])
}

// ValidateLoginToken authenticates the bearer token and stores the caller's
// identity on the context. Requests without a live session are rejected
// with 401.
func ValidateLoginToken(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			util.CallUserNotAuthorized(c, util.APIErrorParams{
				Msg: "Authentication required",
				Err: fmt.Errorf("missing bearer token"),
			})
			return
		}

		user, claims, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				util.LogUnauthorizedAccess("", "", c.ClientIP(), c.Request.URL.Path, err.Error())
				util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: err.Error(), Err: err})
				return
			}
			util.CallServerError(c, util.APIErrorParams{Msg: "Failed to validate session", Err: err})
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(RoleKey, string(user.Role))
		c.Set(TokenIDKey, claims.ID)
		c.Set(EmailKey, user.Email)
		util.UserEmailCacheSet(user.ID, user.Email)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not in roles.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	allowed := make([]string, 0, len(roles))
	for _, r := range roles {
		allowed = append(allowed, string(r))
	}
	return func(c *gin.Context) {
		role, _ := GetRole(c)
		if !util.Contains(role, allowed) {
			userID, _ := GetUserID(c)
			util.LogUnauthorizedAccess(userID, c.GetString(EmailKey), c.ClientIP(), c.Request.URL.Path, "insufficient role")
			util.CallForbidden(c, util.APIErrorParams{
				Msg: "Insufficient permissions",
				Err: fmt.Errorf("role %q not allowed", role),
			})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(model.RoleAdmin)
}
