package endpoint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/middleware"
	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const configKey = "config"

// withConfig makes cfg available to handlers through appConfig.
func withConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(configKey, cfg)
		c.Next()
	}
}

func appConfig(c *gin.Context) *config.Config {
	if v, ok := c.Get(configKey); ok {
		if cfg, ok := v.(*config.Config); ok && cfg != nil {
			return cfg
		}
	}
	return config.LoadConfig()
}

func bindJSONOrRespond(c *gin.Context, dst interface{}, msg string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: msg, Err: err})
		return false
	}
	return true
}

func bindQueryOrRespond(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "Invalid query parameters", Err: err})
		return false
	}
	return true
}

func getDBOrRespond(c *gin.Context) (*gorm.DB, bool) {
	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{Msg: "Database connection not available", Err: fmt.Errorf("db is nil")})
		return nil, false
	}
	return db, true
}

// doctorIDOrRespond returns the authenticated caller. Ownership is always
// taken from here, never from the request.
func doctorIDOrRespond(c *gin.Context) (string, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: "Authentication required", Err: fmt.Errorf("no authenticated user")})
		return "", false
	}
	return id, true
}

// scopedRequest resolves the database and the caller in one step.
func scopedRequest(c *gin.Context) (*gorm.DB, string, bool) {
	db, ok := getDBOrRespond(c)
	if !ok {
		return nil, "", false
	}
	doctorID, ok := doctorIDOrRespond(c)
	if !ok {
		return nil, "", false
	}
	return db, doctorID, true
}

// respondError maps service errors to HTTP statuses. msg is used for
// unexpected failures only.
func respondError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		util.CallErrorNotFound(c, util.APIErrorParams{Msg: err.Error(), Err: err})
	case errors.Is(err, service.ErrConflict):
		util.CallConflict(c, util.APIErrorParams{Msg: err.Error(), Err: err})
	case errors.Is(err, service.ErrUnauthorized):
		util.CallUserNotAuthorized(c, util.APIErrorParams{Msg: err.Error(), Err: err})
	case errors.Is(err, service.ErrValidation):
		util.CallUserError(c, util.APIErrorParams{Msg: err.Error(), Err: err})
	default:
		util.CallServerError(c, util.APIErrorParams{Msg: msg, Err: err})
	}
}

func clientInfo(c *gin.Context) service.ClientInfo {
	return service.ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

func parseDateOrRespond(c *gin.Context, raw, field string) (model.Date, bool) {
	d, err := model.ParseDate(raw)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field), Err: err})
		return model.Date{}, false
	}
	return d, true
}

// parseOptionalDate returns nil for an empty value.
func parseOptionalDate(c *gin.Context, raw *string, field string) (*model.Date, bool) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true
	}
	d, ok := parseDateOrRespond(c, *raw, field)
	if !ok {
		return nil, false
	}
	return &d, true
}

func parseTimeOrRespond(c *gin.Context, raw string) (string, bool) {
	t, err := model.NormalizeTimeOfDay(raw)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{Msg: "time must be in HH:MM format", Err: err})
		return "", false
	}
	return t, true
}

func deleted(c *gin.Context, msg string) {
	util.CallSuccessOK(c, util.APISuccessParams{Msg: msg, Data: map[string]interface{}{}})
}
