package endpoint

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ariebrainware/docflow-schedule/config"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

type HealthStatus struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
	Redis    string `json:"redis" example:"disabled"`
	Time     string `json:"time" example:"2025-01-15T09:30:00Z"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports database and Redis reachability. Returns 503 when the database is down.
// @Tags         Health
// @Produce      json
// @Success      200 {object} util.APIResponse{data=HealthStatus}
// @Failure      503 {object} util.APIResponse{data=HealthStatus}
// @Router       /health [get]
func Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := HealthStatus{Status: "ok", Database: "up", Redis: "disabled", Time: time.Now().UTC().Format(time.RFC3339)}

	db, ok := getDBOrRespond(c)
	if !ok {
		return
	}
	sqlDB, err := db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status.Status = "degraded"
		status.Database = "down"
	}

	if rdb := config.GetRedisClient(); rdb != nil {
		status.Redis = "up"
		if rerr := rdb.Ping(ctx).Err(); rerr != nil {
			status.Redis = "down"
		}
	}

	if status.Database == "down" {
		c.JSON(http.StatusServiceUnavailable, util.APIResponse{
			Success: false,
			Error:   fmt.Sprintf("database unreachable: %v", err),
			Msg:     "Service unavailable",
			Data:    status,
		})
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Service healthy", Data: status})
}
