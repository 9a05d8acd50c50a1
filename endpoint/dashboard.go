package endpoint

import (
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

// DashboardStats godoc
// @Summary      Dashboard statistics
// @Description  Appointments today and this week (Sunday to Saturday), total patients, and upcoming appointments still scheduled or confirmed
// @Tags         Dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=service.DashboardStats}
// @Router       /dashboard/stats [get]
func DashboardStats(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	stats, err := service.NewDashboardService(db).Stats(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err, "Failed to compute dashboard statistics")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Dashboard statistics retrieved", Data: stats})
}
