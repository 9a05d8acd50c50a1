package endpoint

import (
	"github.com/ariebrainware/docflow-schedule/model"
	"github.com/ariebrainware/docflow-schedule/scope"
	"github.com/ariebrainware/docflow-schedule/service"
	"github.com/ariebrainware/docflow-schedule/util"
	"github.com/gin-gonic/gin"
)

type createNotificationRequest struct {
	Title   string                 `json:"title" binding:"required,max=255" example:"Appointment reminder"`
	Message string                 `json:"message" binding:"required" example:"John Smith at 09:30 tomorrow"`
	Type    model.NotificationType `json:"type" binding:"omitempty,oneof=appointment reminder alert info" example:"reminder"`
}

type notificationListQuery struct {
	Read *bool                  `form:"read"`
	Type model.NotificationType `form:"type" binding:"omitempty,oneof=appointment reminder alert info"`
	scope.PageRequest
}

// CreateNotification godoc
// @Summary      Create a notification
// @Tags         Notification
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body createNotificationRequest true "Notification"
// @Success      201 {object} util.APIResponse{data=model.Notification}
// @Failure      400 {object} util.APIResponse "Invalid request payload"
// @Router       /notifications [post]
func CreateNotification(c *gin.Context) {
	var req createNotificationRequest
	if !bindJSONOrRespond(c, &req, "Invalid request payload") {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	n, err := service.NewNotificationService(db).Create(c.Request.Context(), doctorID, service.NotificationInput{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
	})
	if err != nil {
		respondError(c, err, "Failed to create notification")
		return
	}
	util.CallCreated(c, util.APISuccessParams{Msg: "Notification created", Data: n})
}

// ListNotifications godoc
// @Summary      List notifications
// @Description  Newest first
// @Tags         Notification
// @Produce      json
// @Security     BearerAuth
// @Param        read query bool false "Filter by read flag"
// @Param        type query string false "Filter by type"
// @Param        page query int false "Page number" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} util.APIResponse{data=scope.Page[model.Notification]}
// @Router       /notifications [get]
func ListNotifications(c *gin.Context) {
	var q notificationListQuery
	if !bindQueryOrRespond(c, &q) {
		return
	}
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	page, err := service.NewNotificationService(db).List(c.Request.Context(), doctorID, service.NotificationQuery{
		Read:        q.Read,
		Type:        q.Type,
		PageRequest: q.PageRequest,
	})
	if err != nil {
		respondError(c, err, "Failed to retrieve notifications")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Notifications retrieved", Data: page})
}

// GetNotification godoc
// @Summary      Get a notification
// @Tags         Notification
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200 {object} util.APIResponse{data=model.Notification}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /notifications/{id} [get]
func GetNotification(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	n, err := service.NewNotificationService(db).Get(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve notification")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Notification retrieved", Data: n})
}

// MarkNotificationRead godoc
// @Summary      Mark a notification read
// @Tags         Notification
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200 {object} util.APIResponse{data=model.Notification}
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /notifications/{id}/read [patch]
func MarkNotificationRead(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	n, err := service.NewNotificationService(db).MarkRead(c.Request.Context(), doctorID, c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to update notification")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Notification marked as read", Data: n})
}

// MarkAllNotificationsRead godoc
// @Summary      Mark all notifications read
// @Tags         Notification
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} util.APIResponse{data=map[string]int64} "updated count"
// @Router       /notifications/read-all [patch]
func MarkAllNotificationsRead(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	n, err := service.NewNotificationService(db).MarkAllRead(c.Request.Context(), doctorID)
	if err != nil {
		respondError(c, err, "Failed to update notifications")
		return
	}
	util.CallSuccessOK(c, util.APISuccessParams{Msg: "Notifications marked as read", Data: map[string]int64{"updated": n}})
}

// DeleteNotification godoc
// @Summary      Delete a notification
// @Tags         Notification
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200 {object} util.APIResponse
// @Failure      404 {object} util.APIResponse "Not found"
// @Router       /notifications/{id} [delete]
func DeleteNotification(c *gin.Context) {
	db, doctorID, ok := scopedRequest(c)
	if !ok {
		return
	}
	if err := service.NewNotificationService(db).Delete(c.Request.Context(), doctorID, c.Param("id")); err != nil {
		respondError(c, err, "Failed to delete notification")
		return
	}
	deleted(c, "Notification deleted")
}
