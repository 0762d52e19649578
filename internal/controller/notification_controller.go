package controller

import (
	"errors"

	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type NotificationController struct {
	NotificationService *service.NotificationService
}

func NewNotificationController(notificationService *service.NotificationService) *NotificationController {
	return &NotificationController{NotificationService: notificationService}
}

// ListNotifications godoc
// @Summary 通知列表
// @Description 按时间倒序，好友申请通知会关联申请人信息
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Notification} "成功"
// @Router /api/notifications [get]
func (c *NotificationController) ListNotifications(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	notifications, err := c.NotificationService.ListForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, notifications)
}

// UnreadCount godoc
// @Summary 未读通知数
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /api/notifications/unread-count [get]
func (c *NotificationController) UnreadCount(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	count, err := c.NotificationService.UnreadCount(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"count": count})
}

// MarkRead godoc
// @Summary 标记通知已读
// @Description 重复标记已读返回成功
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "通知ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "非本人通知"
// @Failure 404 {object} util.Response "通知不存在"
// @Router /api/notifications/{id}/read [patch]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.NotificationService.MarkRead(claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// MarkAllRead godoc
// @Summary 全部标记已读
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /api/notifications/read-all [patch]
func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.NotificationService.MarkAllRead(claims.UserID); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Dismiss godoc
// @Summary 删除通知
// @Tags 通知
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "通知ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "非本人通知"
// @Failure 404 {object} util.Response "通知不存在"
// @Router /api/notifications/{id} [delete]
func (c *NotificationController) Dismiss(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.NotificationService.Dismiss(claims.UserID, id); err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
