package controller

import (
	"errors"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type FriendshipController struct {
	FriendshipService *service.FriendshipService
	Hub               *service.ChatHub
}

func NewFriendshipController(friendshipService *service.FriendshipService, hub *service.ChatHub) *FriendshipController {
	return &FriendshipController{
		FriendshipService: friendshipService,
		Hub:               hub,
	}
}

// SendFriendRequestRequest 发送好友申请请求
type SendFriendRequestRequest struct {
	TargetUserID uint `json:"targetUserId" binding:"required" example:"2"`
}

// HandleFriendRequestRequest 处理好友申请请求
type HandleFriendRequestRequest struct {
	Accept bool `json:"accept" example:"true"`
}

// SendRequest godoc
// @Summary 发送好友申请
// @Description 对方已向自己发过申请时直接互相成为好友
// @Tags 好友
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SendFriendRequestRequest true "目标用户"
// @Success 201 {object} util.Response{data=model.Friendship} "申请已发送"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 409 {object} util.Response "已是好友或已有待处理申请"
// @Router /api/friends/requests [post]
func (c *FriendshipController) SendRequest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SendFriendRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	friendship, notif, err := c.FriendshipService.SendRequest(claims.UserID, req.TargetUserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrFriendSelf):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyFriends), errors.Is(err, util.ErrRequestPending):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if notif != nil && c.Hub != nil {
		c.Hub.PushToUser(notif.RecipientID, service.WSMessage{
			Type: service.EventNotification,
			Data: notif,
		})
	}
	util.Created(ctx, friendship)
}

// ListRequests godoc
// @Summary 收到的好友申请
// @Description 待处理申请按时间升序
// @Tags 好友
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Friendship} "成功"
// @Router /api/friends/requests [get]
func (c *FriendshipController) ListRequests(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	requests, err := c.FriendshipService.ListPendingRequests(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, requests)
}

// HandleRequest godoc
// @Summary 处理好友申请
// @Description 接受或拒绝；拒绝后对方可以重新发送申请
// @Tags 好友
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "申请ID"
// @Param body body HandleFriendRequestRequest true "处理结果"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "只有被申请人可以处理"
// @Failure 404 {object} util.Response "申请不存在"
// @Router /api/friends/requests/{id} [patch]
func (c *FriendshipController) HandleRequest(ctx *gin.Context) {
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

	var req HandleFriendRequestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	friendship, notif, err := c.FriendshipService.HandleRequest(id, claims.UserID, req.Accept)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrRequestNotFound), errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyFriends):
			util.Conflict(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	if notif != nil && c.Hub != nil {
		c.Hub.PushToUser(notif.RecipientID, service.WSMessage{
			Type: service.EventNotification,
			Data: notif,
		})
	}
	util.Success(ctx, friendship)
}

// ListFriends godoc
// @Summary 好友列表
// @Tags 好友
// @Produce json
// @Security ApiKeyAuth
// @Param q query string false "昵称关键词"
// @Success 200 {object} util.Response{data=[]model.PublicProfile} "成功"
// @Router /api/friends [get]
func (c *FriendshipController) ListFriends(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friends, err := c.FriendshipService.ListFriends(claims.UserID, ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	profiles := make([]model.PublicProfile, 0, len(friends))
	for i := range friends {
		profile := friends[i].Public()
		if c.Hub != nil {
			profile.Online = c.Hub.IsUserOnline(friends[i].ID)
		}
		profiles = append(profiles, profile)
	}
	util.Success(ctx, profiles)
}

// RemoveFriend godoc
// @Summary 删除好友
// @Tags 好友
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "好友用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "不是好友"
// @Router /api/friends/{id} [delete]
func (c *FriendshipController) RemoveFriend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	friendID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.FriendshipService.RemoveFriend(claims.UserID, friendID); err != nil {
		if errors.Is(err, util.ErrRequestNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
