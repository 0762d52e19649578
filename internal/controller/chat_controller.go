package controller

import (
	"errors"
	"time"

	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ChatController 私信会话与消息
type ChatController struct {
	ChatService *service.ChatService
	Hub         *service.ChatHub
}

func NewChatController(chatService *service.ChatService, hub *service.ChatHub) *ChatController {
	return &ChatController{
		ChatService: chatService,
		Hub:         hub,
	}
}

// CreateConversationRequest 创建会话请求
type CreateConversationRequest struct {
	TargetUserID uint `json:"targetUserId" binding:"required" example:"2"`
}

// SendMessageRequest 发送消息请求
type SendMessageRequest struct {
	Content string `json:"content" binding:"required" example:"周末一起做饭吗"`
}

// HandleWS godoc
// @Summary WebSocket 连接
// @Description 建立 WebSocket 连接以接收实时消息和通知
// @Tags 私信
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   token query string true "JWT Token"
// @Success 101 {string} string "Switching Protocols"
// @Router /api/chat/ws [get]
func (ctrl *ChatController) HandleWS(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}
	service.ServeWs(ctrl.Hub, c.Writer, c.Request, claims.UserID)
}

// CreateConversation godoc
// @Summary 创建或获取会话
// @Description 与目标用户已有会话则返回现有会话(200)，否则新建(201)
// @Tags 私信
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   request body CreateConversationRequest true "目标用户"
// @Success 200 {object} util.Response{data=model.Conversation} "已存在"
// @Success 201 {object} util.Response{data=model.Conversation} "新建成功"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 404 {object} util.Response "目标用户不存在"
// @Router /api/conversations [post]
func (ctrl *ChatController) CreateConversation(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	conv, created, err := ctrl.ChatService.GetOrCreateConversation(claims.UserID, req.TargetUserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrConversationSelf):
			util.BadRequest(c, err.Error())
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}

	if created {
		util.Created(c, conv)
		return
	}
	util.Success(c, conv)
}

// ListConversations godoc
// @Summary 会话列表
// @Description 按最近活跃排序，附带对方资料和最后一条消息
// @Tags 私信
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.ConversationSummary} "成功"
// @Router /api/conversations [get]
func (ctrl *ChatController) ListConversations(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	summaries, err := ctrl.ChatService.ListConversations(claims.UserID)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, summaries)
}

// ListMessages godoc
// @Summary 会话消息
// @Description 按时间升序返回会话的全部消息，仅参与者可见
// @Tags 私信
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Success 200 {object} util.Response{data=[]model.Message} "成功"
// @Failure 403 {object} util.Response "非会话参与者"
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/conversations/{id}/messages [get]
func (ctrl *ChatController) ListMessages(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	convID, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	messages, err := ctrl.ChatService.ListMessages(convID, claims.UserID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrNotParticipant):
			util.Forbidden(c)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}
	util.Success(c, messages)
}

// SendMessage godoc
// @Summary 发送消息
// @Description 发送后实时推送给对方，内容限 1000 字
// @Tags 私信
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "会话ID"
// @Param   request body SendMessageRequest true "消息内容"
// @Success 201 {object} util.Response{data=model.Message} "发送成功"
// @Failure 400 {object} util.Response "内容为空或超长"
// @Failure 403 {object} util.Response "非会话参与者"
// @Router /api/conversations/{id}/messages [post]
func (ctrl *ChatController) SendMessage(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	convID, err := util.ParseUint(c.Param("id"))
	if err != nil {
		util.BadRequest(c, "invalid id")
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.BadRequest(c, err.Error())
		return
	}

	msg, conv, err := ctrl.ChatService.SendMessage(convID, claims.UserID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMessageEmpty), errors.Is(err, util.ErrMessageTooLong):
			util.BadRequest(c, err.Error())
		case errors.Is(err, util.ErrNotParticipant):
			util.Forbidden(c)
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(c)
		default:
			util.LogInternalError(c, err)
		}
		return
	}

	// 实时推送给对方
	other := conv.User1ID
	if other == claims.UserID {
		other = conv.User2ID
	}
	ctrl.Hub.PushToUser(other, service.WSMessage{
		Type: service.EventNewMessage,
		Data: msg,
	})

	util.Created(c, msg)
}

// HasNewMessages godoc
// @Summary 新消息检查
// @Description 检查自 lastViewed 之后是否有发给自己的新消息（WebSocket 断开时的轮询兜底）
// @Tags 私信
// @Produce  json
// @Security ApiKeyAuth
// @Param   lastViewed query string true "上次查看时间，毫秒时间戳或 RFC3339"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "时间格式错误"
// @Router /api/messages/has-new [get]
func (ctrl *ChatController) HasNewMessages(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		util.Unauthorized(c)
		return
	}

	lastViewedStr := c.Query("lastViewed")
	var lastViewed time.Time
	if lastViewedStr != "" {
		var err error
		lastViewed, err = util.ParseTimestamp(lastViewedStr)
		if err != nil {
			util.BadRequest(c, "invalid lastViewed")
			return
		}
	}

	hasNew, err := ctrl.ChatService.HasNewMessages(claims.UserID, lastViewed)
	if err != nil {
		util.LogInternalError(c, err)
		return
	}
	util.Success(c, gin.H{"hasNew": hasNew})
}
