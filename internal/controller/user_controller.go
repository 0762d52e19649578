package controller

import (
	"fmt"
	"path/filepath"
	"strings"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService    *service.UserService
	StorageService *service.StorageService
}

func NewUserController(userService *service.UserService, storageService *service.StorageService) *UserController {
	return &UserController{
		UserService:    userService,
		StorageService: storageService,
	}
}

// GetUser godoc
// @Summary 查看用户公开资料
// @Tags 用户
// @Produce json
// @Param id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.PublicProfile} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	user, err := c.UserService.GetByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, user.Public())
}

// SearchUsers godoc
// @Summary 按昵称或邮箱搜索用户
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param q query string true "关键词"
// @Success 200 {object} util.Response{data=[]model.PublicProfile} "成功"
// @Router /api/users/search [get]
func (c *UserController) SearchUsers(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		util.Success(ctx, []model.PublicProfile{})
		return
	}

	users, err := c.UserService.Search(query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	profiles := make([]model.PublicProfile, 0, len(users))
	for i := range users {
		profiles = append(profiles, users[i].Public())
	}
	util.Success(ctx, profiles)
}

// UpdateProfile godoc
// @Summary 更新个人资料
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.UpdateProfileInput true "资料字段"
// @Success 200 {object} util.Response{data=model.PublicProfile} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.UpdateProfileInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, input)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, user.Public())
}

// UploadAvatar godoc
// @Summary 上传自定义头像
// @Tags 用户
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param avatar formData file true "头像文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件缺失或类型不支持"
// @Router /api/profile/avatar [post]
func (c *UserController) UploadAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".webp": true}
	if !allowed[ext] {
		util.BadRequest(ctx, "unsupported file type")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	filename := fmt.Sprintf("avatars/%d_%s%s", claims.UserID, model.GenerateUUID(), ext)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	user, err := c.UserService.SetAvatar(claims.UserID, url)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"avatar": user.Avatar})
}

// SetAvatarPresetRequest 选择预设头像请求
type SetAvatarPresetRequest struct {
	Name string `json:"name" binding:"required" example:"chef-hat"`
}

// SetAvatarPreset godoc
// @Summary 选择预设头像
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SetAvatarPresetRequest true "预设名称"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "预设不存在"
// @Router /api/profile/avatar/preset [put]
func (c *UserController) SetAvatarPreset(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SetAvatarPresetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.SetAvatarPreset(claims.UserID, req.Name)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, gin.H{"avatar": user.Avatar, "avatarPreset": user.AvatarPreset})
}

// ListAvatarPresets godoc
// @Summary 预设头像列表
// @Tags 用户
// @Produce json
// @Success 200 {object} util.Response{data=[]model.AvatarPresetOption} "成功"
// @Router /api/avatar-presets [get]
func (c *UserController) ListAvatarPresets(ctx *gin.Context) {
	presets, err := c.UserService.ListAvatarPresets()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, presets)
}
