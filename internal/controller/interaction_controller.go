package controller

import (
	"errors"

	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InteractionController 收藏、评分、评论
type InteractionController struct {
	FavoriteService *service.FavoriteService
	RatingService   *service.RatingService
	CommentService  *service.CommentService
	Hub             *service.ChatHub
}

func NewInteractionController(favoriteService *service.FavoriteService, ratingService *service.RatingService, commentService *service.CommentService, hub *service.ChatHub) *InteractionController {
	return &InteractionController{
		FavoriteService: favoriteService,
		RatingService:   ratingService,
		CommentService:  commentService,
		Hub:             hub,
	}
}

// AddFavorite godoc
// @Summary 收藏食谱
// @Description 本站食谱传 recipeId，第三方食谱传 externalId 及快照字段
// @Tags 互动
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.FavoriteInput true "收藏目标"
// @Success 201 {object} util.Response{data=model.Favorite} "成功"
// @Failure 400 {object} util.Response "参数错误"
// @Failure 409 {object} util.Response "已收藏"
// @Router /api/favorites [post]
func (c *InteractionController) AddFavorite(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.FavoriteInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	fav, err := c.FavoriteService.Add(claims.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAlreadyFavorited):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrRecipeNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrFavoriteTarget):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, fav)
}

// RemoveFavorite godoc
// @Summary 取消收藏
// @Tags 互动
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "收藏ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/favorites/{id} [delete]
func (c *InteractionController) RemoveFavorite(ctx *gin.Context) {
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

	if err := c.FavoriteService.Remove(claims.UserID, id); err != nil {
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

// ListFavorites godoc
// @Summary 我的收藏
// @Tags 互动
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Favorite} "成功"
// @Router /api/favorites [get]
func (c *InteractionController) ListFavorites(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	favorites, err := c.FavoriteService.List(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, favorites)
}

// RateRequest 评分请求
type RateRequest struct {
	Value int `json:"value" binding:"required,min=1,max=5" example:"5"`
}

// RateRecipe godoc
// @Summary 给食谱评分
// @Description 1-5 分，重复评分覆盖旧值
// @Tags 互动
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "食谱ID"
// @Param body body RateRequest true "分值"
// @Success 200 {object} util.Response{data=model.Rating} "成功"
// @Failure 400 {object} util.Response "分值越界"
// @Failure 404 {object} util.Response "食谱不存在"
// @Router /api/recipes/{id}/ratings [post]
func (c *InteractionController) RateRecipe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	recipeID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req RateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rating, notif, err := c.RatingService.Rate(claims.UserID, recipeID, req.Value)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrRatingOutOfRange):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrRecipeNotFound):
			util.NotFound(ctx)
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
	util.Success(ctx, rating)
}

// ListRatings godoc
// @Summary 食谱评分列表
// @Tags 互动
// @Produce json
// @Param id path int true "食谱ID"
// @Success 200 {object} util.Response{data=[]model.Rating} "成功"
// @Router /api/recipes/{id}/ratings [get]
func (c *InteractionController) ListRatings(ctx *gin.Context) {
	recipeID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	ratings, err := c.RatingService.ListByRecipe(recipeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, ratings)
}

// CommentRequest 评论请求
type CommentRequest struct {
	Content string `json:"content" binding:"required" example:"看起来很好吃！"`
}

// CreateComment godoc
// @Summary 评论食谱
// @Tags 互动
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "食谱ID"
// @Param body body CommentRequest true "评论内容"
// @Success 201 {object} util.Response{data=model.Comment} "成功"
// @Failure 400 {object} util.Response "内容为空或超长"
// @Failure 404 {object} util.Response "食谱不存在"
// @Router /api/recipes/{id}/comments [post]
func (c *InteractionController) CreateComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	recipeID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	comment, notif, err := c.CommentService.Create(claims.UserID, recipeID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrMessageEmpty), errors.Is(err, util.ErrMessageTooLong):
			util.BadRequest(ctx, err.Error())
		case errors.Is(err, util.ErrRecipeNotFound):
			util.NotFound(ctx)
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
	util.Created(ctx, comment)
}

// ListComments godoc
// @Summary 食谱评论列表
// @Tags 互动
// @Produce json
// @Param id path int true "食谱ID"
// @Success 200 {object} util.Response{data=[]model.Comment} "成功"
// @Router /api/recipes/{id}/comments [get]
func (c *InteractionController) ListComments(ctx *gin.Context) {
	recipeID, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	comments, err := c.CommentService.ListByRecipe(recipeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, comments)
}

// DeleteComment godoc
// @Summary 删除评论
// @Description 评论作者或食谱作者可删除
// @Tags 互动
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "评论ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Router /api/comments/{id} [delete]
func (c *InteractionController) DeleteComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.CommentService.Delete(ctx.Param("id"), claims.UserID); err != nil {
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
