package controller

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RecipeController struct {
	RecipeService  *service.RecipeService
	StorageService *service.StorageService
}

func NewRecipeController(recipeService *service.RecipeService, storageService *service.StorageService) *RecipeController {
	return &RecipeController{
		RecipeService:  recipeService,
		StorageService: storageService,
	}
}

// CreateRecipe godoc
// @Summary 发布食谱
// @Tags 食谱
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.RecipeInput true "食谱内容"
// @Success 201 {object} util.Response{data=model.Recipe} "创建成功"
// @Failure 400 {object} util.Response "参数错误"
// @Router /api/recipes [post]
func (c *RecipeController) CreateRecipe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.RecipeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	recipe, err := c.RecipeService.Create(claims.UserID, input)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, recipe)
}

// ListRecipes godoc
// @Summary 食谱列表
// @Description 支持分类、作者、关键词过滤与分页
// @Tags 食谱
// @Produce json
// @Param page query int false "页码，默认1"
// @Param limit query int false "每页数量，默认20"
// @Param categoryId query int false "分类ID"
// @Param authorId query int false "作者ID"
// @Param q query string false "标题关键词"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /api/recipes [get]
func (c *RecipeController) ListRecipes(ctx *gin.Context) {
	page := util.ParseIntDefault(ctx.Query("page"), 1)
	limit := util.ParseIntDefault(ctx.Query("limit"), 20)

	filter := repository.RecipeFilter{
		Query: ctx.Query("q"),
	}
	filter.CategoryID = util.ParseUintDefault(ctx.Query("categoryId"), 0)
	filter.AuthorID = util.ParseUintDefault(ctx.Query("authorId"), 0)

	recipes, total, err := c.RecipeService.List(filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  recipes,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetRecipe godoc
// @Summary 食谱详情
// @Tags 食谱
// @Produce json
// @Param id path int true "食谱ID"
// @Success 200 {object} util.Response{data=model.Recipe} "成功"
// @Failure 404 {object} util.Response "食谱不存在"
// @Router /api/recipes/{id} [get]
func (c *RecipeController) GetRecipe(ctx *gin.Context) {
	id, err := util.ParseUint(ctx.Param("id"))
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	recipe, err := c.RecipeService.GetDetail(id, viewerID)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, recipe)
}

// UpdateRecipe godoc
// @Summary 修改食谱
// @Description 仅作者可修改，配料整体替换
// @Tags 食谱
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "食谱ID"
// @Param body body service.RecipeInput true "食谱内容"
// @Success 200 {object} util.Response{data=model.Recipe} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "食谱不存在"
// @Router /api/recipes/{id} [put]
func (c *RecipeController) UpdateRecipe(ctx *gin.Context) {
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

	var input service.RecipeInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	recipe, err := c.RecipeService.Update(id, claims.UserID, input)
	if err != nil {
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
	util.Success(ctx, recipe)
}

// DeleteRecipe godoc
// @Summary 删除食谱
// @Tags 食谱
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "食谱ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "食谱不存在"
// @Router /api/recipes/{id} [delete]
func (c *RecipeController) DeleteRecipe(ctx *gin.Context) {
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

	if err := c.RecipeService.Delete(id, claims.UserID); err != nil {
		switch {
		case errors.Is(err, util.ErrPermissionDenied):
			util.Forbidden(ctx)
		case errors.Is(err, util.ErrRecipeNotFound):
			util.NotFound(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// UploadRecipeImage godoc
// @Summary 上传食谱封面图
// @Description 仅作者可上传，支持 png/jpg/jpeg/webp
// @Tags 食谱
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "食谱ID"
// @Param image formData file true "图片文件"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 400 {object} util.Response "文件缺失或类型不支持"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "食谱不存在"
// @Router /api/recipes/{id}/image [post]
func (c *RecipeController) UploadRecipeImage(ctx *gin.Context) {
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

	file, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "image file is required")
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

	filename := fmt.Sprintf("recipes/%d_%s%s", id, model.GenerateUUID(), ext)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := c.RecipeService.SetImage(id, claims.UserID, url); err != nil {
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
	util.Success(ctx, gin.H{"imageUrl": url})
}

// ListCategories godoc
// @Summary 分类列表
// @Tags 食谱
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Category} "成功"
// @Router /api/categories [get]
func (c *RecipeController) ListCategories(ctx *gin.Context) {
	categories, err := c.RecipeService.ListCategories()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}
