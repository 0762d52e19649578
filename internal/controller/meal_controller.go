package controller

import (
	"strings"

	"recipeshare_backend/internal/service"
	"recipeshare_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// MealController 第三方食谱 API 代理
type MealController struct {
	MealAPIService *service.MealAPIService
}

func NewMealController(mealAPIService *service.MealAPIService) *MealController {
	return &MealController{MealAPIService: mealAPIService}
}

// SearchMeals godoc
// @Summary 搜索第三方食谱
// @Tags 外部食谱
// @Produce json
// @Param q query string true "菜名关键词"
// @Success 200 {object} util.Response{data=[]object} "成功"
// @Failure 500 {object} util.Response "上游 API 不可用"
// @Router /api/meals/search [get]
func (c *MealController) SearchMeals(ctx *gin.Context) {
	query := strings.TrimSpace(ctx.Query("q"))
	if query == "" {
		util.BadRequest(ctx, "q is required")
		return
	}

	meals, err := c.MealAPIService.Search(ctx.Request.Context(), query)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, meals)
}

// GetMeal godoc
// @Summary 第三方食谱详情
// @Tags 外部食谱
// @Produce json
// @Param id path string true "上游食谱ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 404 {object} util.Response "食谱不存在"
// @Router /api/meals/{id} [get]
func (c *MealController) GetMeal(ctx *gin.Context) {
	meal, err := c.MealAPIService.GetByID(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if meal == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, meal)
}

// RandomMeal godoc
// @Summary 随机第三方食谱
// @Tags 外部食谱
// @Produce json
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 500 {object} util.Response "上游 API 不可用"
// @Router /api/meals/random [get]
func (c *MealController) RandomMeal(ctx *gin.Context) {
	meal, err := c.MealAPIService.Random(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if meal == nil {
		util.NotFound(ctx)
		return
	}
	util.Success(ctx, meal)
}

// MealCategories godoc
// @Summary 第三方食谱分类
// @Tags 外部食谱
// @Produce json
// @Success 200 {object} util.Response{data=[]object} "成功"
// @Failure 500 {object} util.Response "上游 API 不可用"
// @Router /api/meals/categories [get]
func (c *MealController) MealCategories(ctx *gin.Context) {
	categories, err := c.MealAPIService.Categories(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, categories)
}
