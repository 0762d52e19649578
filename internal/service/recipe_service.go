package service

import (
	"errors"
	"strings"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"

	"gorm.io/gorm"
)

type RecipeService struct {
	RecipeRepo *repository.RecipeRepository
}

func NewRecipeService(recipeRepo *repository.RecipeRepository) *RecipeService {
	return &RecipeService{RecipeRepo: recipeRepo}
}

// RecipeInput 创建/更新食谱的入参
type RecipeInput struct {
	Title        string            `json:"title" binding:"required"`
	Description  string            `json:"description"`
	Instructions string            `json:"instructions" binding:"required"`
	ImageURL     string            `json:"imageUrl"`
	PrepMinutes  int               `json:"prepMinutes"`
	CookMinutes  int               `json:"cookMinutes"`
	Servings     int               `json:"servings"`
	CategoryID   *uint             `json:"categoryId"`
	Ingredients  []IngredientInput `json:"ingredients"`
	Published    *bool             `json:"published"`
}

type IngredientInput struct {
	Name     string  `json:"name" binding:"required"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

func (s *RecipeService) Create(authorID uint, input RecipeInput) (*model.Recipe, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, errors.New("标题不能为空")
	}

	recipe := &model.Recipe{
		AuthorID:     authorID,
		Title:        strings.TrimSpace(input.Title),
		Description:  input.Description,
		Instructions: input.Instructions,
		ImageURL:     input.ImageURL,
		PrepMinutes:  input.PrepMinutes,
		CookMinutes:  input.CookMinutes,
		Servings:     input.Servings,
		CategoryID:   input.CategoryID,
		Published:    true,
	}
	if input.Servings <= 0 {
		recipe.Servings = 1
	}
	if input.Published != nil {
		recipe.Published = *input.Published
	}
	for i, ing := range input.Ingredients {
		recipe.Ingredients = append(recipe.Ingredients, model.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Position: i,
		})
	}

	if err := s.RecipeRepo.Create(recipe); err != nil {
		return nil, err
	}
	return s.RecipeRepo.FindByID(recipe.ID)
}

// GetDetail 食谱详情，访问时浏览数 +1（作者看自己的不计数，viewerID 为 0 表示游客）
func (s *RecipeService) GetDetail(id uint, viewerID uint) (*model.Recipe, error) {
	recipe, err := s.RecipeRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if viewerID != recipe.AuthorID {
		_ = s.RecipeRepo.IncrementViews(id)
		recipe.Views++
	}
	return recipe, nil
}

func (s *RecipeService) List(filter repository.RecipeFilter, page, limit int) ([]model.Recipe, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.RecipeRepo.List(filter, limit, (page-1)*limit)
}

// Update 仅作者可修改，配料整体替换
func (s *RecipeService) Update(id, userID uint, input RecipeInput) (*model.Recipe, error) {
	recipe, err := s.RecipeRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, util.ErrPermissionDenied
	}

	recipe.Title = strings.TrimSpace(input.Title)
	recipe.Description = input.Description
	recipe.Instructions = input.Instructions
	recipe.ImageURL = input.ImageURL
	recipe.PrepMinutes = input.PrepMinutes
	recipe.CookMinutes = input.CookMinutes
	if input.Servings > 0 {
		recipe.Servings = input.Servings
	}
	recipe.CategoryID = input.CategoryID
	if input.Published != nil {
		recipe.Published = *input.Published
	}

	var ingredients []model.Ingredient
	for i, ing := range input.Ingredients {
		ingredients = append(ingredients, model.Ingredient{
			Name:     ing.Name,
			Quantity: ing.Quantity,
			Unit:     ing.Unit,
			Position: i,
		})
	}
	recipe.Ingredients = nil

	if err := s.RecipeRepo.Update(recipe, ingredients); err != nil {
		return nil, err
	}
	return s.RecipeRepo.FindByID(id)
}

// SetImage 仅作者可更换封面图
func (s *RecipeService) SetImage(id, userID uint, url string) error {
	recipe, err := s.RecipeRepo.FindByID(id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != userID {
		return util.ErrPermissionDenied
	}
	return s.RecipeRepo.UpdateImageURL(id, url)
}

// Delete 仅作者可删除
func (s *RecipeService) Delete(id, userID uint) error {
	recipe, err := s.RecipeRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrRecipeNotFound
		}
		return err
	}
	if recipe.AuthorID != userID {
		return util.ErrPermissionDenied
	}
	return s.RecipeRepo.Delete(id)
}

func (s *RecipeService) ListCategories() ([]model.Category, error) {
	return s.RecipeRepo.ListCategories()
}
