package repository

import (
	"recipeshare_backend/internal/model"

	"gorm.io/gorm"
)

type RecipeRepository struct {
	DB *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{DB: db}
}

func (r *RecipeRepository) Create(recipe *model.Recipe) error {
	return r.DB.Create(recipe).Error
}

func (r *RecipeRepository) FindByID(id uint) (*model.Recipe, error) {
	var recipe model.Recipe
	err := r.DB.Preload("Author").Preload("Category").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("ingredients.position ASC")
		}).
		First(&recipe, id).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// RecipeFilter 列表查询条件
type RecipeFilter struct {
	CategoryID uint
	AuthorID   uint
	Query      string
}

func (r *RecipeRepository) List(filter RecipeFilter, limit, offset int) ([]model.Recipe, int64, error) {
	var recipes []model.Recipe
	var total int64

	db := r.DB.Model(&model.Recipe{}).Where("published = ?", true)

	if filter.CategoryID > 0 {
		db = db.Where("category_id = ?", filter.CategoryID)
	}
	if filter.AuthorID > 0 {
		db = db.Where("author_id = ?", filter.AuthorID)
	}
	if filter.Query != "" {
		searchTerm := "%" + filter.Query + "%"
		db = db.Where("title LIKE ? OR description LIKE ?", searchTerm, searchTerm)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Author").Preload("Category").
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&recipes).Error

	return recipes, total, err
}

// Update 更新食谱，配料整体替换
func (r *RecipeRepository) Update(recipe *model.Recipe, ingredients []model.Ingredient) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&model.Ingredient{}).Error; err != nil {
			return err
		}
		for i := range ingredients {
			ingredients[i].ID = 0
			ingredients[i].RecipeID = recipe.ID
		}
		if len(ingredients) == 0 {
			return nil
		}
		return tx.Create(&ingredients).Error
	})
}

func (r *RecipeRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&model.Ingredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Recipe{}, id).Error
	})
}

func (r *RecipeRepository) UpdateImageURL(id uint, url string) error {
	return r.DB.Model(&model.Recipe{}).Where("id = ?", id).
		Update("image_url", url).Error
}

func (r *RecipeRepository) IncrementViews(id uint) error {
	return r.DB.Model(&model.Recipe{}).Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
}

// UpdateRatingStats 评分写入后刷新冗余的平均分和数量
func (r *RecipeRepository) UpdateRatingStats(recipeID uint) error {
	return r.DB.Exec(
		"UPDATE recipes SET avg_rating = (SELECT COALESCE(AVG(value), 0) FROM ratings WHERE recipe_id = ?), rating_count = (SELECT COUNT(*) FROM ratings WHERE recipe_id = ?) WHERE id = ?",
		recipeID, recipeID, recipeID,
	).Error
}

func (r *RecipeRepository) ListCategories() ([]model.Category, error) {
	var categories []model.Category
	err := r.DB.Order("id ASC").Find(&categories).Error
	return categories, err
}
