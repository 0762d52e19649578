package repository

import (
	"recipeshare_backend/internal/model"

	"gorm.io/gorm"
)

type FavoriteRepository struct {
	DB *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) *FavoriteRepository {
	return &FavoriteRepository{DB: db}
}

func (r *FavoriteRepository) Create(f *model.Favorite) error {
	return r.DB.Create(f).Error
}

func (r *FavoriteRepository) FindByID(id uint) (*model.Favorite, error) {
	var f model.Favorite
	err := r.DB.First(&f, id).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FavoriteRepository) FindByRecipe(userID, recipeID uint) (*model.Favorite, error) {
	var f model.Favorite
	err := r.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FavoriteRepository) FindByExternal(userID uint, externalID string) (*model.Favorite, error) {
	var f model.Favorite
	err := r.DB.Where("user_id = ? AND external_id = ?", userID, externalID).First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FavoriteRepository) ListByUser(userID uint) ([]model.Favorite, error) {
	var favs []model.Favorite
	err := r.DB.Preload("Recipe").Preload("Recipe.Author").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favs).Error
	return favs, err
}

func (r *FavoriteRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.Favorite{}, id).Error
}
