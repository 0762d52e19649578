package repository

import (
	"recipeshare_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct {
	DB *gorm.DB
}

func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{DB: db}
}

// Upsert 同一用户重复评分时覆盖原值
func (r *RatingRepository) Upsert(rating *model.Rating) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "recipe_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(rating).Error
}

func (r *RatingRepository) FindByUserAndRecipe(userID, recipeID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.DB.Where("user_id = ? AND recipe_id = ?", userID, recipeID).First(&rating).Error
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepository) ListByRecipe(recipeID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.DB.Preload("User").
		Where("recipe_id = ?", recipeID).
		Order("created_at DESC").
		Find(&ratings).Error
	return ratings, err
}
