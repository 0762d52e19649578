package repository

import (
	"recipeshare_backend/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	DB *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{DB: db}
}

func (r *CommentRepository) Create(c *model.Comment) error {
	return r.DB.Create(c).Error
}

func (r *CommentRepository) FindByID(id string) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListByRecipe 按创建时间升序展示
func (r *CommentRepository) ListByRecipe(recipeID uint) ([]model.Comment, error) {
	var comments []model.Comment
	err := r.DB.Preload("Author").
		Where("recipe_id = ?", recipeID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

func (r *CommentRepository) Delete(id string) error {
	return r.DB.Unscoped().Delete(&model.Comment{}, "id = ?", id).Error
}
