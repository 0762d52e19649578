package service

import (
	"fmt"

	"recipeshare_backend/internal/model"
	"recipeshare_backend/internal/repository"
	"recipeshare_backend/internal/util"
)

type RatingService struct {
	RatingRepo *repository.RatingRepository
	RecipeRepo *repository.RecipeRepository
	NotifRepo  *repository.NotificationRepository
	UserRepo   *repository.UserRepository
}

func NewRatingService(ratingRepo *repository.RatingRepository, recipeRepo *repository.RecipeRepository, notifRepo *repository.NotificationRepository, userRepo *repository.UserRepository) *RatingService {
	return &RatingService{
		RatingRepo: ratingRepo,
		RecipeRepo: recipeRepo,
		NotifRepo:  notifRepo,
		UserRepo:   userRepo,
	}
}

// Rate 评分（重复评分覆盖），刷新食谱冗余均分，并通知作者
// 给自己的食谱评分不产生通知。返回的通知用于 WebSocket 推送。
func (s *RatingService) Rate(userID, recipeID uint, value int) (*model.Rating, *model.Notification, error) {
	if value < 1 || value > 5 {
		return nil, nil, util.ErrRatingOutOfRange
	}

	recipe, err := s.RecipeRepo.FindByID(recipeID)
	if err != nil {
		return nil, nil, util.ErrRecipeNotFound
	}

	rating := &model.Rating{
		UserID:   userID,
		RecipeID: recipeID,
		Value:    value,
	}
	if err := s.RatingRepo.Upsert(rating); err != nil {
		return nil, nil, err
	}

	if err := s.RecipeRepo.UpdateRatingStats(recipeID); err != nil {
		return nil, nil, err
	}

	if recipe.AuthorID == userID {
		return rating, nil, nil
	}

	rater, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return rating, nil, nil
	}

	relatedUser := userID
	relatedRecipe := recipeID
	notif := &model.Notification{
		RecipientID:     recipe.AuthorID,
		Type:            model.NotifyRecipeRating,
		Message:         fmt.Sprintf("%s 给你的食谱「%s」打了 %d 分", rater.Name, recipe.Title, value),
		RelatedUserID:   &relatedUser,
		RelatedRecipeID: &relatedRecipe,
	}
	if err := s.NotifRepo.Create(notif); err != nil {
		return rating, nil, nil
	}
	notif.RelatedUser = rater

	return rating, notif, nil
}

func (s *RatingService) ListByRecipe(recipeID uint) ([]model.Rating, error) {
	return s.RatingRepo.ListByRecipe(recipeID)
}
